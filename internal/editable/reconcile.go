package editable

// Reconcile splices a confirmed server result for plan into the working copy
// and returns how many returned records could not be matched to a row.
//
// Created records are matched to the plan's create list by position, updated
// records by persisted id. A row's form data is re-derived from the server
// record unless the row was edited after plan was computed. Rows whose
// persisted id appears in deleted are dropped.
//
// A plan computed before the last Initialize no longer describes the working
// copy: nothing is applied and every returned record counts as unmatched.
func Reconcile[F, R, C, U any](c *Collection[F, R], plan Plan[C, U], created, updated []R, deleted []string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if plan.generation != c.generation {
		return len(created) + len(updated)
	}

	unmatched := 0

	for i, rec := range created {
		if i >= len(plan.created) {
			unmatched++
			continue
		}
		c.persist(plan.created[i], rec)
	}

	byID := make(map[string]R, len(updated))
	for _, rec := range updated {
		byID[c.schema.RecordID(rec)] = rec
	}
	for _, r := range plan.updated {
		rec, ok := byID[r.recordID]
		if !ok {
			continue
		}
		delete(byID, r.recordID)
		c.persist(r, rec)
	}
	unmatched += len(byID)

	if len(deleted) > 0 {
		gone := make(map[string]bool, len(deleted))
		for _, d := range deleted {
			gone[d] = true
		}
		kept := c.entries[:0]
		for _, e := range c.entries {
			if e.Original != nil && gone[c.schema.RecordID(*e.Original)] {
				continue
			}
			kept = append(kept, e)
		}
		c.entries = kept
	}

	return unmatched
}

// persist turns the row behind r into a persisted row backed by rec.
func (c *Collection[F, R]) persist(r ref, rec R) {
	orig := rec
	e := c.find(r.entry)
	if e == nil {
		// The new row was removed while the save was in flight. Keep it as a
		// deleted persisted row so the next save removes it server-side.
		c.entries = append(c.entries, &Entry[F, R]{
			ID:        r.entry,
			FormData:  c.schema.FormFromRecord(rec),
			IsDeleted: true,
			Original:  &orig,
		})
		return
	}

	e.IsNew = false
	e.Original = &orig
	if e.revision == r.revision {
		e.FormData = c.schema.FormFromRecord(rec)
	}
}
