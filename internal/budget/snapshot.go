package budget

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neogenz/pulpe-sub001/internal/model"
)

// Snapshot is a budget's lines and transactions as stored on disk.
type Snapshot struct {
	BudgetID     string              `yaml:"budget_id"`
	Lines        []model.Line        `yaml:"lines"`
	Transactions []model.Transaction `yaml:"transactions,omitempty"`
}

// LoadSnapshot reads a snapshot YAML file.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &s, nil
}

// SaveSnapshot writes s to path.
func SaveSnapshot(path string, s *Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// MergeLines folds a save result into the snapshot: persisted lines replace
// their stored version or are appended, deleted ids are dropped.
func (s *Snapshot) MergeLines(persisted []model.Line, deleted []string) {
	s.Lines = merge(s.Lines, persisted, deleted, func(l model.Line) string { return l.ID })
}

// MergeTransactions is MergeLines for transactions.
func (s *Snapshot) MergeTransactions(persisted []model.Transaction, deleted []string) {
	s.Transactions = merge(s.Transactions, persisted, deleted, func(t model.Transaction) string { return t.ID })
}

func merge[R any](stored, persisted []R, deleted []string, key func(R) string) []R {
	gone := make(map[string]bool, len(deleted))
	for _, d := range deleted {
		gone[d] = true
	}

	pos := make(map[string]int, len(stored))
	kept := stored[:0]
	for _, r := range stored {
		if gone[key(r)] {
			continue
		}
		pos[key(r)] = len(kept)
		kept = append(kept, r)
	}

	for _, r := range persisted {
		if i, ok := pos[key(r)]; ok {
			kept[i] = r
			continue
		}
		pos[key(r)] = len(kept)
		kept = append(kept, r)
	}
	return kept
}
