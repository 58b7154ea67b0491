package id

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Space tells which namespace an ID belongs to.
type Space uint8

const (
	// Local ids are allocated client-side for rows the server has never seen.
	Local Space = iota + 1
	// Persisted ids were issued by the server.
	Persisted
)

// localPrefix is the text form of a local id: "local:7".
const localPrefix = "local:"

// ErrEmpty is returned by Parse for an empty identifier.
var ErrEmpty = errors.New("empty identifier")

// ID identifies a row in a working copy. The zero value is not a valid ID.
// IDs are comparable and can be used as map keys.
type ID struct {
	space Space
	value string
}

// NewLocal returns the local ID with sequence n.
func NewLocal(n uint64) ID {
	return ID{space: Local, value: strconv.FormatUint(n, 10)}
}

// FromServer wraps a server-issued identifier.
func FromServer(s string) ID {
	return ID{space: Persisted, value: s}
}

// Space returns the namespace of the ID.
func (i ID) Space() Space { return i.space }

// IsLocal reports whether the ID was allocated client-side.
func (i ID) IsLocal() bool { return i.space == Local }

// IsPersisted reports whether the ID was issued by the server.
func (i ID) IsPersisted() bool { return i.space == Persisted }

// IsZero reports whether the ID is unset.
func (i ID) IsZero() bool { return i.space == 0 }

// Value returns the raw value within its namespace: the sequence number for
// local ids, the server string for persisted ones.
func (i ID) Value() string { return i.value }

// String returns "local:<n>" for local ids and the server id otherwise.
func (i ID) String() string {
	switch i.space {
	case Local:
		return localPrefix + i.value
	case Persisted:
		return i.value
	default:
		return ""
	}
}

// Parse converts the text form back into an ID.
// "local:3" -> local #3, anything else -> persisted.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ID{}, ErrEmpty
	}
	rest, ok := strings.CutPrefix(s, localPrefix)
	if !ok {
		return FromServer(s), nil
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return ID{}, fmt.Errorf("invalid local id %q: %w", s, err)
	}
	return NewLocal(n), nil
}

// Allocator hands out local ids. Safe for concurrent use.
type Allocator struct {
	mu   sync.Mutex
	next uint64
}

// NewAllocator creates an Allocator whose first id is local:1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns a fresh local id. Values are never reused.
func (a *Allocator) Next() ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return NewLocal(a.next)
}
