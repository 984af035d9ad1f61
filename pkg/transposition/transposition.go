package transposition

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Policy decides what happens when the table is full
type Policy string

const (
	Unbounded Policy = "unbounded" // never evict, grows for the lifetime of the table
	Reset     Policy = "reset"     // drop every entry once capacity is reached
	LRU       Policy = "lru"       // evict the least recently used entry
)

// ErrInvalidOptions is returned by New for an unknown policy or a bounded
// policy without a capacity
var ErrInvalidOptions = errors.New("transposition: invalid options")

// Options configures a Table
type Options struct {
	Policy   Policy `json:"policy"`
	Capacity int    `json:"capacity"`
}

// Entry is a memoised static evaluation
type Entry struct {
	WhiteToMove bool    // side to move when the score was computed
	Score       float64 // evaluation from that side's perspective
}

// Table memoises static evaluations by position key. The first entry
// committed for a key wins: later commits for the same key are ignored, and
// a query whose side to move differs from the stored entry is a miss.
//
// Two distinct positions with the same key and side to move collide and the
// second is served the first one's score. Keys are 64-bit Zobrist hashes, so
// this is accepted rather than detected.
//
// A Table is not safe for concurrent use.
type Table struct {
	policy   Policy
	capacity int
	entries  map[uint64]Entry
	recent   *lru.Cache[uint64, Entry]
	stats    Stats
}

// Stats counts table traffic since the table was created or last cleared
type Stats struct {
	Hits           uint
	Misses         uint
	SideMismatches uint // misses caused by a stored entry for the other side to move
	Commits        uint
	Evictions      uint
}

// New returns an empty table
func New(opts Options) (*Table, error) {
	t := &Table{policy: opts.Policy, capacity: opts.Capacity}
	switch opts.Policy {
	case Unbounded, "":
		t.policy = Unbounded
		t.entries = make(map[uint64]Entry)
	case Reset:
		if opts.Capacity <= 0 {
			return nil, fmt.Errorf("%w: policy %q needs a positive capacity", ErrInvalidOptions, opts.Policy)
		}
		t.entries = make(map[uint64]Entry, opts.Capacity)
	case LRU:
		if opts.Capacity <= 0 {
			return nil, fmt.Errorf("%w: policy %q needs a positive capacity", ErrInvalidOptions, opts.Policy)
		}
		cache, err := lru.NewWithEvict[uint64, Entry](opts.Capacity, func(uint64, Entry) {
			t.stats.Evictions++
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
		}
		t.recent = cache
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidOptions, opts.Policy)
	}
	return t, nil
}

// NewUnbounded returns a table that never evicts
func NewUnbounded() *Table {
	return &Table{policy: Unbounded, entries: make(map[uint64]Entry)}
}

// Query will perform a lookup in the table and return the entry stored for
// the key, provided it was computed with the same side to move
func (t *Table) Query(key uint64, whiteToMove bool) (Entry, bool) {
	entry, ok := t.lookup(key)
	if !ok {
		t.stats.Misses++
		return Entry{}, false
	}
	if entry.WhiteToMove != whiteToMove {
		t.stats.Misses++
		t.stats.SideMismatches++
		return Entry{}, false
	}
	t.stats.Hits++
	return entry, true
}

// Commit will add an entry to the table unless the key is already present.
// It reports whether the entry was stored.
func (t *Table) Commit(key uint64, entry Entry) bool {
	if t.recent != nil {
		stored, _ := t.recent.ContainsOrAdd(key, entry)
		if stored {
			return false
		}
		t.stats.Commits++
		return true
	}
	if _, ok := t.entries[key]; ok {
		return false
	}
	if t.policy == Reset && len(t.entries) >= t.capacity {
		t.stats.Evictions += uint(len(t.entries))
		t.entries = make(map[uint64]Entry, t.capacity)
	}
	t.entries[key] = entry
	t.stats.Commits++
	return true
}

// Peek returns the stored entry regardless of side to move, without
// touching statistics or recency
func (t *Table) Peek(key uint64) (Entry, bool) {
	if t.recent != nil {
		return t.recent.Peek(key)
	}
	entry, ok := t.entries[key]
	return entry, ok
}

func (t *Table) lookup(key uint64) (Entry, bool) {
	if t.recent != nil {
		return t.recent.Get(key)
	}
	entry, ok := t.entries[key]
	return entry, ok
}

// Len returns the number of stored entries
func (t *Table) Len() int {
	if t.recent != nil {
		return t.recent.Len()
	}
	return len(t.entries)
}

// Policy returns the eviction policy in force
func (t *Table) Policy() Policy {
	return t.policy
}

// Stats returns the traffic counters
func (t *Table) Stats() Stats {
	return t.stats
}

// Clear drops every entry and resets the counters
func (t *Table) Clear() {
	if t.recent != nil {
		t.recent.Purge()
	} else {
		t.entries = make(map[uint64]Entry)
	}
	t.stats = Stats{}
}
