// Package search implements the perfect-clear search: transposition
// table, per-depth priority queues, and the iterative-deepening DFS
// entry point (spec §4.7).
package search

import "github.com/hailam/tetrispc/internal/piece"

// Node is the transposition-table key: the board's low 60 bits plus the
// held piece's kind. Safe because max_height <= 6 guarantees rows above
// row 5 are always zero (spec §9 "Transposition table key").
type Node struct {
	Board uint64
	Hold  piece.Kind
	// HoldSet distinguishes "no piece held" from holding kind I (value 0).
	HoldSet bool
}

// entry is one transposition-table slot. occupied distinguishes an
// empty slot from a node that happens to hash to the zero value.
type entry struct {
	key      Node
	occupied bool
}

// TranspositionTable is an open-addressed, power-of-2-sized set of
// visited (board, hold) nodes: presence only, no score/depth/bound,
// since §4.7 only needs "has this state been visited" for pruning, not
// a score cache. Structurally grounded on the teacher's
// engine.TranspositionTable (power-of-2 sizing, mask indexing).
type TranspositionTable struct {
	slots []entry
	mask  uint64
}

// NewTranspositionTable allocates a table sized to hold roughly
// capacityHint entries, rounded up to the next power of two.
func NewTranspositionTable(capacityHint int) *TranspositionTable {
	size := uint64(1)
	for size < uint64(capacityHint) {
		size <<= 1
	}
	if size == 0 {
		size = 1
	}
	return &TranspositionTable{
		slots: make([]entry, size),
		mask:  size - 1,
	}
}

func hashNode(n Node) uint64 {
	h := n.Board*0x9E3779B97F4A7C15 + uint64(n.Hold)*0xBF58476D1CE4E5B9
	if n.HoldSet {
		h ^= 0xD6E8FEB86659FD93
	}
	h ^= h >> 33
	h *= 0xFF51AFD7ED558CCD
	h ^= h >> 33
	return h
}

// Contains reports whether n has already been recorded.
func (t *TranspositionTable) Contains(n Node) bool {
	i := hashNode(n) & t.mask
	for {
		s := &t.slots[i]
		if !s.occupied {
			return false
		}
		if s.key == n {
			return true
		}
		i = (i + 1) & t.mask
	}
}

// Insert records n, returning false if it was already present.
func (t *TranspositionTable) Insert(n Node) bool {
	i := hashNode(n) & t.mask
	for {
		s := &t.slots[i]
		if !s.occupied {
			s.key = n
			s.occupied = true
			return true
		}
		if s.key == n {
			return false
		}
		i = (i + 1) & t.mask
	}
}

// Clear empties every slot without reallocating, used before each of the
// iterative-deepening retries (spec §4.7 step 4).
func (t *TranspositionTable) Clear() {
	for i := range t.slots {
		t.slots[i] = entry{}
	}
}
