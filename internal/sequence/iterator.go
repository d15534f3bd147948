// Package sequence enumerates 7-bag-producible piece sequences exactly
// once per canonical form (spec §4.8).
package sequence

import (
	"github.com/cespare/xxhash/v2"
	"github.com/hailam/tetrispc/internal/piece"
)

// Iterator walks every bag-size partition of the unlocked prefix,
// every lock-digit tuple for the fixed suffix, and every permutation of
// each bag segment, in lexicographic order, emitting one canonical
// sequence (and its 7 hold-rotations) at a time.
type Iterator struct {
	length   int
	lockLen  int
	unlocked int

	partitions [][]int
	partIdx    int

	lockDigits []int // current lock-suffix digit tuple, base 7

	bags *bagCursor // permutation cursor over the current partition's bag segments

	rotation int // which of the 7 hold-rotations is about to be emitted
	pending  []piece.Kind

	seen map[uint64]struct{}
	done bool
}

// New builds an iterator over every sequence of length `length`, with
// the last `length-unlocked` slots enumerated as raw digit tuples
// (spec §4.8's "lock positions") and the first `unlocked` slots
// enumerated through bag-size partitions and permutations.
func New(length, unlocked int) *Iterator {
	it := &Iterator{
		length:   length,
		unlocked: unlocked,
		lockLen:  length - unlocked,
		seen:     make(map[uint64]struct{}),
		rotation: 7, // force the first Next() call past the rotation bound
	}
	it.partitions = partitionsOf(unlocked)
	if len(it.partitions) == 0 {
		it.done = true
		return it
	}
	it.lockDigits = make([]int, it.lockLen)
	it.bags = newBagCursor(it.partitions[0])
	return it
}

// Done reports whether every canonical sequence has been emitted.
func (it *Iterator) Done() bool { return it.done }

// Next returns the next canonical sequence, or ok=false once the
// iterator is exhausted.
func (it *Iterator) Next() ([]piece.Kind, bool) {
	for {
		if it.rotation < rotationCount(len(it.pending)) {
			out := rotateHold(it.pending, it.rotation)
			it.rotation++
			return out, true
		}
		if it.done {
			return nil, false
		}
		if !it.advanceToNextRaw() {
			it.done = true
			return nil, false
		}
	}
}

// advanceToNextRaw advances the bag/lock-digit/partition cursors to the
// next raw (pre-rotation, pre-dedup) sequence, filters it through the
// canonical head-swap seen-set, and if it survives, primes it.rotation
// and it.pending so Next() starts emitting its 7 rotations.
func (it *Iterator) advanceToNextRaw() bool {
	for {
		unlockedSeq, ok := it.bags.next()
		if !ok {
			if !it.advanceLockDigits() {
				if !it.advancePartition() {
					return false
				}
				it.resetLockDigits()
			}
			it.bags = newBagCursor(it.partitions[it.partIdx])
			continue
		}

		raw := make([]piece.Kind, it.length)
		copy(raw, unlockedSeq)
		for i, d := range it.lockDigits {
			raw[it.unlocked+i] = piece.Kind(d)
		}

		canon := canonicalHeadSwap(raw)
		h := hashSequence(canon)
		if _, dup := it.seen[h]; dup {
			continue
		}
		it.seen[h] = struct{}{}

		it.pending = canon
		it.rotation = 0
		return true
	}
}

// advanceLockDigits increments the base-7 lock-digit tuple, returning
// false once it has cycled back to all zero (exhausted).
func (it *Iterator) advanceLockDigits() bool {
	for i := len(it.lockDigits) - 1; i >= 0; i-- {
		it.lockDigits[i]++
		if it.lockDigits[i] < 7 {
			return true
		}
		it.lockDigits[i] = 0
	}
	return false
}

func (it *Iterator) resetLockDigits() {
	for i := range it.lockDigits {
		it.lockDigits[i] = 0
	}
}

func (it *Iterator) advancePartition() bool {
	it.partIdx++
	return it.partIdx < len(it.partitions)
}

// canonicalHeadSwap returns seq, or seq with its first two entries
// swapped, whichever has the smaller head (hold is commutative on the
// first two pieces, spec §4.8).
func canonicalHeadSwap(seq []piece.Kind) []piece.Kind {
	if len(seq) < 2 || seq[0] <= seq[1] {
		return seq
	}
	out := make([]piece.Kind, len(seq))
	copy(out, seq)
	out[0], out[1] = out[1], out[0]
	return out
}

// rotateHold returns a copy of seq rotated so that hold slot r's piece
// leads, modelling the 7-way "which piece is in the hold slot" degree
// of freedom (spec §4.8).
func rotateHold(seq []piece.Kind, r int) []piece.Kind {
	out := make([]piece.Kind, len(seq))
	copy(out, seq)
	if r == 0 || r >= len(out) {
		return out
	}
	out[0], out[r] = out[r], out[0]
	return out
}

// rotationCount bounds how many of the 7 hold-rotation slots are
// distinct for a sequence shorter than 7: rotating into a slot past
// the sequence's end is the same as not rotating at all.
func rotationCount(seqLen int) int {
	if seqLen < 7 {
		return seqLen
	}
	return 7
}

func hashSequence(seq []piece.Kind) uint64 {
	buf := make([]byte, len(seq))
	for i, k := range seq {
		buf[i] = byte(k)
	}
	return xxhash.Sum64(buf)
}
