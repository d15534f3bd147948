package sequence

import "github.com/hailam/tetrispc/internal/piece"

// bagCursor enumerates every sequence consistent with a bag-size
// partition: for each segment of size s, an ordered selection of s
// distinct kinds out of the seven (spec §4.8's "nested BagIterator...
// tracks the still-free 7-bit piece mask and iterates permutations of
// that segment"). Segments are independent: each bag-segment boundary
// resets the free mask to all seven kinds.
//
// Each segment's selection is decoded from a counter via the factorial
// number system rather than the in-place swap/backtrack technique of
// the retrieved combo-scorer's forEachPermEarlyStop, since a resumable
// Next()-style cursor needs random access into the permutation space,
// not a callback walk; see DESIGN.md.
type bagCursor struct {
	partition []int
	counters  []int // per-segment index into [0, permCount(7, s))
	limits    []int
	exhausted bool
	first     bool
}

func newBagCursor(partition []int) *bagCursor {
	limits := make([]int, len(partition))
	for i, s := range partition {
		limits[i] = permCount(piece.NumKinds, s)
		if limits[i] == 0 {
			// s > 7: no valid segment, so nothing to enumerate.
			return &bagCursor{partition: partition, exhausted: true}
		}
	}
	return &bagCursor{
		partition: partition,
		counters:  make([]int, len(partition)),
		limits:    limits,
		first:     true,
	}
}

// next returns the next full sequence across all segments concatenated,
// or ok=false once every combination has been produced.
func (c *bagCursor) next() ([]piece.Kind, bool) {
	if c.exhausted {
		return nil, false
	}
	if c.first {
		c.first = false
	} else if !c.advance() {
		c.exhausted = true
		return nil, false
	}

	out := make([]piece.Kind, 0, sumInts(c.partition))
	for i, s := range c.partition {
		out = append(out, kthPermutation(piece.Kinds[:], s, c.counters[i])...)
	}
	return out, true
}

func (c *bagCursor) advance() bool {
	for i := len(c.counters) - 1; i >= 0; i-- {
		c.counters[i]++
		if c.counters[i] < c.limits[i] {
			return true
		}
		c.counters[i] = 0
	}
	return false
}

func sumInts(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}

// permCount returns n!/(n-k)!, or 0 if k > n.
func permCount(n, k int) int {
	if k > n || k < 0 {
		return 0
	}
	return factorial(n) / factorial(n-k)
}

// kthPermutation decodes idx (in [0, permCount(len(elems), k))) into
// the idx'th ordered selection of k distinct elements from elems, using
// the factorial number system.
func kthPermutation(elems []piece.Kind, k, idx int) []piece.Kind {
	n := len(elems)
	available := make([]piece.Kind, n)
	copy(available, elems)

	out := make([]piece.Kind, k)
	for pos := 0; pos < k; pos++ {
		remaining := n - pos
		f := factorial(remaining - 1)
		sel := idx / f
		idx %= f
		out[pos] = available[sel]
		available = append(available[:sel], available[sel+1:]...)
	}
	return out
}
