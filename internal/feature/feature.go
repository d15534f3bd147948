// Package feature extracts the nine scalar board features the neural
// evaluator scores placements with (spec §4.6).
package feature

import (
	"math"

	"github.com/hailam/tetrispc/internal/board"
)

// Mask selects which of the nine features Extract computes; bit i
// (0-indexed) corresponds to feature i+1 in spec §4.6's list. Unused
// features are left zero in the output, letting an evaluator trained on
// a subset skip the rest without extra allocation.
type Mask uint16

const (
	FeatHeight Mask = 1 << iota
	FeatCaves
	FeatPillars
	FeatRowTransitions
	FeatColumnTransitions
	FeatMaxHeight
	FeatEmptyCells
	FeatCheckerboardParity
	FeatColumnParity

	AllFeatures = FeatHeight | FeatCaves | FeatPillars | FeatRowTransitions |
		FeatColumnTransitions | FeatMaxHeight | FeatEmptyCells |
		FeatCheckerboardParity | FeatColumnParity
)

// Extract computes the nine-wide feature vector for board b, given its
// precomputed per-column heights, the active max_height, and the set of
// features to actually compute (spec §4.6 items 1-9, in order).
func Extract(b board.Mask, heights [board.Width]int8, maxHeight int, used Mask) [9]float32 {
	var out [9]float32

	if used&FeatHeight != 0 {
		sum := 0.0
		for _, h := range heights {
			sum += float64(h) * float64(h)
		}
		out[0] = float32(math.Sqrt(sum))
	}

	if used&FeatCaves != 0 {
		out[1] = float32(caves(b, heights))
	}

	if used&FeatPillars != 0 {
		out[2] = float32(pillars(heights))
	}

	if used&FeatRowTransitions != 0 {
		out[3] = float32(rowTransitions(b, maxHeight))
	}

	if used&FeatColumnTransitions != 0 {
		out[4] = float32(columnTransitions(b, heights))
	}

	if used&FeatMaxHeight != 0 {
		mh := int8(0)
		for _, h := range heights {
			if h > mh {
				mh = h
			}
		}
		out[5] = float32(mh)
	}

	if used&FeatEmptyCells != 0 {
		out[6] = float32(b.EmptyCells(maxHeight))
	}

	if used&FeatCheckerboardParity != 0 {
		out[7] = float32(b.CheckerboardParity(maxHeight))
	}

	if used&FeatColumnParity != 0 {
		out[8] = float32(b.ColumnParity(maxHeight))
	}

	return out
}

// caves sums, for every covered empty cell, height[x]-y when the cell at
// (x, y) is empty and the cell directly above it (x, y+1) is filled, and
// not deeper than both neighbouring columns allow (spec §4.6 item 2).
func caves(b board.Mask, heights [board.Width]int8) int {
	total := 0
	for x := 0; x < board.Width; x++ {
		h := int(heights[x])
		left, right := h, h
		if x > 0 {
			left = int(heights[x-1])
		}
		if x < board.Width-1 {
			right = int(heights[x+1])
		}
		limit := h - 2
		if m := maxInt(left, right); m < limit {
			limit = m
		}
		for y := 0; y < limit+1 && y < h-1; y++ {
			if cellFilled(b, x, y) || !cellFilled(b, x, y+1) {
				continue
			}
			total += h - y
		}
	}
	return total
}

// cellFilled reports whether board column x, row y holds a set bit.
func cellFilled(b board.Mask, x, y int) bool {
	return b.Row(y)&(1<<uint(x)) != 0
}

// pillars sums, per column, the smaller height-difference magnitude to
// either neighbour, squaring differences that exceed 2 (spec §4.6 item 3).
func pillars(heights [board.Width]int8) int {
	total := 0
	for x := 0; x < board.Width; x++ {
		h := int(heights[x])
		var left, right int
		if x > 0 {
			left = absInt(h - int(heights[x-1]))
		} else {
			left = maxInt(0, h-int(heights[minInt(x+1, board.Width-1)]))
		}
		if x < board.Width-1 {
			right = absInt(h - int(heights[x+1]))
		} else {
			right = maxInt(0, h-int(heights[maxInt(x-1, 0)]))
		}
		d := minInt(left, right)
		if d > 2 {
			d = d * d
		}
		total += d
	}
	return total
}

// rowTransitions counts filled/empty boundaries within each row's
// interior columns (1..8), ignoring the side borders (spec §4.6 item 4).
func rowTransitions(b board.Mask, maxHeight int) int {
	const interiorMask = ((1 << (board.Width - 1)) - 1) &^ 1
	total := 0
	for y := 0; y < maxHeight; y++ {
		row := uint64(b.Row(y))
		total += popcount(uint64(interiorMask) & (row ^ (row << 1)))
	}
	return total
}

// columnTransitions counts filled/empty boundaries moving up each
// column, including the top row's own popcount (spec §4.6 item 5).
func columnTransitions(b board.Mask, heights [board.Width]int8) int {
	h := 0
	for _, v := range heights {
		if int(v) > h {
			h = int(v)
		}
	}
	if h == 0 {
		return 0
	}
	total := popcount(uint64(b.Row(h - 1)))
	for y := 0; y < h-1; y++ {
		total += popcount(uint64(b.Row(y)) ^ uint64(b.Row(y+1)))
	}
	return total
}

func popcount(v uint64) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
