package board

import "math/bits"

// boundaryMask covers the 9 possible wall positions between Width=10
// adjacent columns.
const boundaryMask Mask = (1 << (Width - 1)) - 1

// IsPCPossible is the fast feasibility pruner of spec §4.5: given a
// board whose empty-cell count is known (by the caller) to be a
// multiple of 4, quickly reject boards whose empty cells cannot in
// principle be partitioned into tetromino-shaped groups.
//
// A "wall" between columns c and c+1 exists when every row 0..maxHeight
// has at least one of the two adjacent cells filled; pieces cannot
// straddle a wall, so each vertical segment between consecutive walls
// must itself contain a multiple-of-4 count of empty cells. Because the
// total empty count is already a multiple of 4, checking every suffix
// (from each wall to the right edge) is equivalent to checking every
// segment, so the leftmost segment need not be checked separately.
func IsPCPossible(b Mask, maxHeight int) bool {
	walls := boundaryMask
	for y := 0; y < maxHeight; y++ {
		walls &= wallsInRow(b.Row(y))
	}

	// Reduce consecutive wall bits to one representative per spec §4.5.
	walls &= walls ^ (walls << 1)

	for walls != 0 {
		c := bits.TrailingZeros64(uint64(walls))
		walls &= walls - 1

		rightMask := Mask(rowMask) &^ ((Mask(1) << uint(c+1)) - 1)
		emptyToRight := 0
		for y := 0; y < maxHeight; y++ {
			filled := bits.OnesCount64(uint64(b.Row(y) & rightMask))
			emptyToRight += (Width - c - 1) - filled
		}
		if emptyToRight%4 != 0 {
			return false
		}
	}
	return true
}

// wallsInRow returns, for a single row, bit c set iff column c or
// column c+1 is filled in that row.
func wallsInRow(row Mask) Mask {
	return (row | (row >> 1)) & boundaryMask
}
