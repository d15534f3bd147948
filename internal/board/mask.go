// Package board implements the bit-packed Tetris playfield representation:
// a 10-wide, 6-tall grid packed into a single 64-bit integer, along with
// the piece-shape masks collision is tested against.
package board

import (
	"math/bits"

	"github.com/hailam/tetrispc/internal/piece"
)

// Width and Height are the playfield dimensions this package packs into
// a single uint64: row 0 occupies the low 10 bits, row 5 the high 10 of
// the 60 used bits; bits 60..63 are always zero.
const (
	Width  = 10
	Height = 6
)

// Mask is a 10x6 bit-packed playfield. A filled cell is a set bit; rows
// above Height are always zero.
type Mask uint64

// rowMask is a single row of Width set bits.
const rowMask Mask = (1 << Width) - 1

// Row returns the 10-bit contents of row y (0 = bottom).
func (b Mask) Row(y int) Mask {
	return (b >> uint(y*Width)) & rowMask
}

// shiftFor computes the signed shift amount aligning a piece's local bit
// 0 with board position (x, y): column x is bit x of its row, so this is
// a left-shift by y*10+x when non-negative, a right-shift otherwise.
func shiftFor(x, y int8) int {
	return int(y)*Width + int(x)
}

// shifted applies the signed shift computed by shiftFor to m.
func shifted(m uint64, shift int) uint64 {
	if shift >= 0 {
		return m << uint(shift)
	}
	return m >> uint(-shift)
}

// Collides reports whether placing pm at (x, y) would overlap any filled
// cell of b. Positions outside the piece's legal range always collide.
func (b Mask) Collides(pm PieceMask, p piece.Piece, x, y int8) bool {
	g := piece.GeometryOf(p)
	if x < g.MinX || x > g.MaxX || y < g.MinY {
		return true
	}
	sh := shifted(uint64(pm), shiftFor(x, y))
	return uint64(b)&sh != 0
}

// Place ORs pm into b at (x, y). Caller must ensure !Collides first.
func (b Mask) Place(pm PieceMask, x, y int8) Mask {
	return b | Mask(shifted(uint64(pm), shiftFor(x, y)))
}

// ClearLines removes every full row at or above startY, compacting rows
// above each cleared line downward, and returns the number cleared
// (spec §4.1: starts at max(0, startY), walks upward while the row index
// stays below Height).
func (b Mask) ClearLines(startY int) (Mask, int) {
	y := startY
	if y < 0 {
		y = 0
	}
	cleared := 0
	for y+cleared < Height {
		row := rowMask << uint(y*Width)
		if b&row == row {
			below := Mask(1)<<uint(y*Width) - 1
			bottom := b & below
			top := (b >> Width) &^ below
			b = bottom | top
			cleared++
			continue
		}
		y++
	}
	return b, cleared
}

// EmptyCells returns the number of unset cells within the lowest
// maxHeight rows.
func (b Mask) EmptyCells(maxHeight int) int {
	mask := Mask(1<<uint(maxHeight*Width)) - 1
	return maxHeight*Width - bits.OnesCount64(uint64(b&mask))
}

// checkerboardPattern and columnPattern are the two fixed comptime
// parity masks used by CheckerboardParity/ColumnParity (spec §4.1).
const (
	checkerboardRow Mask = 0b0101010101
	checkerboardPattern Mask = checkerboardRow |
		(checkerboardRow^rowMask)<<Width |
		checkerboardRow<<(2*Width) |
		(checkerboardRow^rowMask)<<(3*Width) |
		checkerboardRow<<(4*Width) |
		(checkerboardRow^rowMask)<<(5*Width)
	columnRow     Mask = 0b0101010101
	columnPattern Mask = columnRow | columnRow<<Width | columnRow<<(2*Width) |
		columnRow<<(3*Width) | columnRow<<(4*Width) | columnRow<<(5*Width)
)

// partialTopMask masks off rows at or above maxHeight so a partially
// filled top row never contributes to a parity computation.
func partialTopMask(maxHeight int) Mask {
	return Mask(1<<uint(maxHeight*Width)) - 1
}

// CheckerboardParity returns |popcount(b & pattern1) - popcount(b & pattern2)|
// for the checkerboard pattern, restricted to the bottom maxHeight rows.
func (b Mask) CheckerboardParity(maxHeight int) uint8 {
	m := b & partialTopMask(maxHeight)
	p1 := bits.OnesCount64(uint64(m & checkerboardPattern))
	p2 := bits.OnesCount64(uint64(m &^ checkerboardPattern & partialTopMask(maxHeight)))
	return absDiff(p1, p2)
}

// ColumnParity returns the even-column analogue of CheckerboardParity.
func (b Mask) ColumnParity(maxHeight int) uint8 {
	m := b & partialTopMask(maxHeight)
	p1 := bits.OnesCount64(uint64(m & columnPattern))
	p2 := bits.OnesCount64(uint64(m &^ columnPattern & partialTopMask(maxHeight)))
	return absDiff(p1, p2)
}

func absDiff(a, b int) uint8 {
	if a < b {
		return uint8(b - a)
	}
	return uint8(a - b)
}

// Heights returns, per column, one plus the highest occupied row index
// (0 if the column is empty).
func (b Mask) Heights() [Width]int8 {
	var h [Width]int8
	for x := 0; x < Width; x++ {
		for y := Height - 1; y >= 0; y-- {
			if b.Row(y)&(1<<uint(x)) != 0 {
				h[x] = int8(y + 1)
				break
			}
		}
	}
	return h
}

// String renders the board for debugging, row 5 first.
func (b Mask) String() string {
	out := make([]byte, 0, Height*(Width+1))
	for y := Height - 1; y >= 0; y-- {
		row := b.Row(y)
		for x := 0; x < Width; x++ {
			if row&(1<<uint(x)) != 0 {
				out = append(out, '#')
			} else {
				out = append(out, '.')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}
