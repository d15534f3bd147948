package board

import "github.com/hailam/tetrispc/internal/piece"

// PieceMask is a 10x4 bit grid holding a piece's shape placed at its
// minimum (x, y), i.e. with every cell coordinate translated so the
// piece's own bounding box starts at (0, 0).
type PieceMask uint64

// maskTable is the 28-entry (kind, facing) -> PieceMask lookup table,
// precomputed once at package init (spec §4.2, §9 "comptime attribute
// tables": no runtime construction cost on the hot path).
var maskTable [piece.NumPieces]PieceMask

func init() {
	for k := range piece.Kinds {
		for f := piece.Facing(0); f < piece.NumFacings; f++ {
			p := piece.NewPiece(piece.Kind(k), f)
			maskTable[p] = buildPieceMask(p)
		}
	}
}

func buildPieceMask(p piece.Piece) PieceMask {
	var m uint64
	// The geometry table only stores bounding extents, so ask the piece
	// package for the raw local cells and shift them by their own minimum
	// x and y so the mask starts at (0, 0), matching MaskOf's contract.
	cells := piece.CellsOf(p)
	minX, minY := cells[0][0], cells[0][1]
	for _, c := range cells {
		minX, minY = min(minX, c[0]), min(minY, c[1])
	}
	for _, c := range cells {
		x := c[0] - minX
		y := c[1] - minY
		m |= 1 << uint(int(y)*Width+int(x))
	}
	return PieceMask(m)
}

// MaskOf returns the precomputed shape mask for p.
func MaskOf(p piece.Piece) PieceMask {
	return maskTable[p]
}
