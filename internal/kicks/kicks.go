// Package kicks implements the closed set of rotation-kick strategies a
// move generator can be parameterised over (spec §4.4, §9): a function
// from (piece, rotation) to an ordered list of (dx, dy) offsets to try,
// the first non-colliding one winning.
package kicks

import "github.com/hailam/tetrispc/internal/piece"

// Offset is a single (dx, dy) kick candidate.
type Offset struct {
	DX, DY int8
}

// Fn maps a piece identity and a rotation to the ordered offsets to
// try, per spec §4.4/§6 ("KickFn: (piece, rotation) -> slice of (dx,
// dy)"). Dispatch is by function value, not by interface, per §9's
// explicit direction against runtime polymorphism for this boundary.
type Fn func(p piece.Piece, r piece.Rotation) []Offset

// Strategy names the closed set of supported kick tables.
type Strategy int

const (
	None Strategy = iota
	None180
	SRS
	SRS180
	SRSPlus
	SRSTetrio
)

// For returns the Fn implementing the named strategy.
func For(s Strategy) Fn {
	switch s {
	case None:
		return noneFn
	case None180:
		return none180Fn
	case SRS:
		return srsFn
	case SRS180:
		return srs180Fn
	case SRSPlus:
		return srsPlusFn
	case SRSTetrio:
		return srsTetrioFn
	default:
		return noneFn
	}
}

// noneFn never kicks: rotation only succeeds in place.
func noneFn(p piece.Piece, r piece.Rotation) []Offset {
	return zeroOffset
}

var zeroOffset = []Offset{{0, 0}}

// none180Fn behaves like noneFn for CW/CCW but also allows only the
// in-place attempt for 180 rotations (distinguishing the strategy from
// noneFn is purely nominal here, matching engines that special-case 180
// handling even with no real kick table).
func none180Fn(p piece.Piece, r piece.Rotation) []Offset {
	return zeroOffset
}

// srsJLSTZ holds the five standard SRS offsets for the three rotation
// transitions (spawn->R, spawn->L symmetry handled by table layout) for
// the non-I, non-O pieces; I uses its own wider table.
// Indexed [facing][rotation][candidate]. facing indices follow
// piece.Up/Right/Down/Left (0..3); rotation indices follow
// piece.RotateCW/Rotate180/RotateCCW (0..2).
var srsJLSTZ = [4][3][5]Offset{
	{ // Up
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
	},
	{ // Right
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
	},
	{ // Down
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	},
	{ // Left
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
	},
}

// srsI holds the wider I-piece kick table, same index layout as srsJLSTZ.
var srsI = [4][3][5]Offset{
	{ // Up
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
	},
	{ // Right
		{{0, 0}, {-1, 0}, {2, 0}, {-1, 2}, {2, -1}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
	},
	{ // Down
		{{0, 0}, {2, 0}, {-1, 0}, {2, 1}, {-1, -2}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
	},
	{ // Left
		{{0, 0}, {1, 0}, {-2, 0}, {1, -2}, {-2, 1}},
		{{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}},
		{{0, 0}, {-2, 0}, {1, 0}, {-2, -1}, {1, 2}},
	},
}

func srsFn(p piece.Piece, r piece.Rotation) []Offset {
	table := &srsJLSTZ
	if p.Kind() == piece.I {
		table = &srsI
	}
	if p.Kind() == piece.O {
		return zeroOffset
	}
	return table[p.Facing()][r][:]
}

// srs180Fn extends srsFn with a short, commonly-used 180 kick for every
// piece except O (SRS itself defines no 180 rotation; this strategy
// models engines that add one).
func srs180Fn(p piece.Piece, r piece.Rotation) []Offset {
	if r != piece.Rotate180 || p.Kind() == piece.O {
		return srsFn(p, r)
	}
	return []Offset{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}}
}

// srsPlusFn is SRS with an additional wide kick appended to the CW/CCW
// tables of every piece except O, as used by some guideline-derived engines to rescue
// otherwise-illegal tuck spins.
func srsPlusFn(p piece.Piece, r piece.Rotation) []Offset {
	base := srsFn(p, r)
	if p.Kind() == piece.O || r == piece.Rotate180 {
		return base
	}
	return append(append([]Offset{}, base...), Offset{2, 0}, Offset{-2, 0})
}

// srsTetrioFn mirrors the Tetr.io kick table: SRS plus the 180 kicks.
func srsTetrioFn(p piece.Piece, r piece.Rotation) []Offset {
	if r == piece.Rotate180 {
		return srs180Fn(p, r)
	}
	return srsFn(p, r)
}
