// Package piece defines tetromino kinds, facings and the per-facing
// geometry tables used to compress a placement into a canonical index.
package piece

import "fmt"

// Kind identifies one of the seven tetromino shapes. Encoded as a 3-bit
// value so that (Kind, Facing) packs into a 5-bit Piece identity.
type Kind uint8

const (
	I Kind = iota
	O
	T
	L
	J
	S
	Z
	NumKinds = 7
)

func (k Kind) String() string {
	switch k {
	case I:
		return "I"
	case O:
		return "O"
	case T:
		return "T"
	case L:
		return "L"
	case J:
		return "J"
	case S:
		return "S"
	case Z:
		return "Z"
	default:
		return "?"
	}
}

// Kinds lists all seven kinds in a fixed order, used by the bag model.
var Kinds = [NumKinds]Kind{I, O, T, L, J, S, Z}

// Facing identifies one of the four rotation states of a piece.
type Facing uint8

const (
	Up Facing = iota
	Right
	Down
	Left
	NumFacings = 4
)

// Rotation identifies a rotation applied from a current facing.
type Rotation uint8

const (
	RotateCW Rotation = iota
	Rotate180
	RotateCCW
	NumRotations = 3
)

// Apply returns the facing reached by rotating f by r.
func (f Facing) Apply(r Rotation) Facing {
	switch r {
	case RotateCW:
		return (f + 1) % NumFacings
	case Rotate180:
		return (f + 2) % NumFacings
	case RotateCCW:
		return (f + 3) % NumFacings
	default:
		return f
	}
}

// Piece is the 5-bit (kind, facing) identity used as a table key
// throughout the board/movegen/kicks packages.
type Piece uint8

// NumPieces is the size of the (kind, facing) table (7 kinds * 4 facings,
// though only 28 of the 32 slots addressable by 5 bits are populated).
const NumPieces = int(NumKinds) * NumFacings

// NewPiece packs a (kind, facing) pair into its table identity.
func NewPiece(k Kind, f Facing) Piece {
	return Piece(uint8(k)<<2 | uint8(f))
}

// Kind returns the tetromino kind.
func (p Piece) Kind() Kind { return Kind(p >> 2) }

// Facing returns the rotation state.
func (p Piece) Facing() Facing { return Facing(p & 3) }

// Rotate returns the piece reached by applying r from p's current facing.
func (p Piece) Rotate(r Rotation) Piece {
	return NewPiece(p.Kind(), p.Facing().Apply(r))
}

func (p Piece) String() string {
	return fmt.Sprintf("%s%d", p.Kind(), p.Facing())
}

// Geometry holds the per-facing bounding information needed to validate
// and canonicalise a position before it is tested against the board.
type Geometry struct {
	MinX, MaxX int8 // inclusive legal x range
	MinY       int8 // minimum legal y (pieces cannot rest below this)
	Top        int8 // height of the piece's topmost occupied row above its origin
}

// geometryTable is populated at init() time from the per-piece cell lists
// in shapes.go (comptime attribute table, see spec §4.2/§9).
var geometryTable [NumPieces]Geometry

func init() {
	for k := range Kinds {
		for f := Facing(0); f < NumFacings; f++ {
			p := NewPiece(Kind(k), f)
			geometryTable[p] = computeGeometry(cellsFor(Kind(k), f))
		}
	}
}

func computeGeometry(cells [][2]int8) Geometry {
	minX, maxX, minY, maxY := int8(9), int8(0), int8(9), int8(0)
	for _, c := range cells {
		if c[0] < minX {
			minX = c[0]
		}
		if c[0] > maxX {
			maxX = c[0]
		}
		if c[1] < minY {
			minY = c[1]
		}
		if c[1] > maxY {
			maxY = c[1]
		}
	}
	// Board is 10 wide. Piece masks are normalised to their bounding box
	// (see board.PieceMask), so a position names the box's bottom-left
	// cell and the legal x range is [0, 10-width].
	return Geometry{
		MinX: 0,
		MaxX: 9 - (maxX - minX),
		MinY: 0,
		Top:  maxY - minY + 1,
	}
}

// GeometryOf returns the precomputed geometry for p.
func GeometryOf(p Piece) Geometry {
	return geometryTable[p]
}

// CellsOf returns the local (x, y) cells occupied by p, in the piece's
// own bounding-box coordinate space (not yet shifted to the board).
func CellsOf(p Piece) [][2]int8 {
	return cellsFor(p.Kind(), p.Facing())
}

// CanonicalIndex compresses (x, y, facing) into [0, 59] the way spec §3
// describes: a facing-dependent minimum is subtracted from x before
// packing, so every legal position for every facing lands in the same
// compact range.
func CanonicalIndex(p Piece, x, y int8) int {
	g := GeometryOf(p)
	cx := x - g.MinX
	return int(y)*10 + int(cx)
}

// FromCanonicalIndex inverts CanonicalIndex for a given piece identity.
func FromCanonicalIndex(p Piece, idx int) (x, y int8) {
	g := GeometryOf(p)
	cx := int8(idx % 10)
	cy := int8(idx / 10)
	return cx + g.MinX, cy
}
