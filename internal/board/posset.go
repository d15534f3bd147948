package board

import (
	"math/bits"

	"github.com/hailam/tetrispc/internal/piece"
)

// posX, posY and posFacing bound the coordinate space a PosSet indexes
// over: x in [0, 10), y in [0, 9), facing in [0, 4) -- a 360-bit set
// (spec §4.3).
const (
	posX      = 10
	posY      = 9
	posFacing = 4
	posSetBits = posX * posY * posFacing
	posSetWords = (posSetBits + 63) / 64
)

// PosSet is a dense bit-set over positions a single piece kind can
// occupy, used as both the BFS seen-set and the output placement set
// of the move generator.
type PosSet struct {
	bits [posSetWords]uint64
}

// index flattens (x, y, facing) the way spec §4.3 specifies.
func index(x, y int8, f piece.Facing) int {
	return int(x) + int(y)*posX + int(f)*posX*posY
}

// Contains reports whether (x, y, f) is a member of the set.
func (s *PosSet) Contains(x, y int8, f piece.Facing) bool {
	i := index(x, y, f)
	return s.bits[i/64]&(1<<uint(i%64)) != 0
}

// Put adds (x, y, f) to the set. Idempotent.
func (s *PosSet) Put(x, y int8, f piece.Facing) {
	i := index(x, y, f)
	s.bits[i/64] |= 1 << uint(i%64)
}

// PutAndTest sets (x, y, f) and returns whether it was already present
// beforehand, letting callers fold a seen-check and insertion into one
// call (spec §4.3).
func (s *PosSet) PutAndTest(x, y int8, f piece.Facing) bool {
	i := index(x, y, f)
	word := i / 64
	mask := uint64(1) << uint(i%64)
	was := s.bits[word]&mask != 0
	s.bits[word] |= mask
	return was
}

// Placement names a single locked placement: a piece identity plus the
// position it rests at.
type Placement struct {
	Piece piece.Piece
	X, Y  int8
}

// Each iterates every member of the set for the given piece kind,
// yielding one Placement per member in ascending flat-index order.
func (s *PosSet) Each(kind piece.Kind, fn func(Placement)) {
	for i, word := range s.bits {
		for word != 0 {
			lsb := bits.TrailingZeros64(word)
			word &= word - 1
			flat := i*64 + lsb
			if flat >= posSetBits {
				continue
			}
			f := piece.Facing(flat / (posX * posY))
			rem := flat % (posX * posY)
			y := int8(rem / posX)
			x := int8(rem % posX)
			fn(Placement{Piece: piece.NewPiece(kind, f), X: x, Y: y})
		}
	}
}

// Len returns the number of members in the set.
func (s *PosSet) Len() int {
	n := 0
	for _, word := range s.bits {
		for word != 0 {
			word &= word - 1
			n++
		}
	}
	return n
}
