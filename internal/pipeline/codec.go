package pipeline

import (
	"encoding/binary"
	"fmt"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/piece"
)

// NextLen is the fixed number of placements in every persisted solution:
// a perfect clear at board.Height always consumes exactly this many
// tetrominoes (HEIGHT*10/4).
const NextLen = board.Height * board.Width / 4

// maxPackedPieces is how many 3-bit piece digits fit in the 48-bit
// integer (16 * 3 = 48).
const maxPackedPieces = 16

// endSentinel marks an absent hold piece or an unused trailing digit.
const endSentinel = 0b111

// SolutionSize is the byte size of one persisted solution record.
const SolutionSize = 6 /* 48-bit piece packing */ + 2 /* hold bitmask */ + NextLen

// PlacementCode is a placement's on-disk encoding: a facing and a
// piece-identity-relative canonical position index. Resolving it to an
// (x, y) board position requires knowing which piece kind was placed at
// that step, which KindAt derives from the piece sequence and hold bits.
type PlacementCode struct {
	Facing         piece.Facing
	CanonicalIndex int
}

// Resolve turns a code into a concrete placement given the piece kind
// that was actually placed at this step.
func (c PlacementCode) Resolve(kind piece.Kind) board.Placement {
	p := piece.NewPiece(kind, c.Facing)
	x, y := piece.FromCanonicalIndex(p, c.CanonicalIndex)
	return board.Placement{Piece: p, X: x, Y: y}
}

// Solution is one persisted perfect-clear record (spec §4.11): the
// piece sequence consumed (held piece, current piece, preview), which
// placements were played from the hold slot, and the placement codes.
type Solution struct {
	Hold      piece.Kind
	HoldValid bool
	Current   piece.Kind
	Preview   []piece.Kind
	HoldBits  uint16

	Placements [NextLen]PlacementCode
}

// PackSolution encodes s into the exact on-disk byte layout: a 48-bit
// little-endian piece-index integer (low-order triple is hold, then
// current, then preview), a 16-bit little-endian hold bitmask, then
// NextLen placement bytes (low 2 bits Facing, high 6 bits canonical
// position index).
func PackSolution(s Solution) ([]byte, error) {
	if 2+len(s.Preview) > maxPackedPieces {
		return nil, fmt.Errorf("pipeline: %d pieces exceeds the %d-digit packed limit", 2+len(s.Preview), maxPackedPieces)
	}

	buf := make([]byte, SolutionSize)

	digits := make([]uint64, 0, maxPackedPieces)
	if s.HoldValid {
		digits = append(digits, uint64(s.Hold))
	} else {
		digits = append(digits, endSentinel)
	}
	digits = append(digits, uint64(s.Current))
	for _, k := range s.Preview {
		digits = append(digits, uint64(k))
	}

	var packed uint64
	for i := 0; i < maxPackedPieces; i++ {
		digit := uint64(endSentinel)
		if i < len(digits) {
			digit = digits[i]
		}
		packed |= digit << uint(i*3)
	}
	var packedBytes [8]byte
	binary.LittleEndian.PutUint64(packedBytes[:], packed)
	copy(buf[0:6], packedBytes[:6])

	binary.LittleEndian.PutUint16(buf[6:8], s.HoldBits)

	for i, c := range s.Placements {
		buf[8+i] = byte(c.CanonicalIndex<<2) | byte(c.Facing)
	}

	return buf, nil
}

// UnpackSolution decodes a SolutionSize-byte record back into a
// Solution. It returns an error (never a panic) on a truncated buffer
// so a validator can report the byte offset of the failure.
func UnpackSolution(data []byte) (Solution, error) {
	var s Solution
	if len(data) < SolutionSize {
		return s, fmt.Errorf("pipeline: record is %d bytes, want %d", len(data), SolutionSize)
	}

	var packedBytes [8]byte
	copy(packedBytes[:6], data[0:6])
	packed := binary.LittleEndian.Uint64(packedBytes[:])

	digit := func(i int) uint64 { return (packed >> uint(i*3)) & 0b111 }

	if d := digit(0); d == endSentinel {
		s.HoldValid = false
	} else {
		s.Hold, s.HoldValid = piece.Kind(d), true
	}
	s.Current = piece.Kind(digit(1))

	s.Preview = make([]piece.Kind, 0, maxPackedPieces-2)
	for i := 2; i < maxPackedPieces; i++ {
		d := digit(i)
		if d == endSentinel {
			break
		}
		s.Preview = append(s.Preview, piece.Kind(d))
	}

	s.HoldBits = binary.LittleEndian.Uint16(data[6:8])

	for i := range s.Placements {
		b := data[8+i]
		s.Placements[i] = PlacementCode{
			Facing:         piece.Facing(b & 0b11),
			CanonicalIndex: int(b >> 2),
		}
	}

	return s, nil
}

// KindAt returns which piece kind was placed at step i, replaying the
// hold/current/preview sequence against HoldBits: a set bit means the
// piece that was in hold got placed (and the current piece takes its
// place in hold); if hold was empty at that point, the queue's next
// piece is drawn and placed immediately in the same turn.
func (s Solution) KindAt(i int) piece.Kind {
	hold, holdSet := s.Hold, s.HoldValid
	current := s.Current
	pIdx := 0
	pop := func() piece.Kind {
		if pIdx < len(s.Preview) {
			k := s.Preview[pIdx]
			pIdx++
			return k
		}
		return 0
	}

	for step := 0; ; step++ {
		useHold := s.HoldBits&(1<<uint(step)) != 0
		var placed piece.Kind
		switch {
		case useHold && holdSet:
			placed = hold
			hold = current
			current = pop()
		case useHold && !holdSet:
			placed = pop()
			hold, holdSet = current, true
			current = pop()
		default:
			placed = current
			current = pop()
		}
		if step == i {
			return placed
		}
	}
}
