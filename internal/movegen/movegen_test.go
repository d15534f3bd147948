package movegen

import (
	"testing"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/piece"
)

// On an empty board with O-rotations disabled, the O piece never changes
// facing: each of the four seeded facings independently drops straight
// down, landing at y=0 for every one of its 9 legal x offsets. The
// resulting set therefore has exactly 4*9 = 36 members.
func TestAllPlacementsOEmptyBoardCount(t *testing.T) {
	kick := kicks.For(kicks.SRS)
	placements := AllPlacements(0, false, kick, piece.O, 4)
	if got := placements.Len(); got != 36 {
		t.Fatalf("Len()=%d want 36", got)
	}
	count := 0
	placements.Each(piece.O, func(pl board.Placement) {
		count++
		if pl.Y != 0 {
			t.Fatalf("expected O piece to rest on the floor, got y=%d", pl.Y)
		}
		if pl.X < 0 || pl.X > 8 {
			t.Fatalf("x=%d out of expected [0,8] range", pl.X)
		}
	})
	if count != 36 {
		t.Fatalf("Each visited %d placements, want 36", count)
	}
}

// Every placement AllPlacements records must be collision-free, on
// ground, and within the height limit -- this holds regardless of the
// exact placement count, which depends on kick-table specifics.
func TestAllPlacementsPlacementsAreValid(t *testing.T) {
	var b board.Mask
	b = b.Place(board.MaskOf(piece.NewPiece(piece.O, piece.Up)), 4, 0)

	kick := kicks.For(kicks.SRS)
	const maxHeight = 4
	placements := AllPlacements(b, true, kick, piece.T, maxHeight)

	if placements.Len() == 0 {
		t.Fatal("expected at least one placement")
	}
	placements.Each(piece.T, func(pl board.Placement) {
		pm := board.MaskOf(pl.Piece)
		if b.Collides(pm, pl.Piece, pl.X, pl.Y) {
			t.Fatalf("recorded placement %+v collides with the board", pl)
		}
		g := piece.GeometryOf(pl.Piece)
		if int(pl.Y)+int(g.Top) > maxHeight {
			t.Fatalf("recorded placement %+v exceeds max height %d", pl, maxHeight)
		}
		onGround := pl.Y == 0 || b.Collides(pm, pl.Piece, pl.X, pl.Y-1)
		if !onGround {
			t.Fatalf("recorded placement %+v is not on ground", pl)
		}
	})
}

// TestAllPlacementsScenario2BoardCount exercises spec.md §8 scenario 2:
// a fixed 4-row board, piece L, height 5, O-rotations disabled, SRS
// kicks. A correct move generator finds exactly 25 locked placements.
func TestAllPlacementsScenario2BoardCount(t *testing.T) {
	const (
		row0 = board.Mask(0b0000001001)
		row1 = board.Mask(0b0000001000)
		row2 = board.Mask(0b0010000000)
		row3 = board.Mask(0b0111111110)
	)
	b := row0 | row1<<board.Width | row2<<(2*board.Width) | row3<<(3*board.Width)

	kick := kicks.For(kicks.SRS)
	placements := AllPlacements(b, false, kick, piece.L, 5)
	if got := placements.Len(); got != 25 {
		t.Fatalf("Len()=%d want 25", got)
	}
}

// Disabling O rotations must never change which (x, y) positions are
// reachable for a facing that was directly seeded -- it only stops the
// BFS from producing additional facings through rotation.
func TestAllPlacementsORotationsDisabledStillCoversFloor(t *testing.T) {
	kick := kicks.For(kicks.SRS)
	placements := AllPlacements(0, false, kick, piece.O, 4)
	for x := int8(0); x <= 8; x++ {
		if !placements.Contains(x, 0, piece.Up) {
			t.Fatalf("missing floor placement at x=%d facing Up", x)
		}
	}
}
