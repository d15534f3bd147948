package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/piece"
)

func TestDeriveSolutionNoHoldUsage(t *testing.T) {
	preview := []piece.Kind{piece.O, piece.T}
	placements := []board.Placement{
		{Piece: piece.NewPiece(piece.I, piece.Up), X: 0, Y: 0},
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 2, Y: 0},
	}

	sol := deriveSolution(0, false, piece.I, preview, placements)
	if sol.HoldBits != 0 {
		t.Errorf("HoldBits=%b want 0", sol.HoldBits)
	}
}

func TestDeriveSolutionHoldSwapWithOccupiedHold(t *testing.T) {
	// Hold holds S, current is I; the solver places S first (a swap),
	// leaving I in hold, then plays the queue head O normally.
	preview := []piece.Kind{piece.O, piece.T}
	placements := []board.Placement{
		{Piece: piece.NewPiece(piece.S, piece.Up), X: 0, Y: 0},
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 2, Y: 0},
	}

	sol := deriveSolution(piece.S, true, piece.I, preview, placements)
	if sol.HoldBits&1 == 0 {
		t.Errorf("expected step 0 to be marked as a hold swap, got HoldBits=%b", sol.HoldBits)
	}
	if sol.HoldBits&2 != 0 {
		t.Errorf("expected step 1 to NOT be a hold swap, got HoldBits=%b", sol.HoldBits)
	}
}

func TestDeriveSolutionHoldSwapWithEmptyHold(t *testing.T) {
	// Hold is empty; the solver holds current (I) and plays the queue
	// head (O) instead, consuming two pieces from current+preview.
	preview := []piece.Kind{piece.O, piece.T, piece.L}
	placements := []board.Placement{
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 0, Y: 0},
		{Piece: piece.NewPiece(piece.T, piece.Up), X: 2, Y: 0},
	}

	sol := deriveSolution(0, false, piece.I, preview, placements)
	if sol.HoldBits&1 == 0 {
		t.Errorf("expected step 0 to be marked as a hold swap, got HoldBits=%b", sol.HoldBits)
	}
	if got := sol.KindAt(0); got != piece.O {
		t.Errorf("KindAt(0)=%v want O", got)
	}
	if got := sol.KindAt(1); got != piece.T {
		t.Errorf("KindAt(1)=%v want T", got)
	}
}

func TestCoordinatorCountRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := NewCoordinator(2, 2, 60000, nil, nil, filepath.Join(dir, "solutions.pc"), "")

	got, err := c.readCount()
	if err != nil {
		t.Fatalf("readCount failed: %v", err)
	}
	if got != 0 {
		t.Errorf("readCount on a missing file = %d want 0", got)
	}

	if err := c.writeCount(12345); err != nil {
		t.Fatalf("writeCount failed: %v", err)
	}
	got, err = c.readCount()
	if err != nil {
		t.Fatalf("readCount failed: %v", err)
	}
	if got != 12345 {
		t.Errorf("readCount=%d want 12345", got)
	}

	if _, err := os.Stat(c.CountPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected the temp count file to be renamed away, not left behind")
	}
}

func TestXxhashSeedIsDeterministic(t *testing.T) {
	seq := []piece.Kind{piece.I, piece.O, piece.T}
	a := xxhashSeed(seq)
	b := xxhashSeed(seq)
	if a != b {
		t.Errorf("xxhashSeed not deterministic: %d != %d", a, b)
	}
	other := xxhashSeed([]piece.Kind{piece.S, piece.Z, piece.L})
	if a == other {
		t.Error("expected distinct sequences to seed differently")
	}
}
