package search

import (
	"testing"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/piece"
)

func TestReplayEmptiesBoardOnFullClear(t *testing.T) {
	var b board.Mask
	placements := []board.Placement{
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 0, Y: 0},
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 2, Y: 0},
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 4, Y: 0},
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 6, Y: 0},
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 8, Y: 0},
	}

	final, err := Replay(b, placements)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if final != 0 {
		t.Errorf("expected an empty board after a full clear, got %v", final)
	}
}

func TestReplayRejectsCollidingPlacement(t *testing.T) {
	var b board.Mask
	placements := []board.Placement{
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 0, Y: 0},
		{Piece: piece.NewPiece(piece.O, piece.Up), X: 0, Y: 0}, // same spot twice
	}

	if _, err := Replay(b, placements); err == nil {
		t.Fatal("expected an error for a colliding placement")
	}
}
