package fumen

import (
	"strings"
	"testing"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/piece"
)

func emptyField() string {
	return strings.Repeat("_", board.Width*board.Height)
}

func TestDecodeEmptyFieldNoHold(t *testing.T) {
	s := "v1@" + emptyField() + ":_,I,O,T"
	g, err := Decode(s, kicks.For(kicks.SRS))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if g.Board() != 0 {
		t.Errorf("expected an empty board, got %v", g.Board())
	}
	if g.Current() != piece.I {
		t.Errorf("Current()=%v want I", g.Current())
	}
	if _, ok := g.Hold(); ok {
		t.Error("expected no held piece")
	}
	if len(g.Preview()) != 2 || g.Preview()[0] != piece.O || g.Preview()[1] != piece.T {
		t.Errorf("Preview()=%v want [O T]", g.Preview())
	}
}

func TestDecodeWithHoldAndFilledCells(t *testing.T) {
	field := make([]byte, board.Width*board.Height)
	for i := range field {
		field[i] = '_'
	}
	// Bottom-left cell filled: row index 0 in string order is the top
	// row, so the bottom row is the last board.Width runes.
	field[len(field)-board.Width] = 'L'

	s := "v1@" + string(field) + ":S,I"
	g, err := Decode(s, kicks.For(kicks.SRS))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if g.Board()&1 == 0 {
		t.Error("expected bottom-left cell to be filled")
	}
	hold, ok := g.Hold()
	if !ok || hold != piece.S {
		t.Errorf("Hold()=(%v,%v) want (S,true)", hold, ok)
	}
}

func TestDecodeRejectsMissingPrefix(t *testing.T) {
	if _, err := Decode("garbage", kicks.For(kicks.SRS)); err == nil {
		t.Fatal("expected an error for a missing v1@ prefix")
	}
}

func TestDecodeRejectsWrongFieldLength(t *testing.T) {
	s := "v1@short:_,I"
	if _, err := Decode(s, kicks.For(kicks.SRS)); err == nil {
		t.Fatal("expected an error for a short field")
	}
}

func TestDecodeRejectsInvalidPieceLetter(t *testing.T) {
	s := "v1@" + emptyField() + ":_,X"
	if _, err := Decode(s, kicks.For(kicks.SRS)); err == nil {
		t.Fatal("expected an error for an invalid piece letter")
	}
}
