package contract

import (
	"testing"

	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/piece"
)

func TestGameAccessors(t *testing.T) {
	bag := NewSeededBag(42)
	g := NewGame(0, piece.T, piece.S, true, []piece.Kind{piece.I, piece.O}, bag, kicks.For(kicks.SRS))

	if g.Current() != piece.T {
		t.Fatalf("Current()=%v want T", g.Current())
	}
	hold, ok := g.Hold()
	if !ok || hold != piece.S {
		t.Fatalf("Hold()=(%v,%v) want (S,true)", hold, ok)
	}
	if len(g.Preview()) != 2 {
		t.Fatalf("Preview() len=%d want 2", len(g.Preview()))
	}
	if g.Bag() != bag {
		t.Fatal("Bag() did not return the configured iterator")
	}
}

func TestSeededBagDeterministic(t *testing.T) {
	a := NewSeededBag(7)
	b := NewSeededBag(7)
	for i := 0; i < 50; i++ {
		ka, kb := a.Next(), b.Next()
		if ka != kb {
			t.Fatalf("bag outputs diverged at %d: %v != %v", i, ka, kb)
		}
	}
}

func TestSeededBagEmitsEverySevenKinds(t *testing.T) {
	b := NewSeededBag(1)
	seen := map[piece.Kind]bool{}
	for i := 0; i < piece.NumKinds; i++ {
		seen[b.Next()] = true
	}
	if len(seen) != piece.NumKinds {
		t.Fatalf("first 7 draws covered %d distinct kinds, want %d", len(seen), piece.NumKinds)
	}
}
