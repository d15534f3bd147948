package feature

import (
	"math"
	"testing"

	"github.com/hailam/tetrispc/internal/board"
)

// fixtureBoard builds the scenario-4 board from spec.md §8: filled cells
// at (row, columns) (5,2), (4,5), (3,{0,4,6,9}), (2,{0,9}), (1,{0,6}),
// (0,{0..9}).
func fixtureBoard() board.Mask {
	set := func(b board.Mask, y int, cols ...int) board.Mask {
		for _, c := range cols {
			b |= 1 << uint(y*board.Width+c)
		}
		return b
	}
	var b board.Mask
	b = set(b, 5, 2)
	b = set(b, 4, 5)
	b = set(b, 3, 0, 4, 6, 9)
	b = set(b, 2, 0, 9)
	b = set(b, 1, 0, 6)
	b = set(b, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	return b
}

func TestExtractFixtureBoard(t *testing.T) {
	b := fixtureBoard()
	heights := b.Heights()
	got := Extract(b, heights, 6, AllFeatures)

	want := [9]float32{11.7046995, 10, 47, 14, 22, 6, 40, 4, 2}
	const eps = 1e-3
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > eps {
			t.Errorf("feature[%d] = %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestExtractMaskSkipsUnrequestedFeatures(t *testing.T) {
	b := fixtureBoard()
	heights := b.Heights()
	got := Extract(b, heights, 6, FeatMaxHeight)
	for i, v := range got {
		if i == 5 {
			continue
		}
		if v != 0 {
			t.Fatalf("feature[%d] = %v, want 0 when not requested", i, v)
		}
	}
	if got[5] == 0 {
		t.Fatal("expected max height feature to be computed")
	}
}
