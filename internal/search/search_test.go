package search

import (
	"testing"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/contract"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/neural"
	"github.com/hailam/tetrispc/internal/piece"
)

func TestFindPCRejectsOddEmptyCount(t *testing.T) {
	// A single filled cell leaves an odd number of empty cells, which
	// can never be partitioned into whole tetrominoes.
	b := board.Mask(1)

	game := contract.NewGame(b, piece.I, piece.O, false, nil, contract.NewSeededBag(1), kicks.For(kicks.SRS))
	_, err := FindPC(game, neural.NewNetwork(), 4, 20, DefaultTTSizeMB, nil)
	if err != ErrNoPcExists {
		t.Fatalf("err=%v want ErrNoPcExists", err)
	}
}

// An empty board needs far more placements than this tiny budget
// allows, so the very first iterative-deepening attempt already
// exceeds it.
func TestFindPCRejectsBudgetTooSmall(t *testing.T) {
	var b board.Mask
	game := contract.NewGame(b, piece.I, piece.O, false, []piece.Kind{piece.T, piece.L}, contract.NewSeededBag(1), kicks.For(kicks.SRS))

	missing := piece.S
	_, err := FindPC(game, neural.NewNetwork(), 4, 3, DefaultTTSizeMB, &missing)
	if err != ErrSolutionTooLong {
		t.Fatalf("err=%v want ErrSolutionTooLong", err)
	}
}

// TestFindPCScenario1EmptyBoardSeedZero exercises spec.md §8 scenario 1:
// an empty board, a first bag [L, J, S, Z, T, O, I] given as current
// plus preview with a seed-0 bag supplying the pieces after it, saving
// S through hold. A correct search finds exactly 10 placements that
// empty the board and end with S held.
func TestFindPCScenario1EmptyBoardSeedZero(t *testing.T) {
	preview := []piece.Kind{piece.J, piece.S, piece.Z, piece.T, piece.O, piece.I}
	bag := contract.NewSeededBag(0)
	game := contract.NewGame(0, piece.L, 0, false, preview, bag, kicks.For(kicks.SRS))

	saveHold := piece.S
	placements, err := FindPC(game, neural.NewNetwork(), 4, 10, DefaultTTSizeMB, &saveHold)
	if err != nil {
		t.Fatalf("FindPC failed: %v", err)
	}
	if len(placements) != 10 {
		t.Fatalf("len(placements)=%d want 10", len(placements))
	}

	final, err := Replay(0, placements)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if final != 0 {
		t.Fatalf("expected an empty playfield after replay, got %v", final)
	}

	// The search drew every piece past the preview from the seed-0 bag;
	// replay the same draws here.
	queue := append([]piece.Kind{}, preview...)
	drawn := contract.NewSeededBag(0)
	for len(queue) < 2*len(placements) {
		queue = append(queue, drawn.Next())
	}
	if hold, ok := finalHoldForTest(piece.L, queue, placements); !ok || hold != piece.S {
		t.Fatalf("final hold = %v (set=%v), want S", hold, ok)
	}
}

// finalHoldForTest replays placements against the (empty hold, current,
// preview) starting state and returns which piece kind ends up held,
// mirroring the bookkeeping searcher.run performs during the search
// itself.
func finalHoldForTest(current piece.Kind, preview []piece.Kind, placements []board.Placement) (piece.Kind, bool) {
	var hold piece.Kind
	var holdSet bool
	pIdx := 0
	pop := func() piece.Kind {
		if pIdx < len(preview) {
			k := preview[pIdx]
			pIdx++
			return k
		}
		return 0
	}
	for _, pl := range placements {
		kind := pl.Piece.Kind()
		if kind == current {
			current = pop()
			continue
		}
		if holdSet {
			hold, current = current, pop()
		} else {
			hold, holdSet = current, true
			pop()
			current = pop()
		}
	}
	return hold, holdSet
}
