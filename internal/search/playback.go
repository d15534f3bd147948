package search

import (
	"fmt"

	"github.com/hailam/tetrispc/internal/board"
)

// Replay plays placements against the starting board state, as the
// testable property in spec.md §8 requires: the result must be an
// empty playfield, and no placement may collide with what came before
// it. It is a verification helper, not used on the find_pc hot path.
func Replay(start board.Mask, placements []board.Placement) (board.Mask, error) {
	b := start
	for i, pl := range placements {
		pm := board.MaskOf(pl.Piece)
		if b.Collides(pm, pl.Piece, pl.X, pl.Y) {
			return b, fmt.Errorf("search: placement %d collides with the board", i)
		}
		b = b.Place(pm, pl.X, pl.Y)
		b, _ = b.ClearLines(int(pl.Y))
	}
	return b, nil
}
