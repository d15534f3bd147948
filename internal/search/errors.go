package search

import "errors"

// The three categorical search failures (spec §7): no other error
// reaches the caller except allocation failures, which propagate
// unchanged per §7's "fatal" note.
var (
	// ErrNoPcExists reports a structural failure: odd empty-cell count,
	// or every depth exhausted without finding an empty board.
	ErrNoPcExists = errors.New("search: no perfect clear exists for this board")
	// ErrSolutionTooLong reports that the placement budget was exhausted
	// before a solution could be found within max_height <= 6.
	ErrSolutionTooLong = errors.New("search: solution exceeds placement budget")
	// ErrImpossibleSaveHold reports that the requested save_hold kind
	// appears nowhere in the available pieces.
	ErrImpossibleSaveHold = errors.New("search: requested save_hold piece is unavailable")
)
