package search

import (
	"unsafe"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/contract"
	"github.com/hailam/tetrispc/internal/feature"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/movegen"
	"github.com/hailam/tetrispc/internal/neural"
	"github.com/hailam/tetrispc/internal/piece"
)

// retryStep is the pieces_needed increment between iterative-deepening
// attempts (spec §4.7 step 4: "pieces_needed, pieces_needed+5, ...").
const retryStep = 5

// DefaultTTSizeMB is the transposition table size callers fall back to
// when they have no configured preference, mirroring
// internal/config.DefaultTTSizeMB.
const DefaultTTSizeMB = 64

// ttCapacity converts a table size in megabytes to a slot-count hint for
// NewTranspositionTable, which rounds up to the next power of two.
func ttCapacity(mb int) int {
	if mb <= 0 {
		mb = 1
	}
	entrySize := int(unsafe.Sizeof(entry{}))
	if entrySize == 0 {
		entrySize = 1
	}
	n := mb * 1024 * 1024 / entrySize
	if n < 1 {
		n = 1
	}
	return n
}

// FindPC is the top-level PC search entry (spec §4.7). budget caps how
// many placements a solution may use; exceeding it without success
// surfaces ErrSolutionTooLong. ttSizeMB sizes the transposition table,
// which is allocated once and cleared before each iterative-deepening
// attempt.
func FindPC(game contract.GameState, nn neural.Evaluator, minHeight int, budget int, ttSizeMB int, saveHold *piece.Kind) ([]board.Placement, error) {
	placements, _, err := FindPCWithStats(game, nn, minHeight, budget, ttSizeMB, saveHold)
	return placements, err
}

// FindPCWithStats is FindPC plus the total recursive-call count across
// every iterative-deepening attempt, for operator tooling (bench)
// that wants a nodes/sec figure; grounded on the teacher's per-search
// Nodes() counter in internal/engine/search.go.
func FindPCWithStats(game contract.GameState, nn neural.Evaluator, minHeight int, budget int, ttSizeMB int, saveHold *piece.Kind) ([]board.Placement, uint64, error) {
	var totalNodes uint64
	capacity := ttCapacity(ttSizeMB)
	b := game.Board()
	fieldHeight := 0
	for _, h := range b.Heights() {
		fieldHeight = max(fieldHeight, int(h))
	}
	empty := b.EmptyCells(fieldHeight)
	if empty%2 != 0 {
		return nil, totalNodes, ErrNoPcExists
	}

	piecesNeeded := (empty + 3) / 4
	if empty%4 == 2 {
		piecesNeeded += 10 / 4
	}
	if piecesNeeded < 5 {
		piecesNeeded = 5
	}

	filled := fieldHeight*board.Width - empty

	preview := game.Preview()
	bag := game.Bag()
	holdKind, holdSet := game.Hold()
	kick := game.Kicks()
	tt := NewTranspositionTable(capacity)

	for tryPieces := piecesNeeded; ; tryPieces += retryStep {
		if tryPieces > budget {
			return nil, totalNodes, ErrSolutionTooLong
		}
		maxHeight := (filled + tryPieces*4 + board.Width - 1) / board.Width
		if maxHeight < minHeight {
			continue
		}
		if maxHeight > board.Height {
			return nil, totalNodes, ErrNoPcExists
		}

		// Every depth can consume either one piece (place current, hold
		// untouched or already occupied) or two (hold was empty, so the
		// queue's next piece is drawn and placed in the same turn): size
		// the lookahead for the worst case of two per depth.
		lookahead := 2*tryPieces + 1
		pieces := make([]piece.Kind, lookahead)
		pieces[0] = game.Current()
		for i := 1; i < lookahead; i++ {
			if i-1 < len(preview) {
				pieces[i] = preview[i-1]
			} else {
				pieces[i] = bag.Next()
			}
		}

		if saveHold != nil {
			found := holdSet && holdKind == *saveHold
			for _, k := range pieces[:tryPieces+1] {
				if k == *saveHold {
					found = true
					break
				}
			}
			if !found {
				return nil, totalNodes, ErrImpossibleSaveHold
			}
		}

		tt.Clear()
		st := &searcher{
			nn:       nn,
			kick:     kick,
			tt:       tt,
			queues:   make([]PriorityQueue, tryPieces),
			saveHold: saveHold,
			out:      make([]board.Placement, tryPieces),
		}

		saveAchieved := saveHold == nil
		found := st.run(b, pieces, holdKind, holdSet, saveAchieved, 0, maxHeight)
		totalNodes += st.nodes
		if found {
			return st.out, totalNodes, nil
		}
	}
}

// searcher carries the state shared across every recursive call of a
// single iterative-deepening attempt.
type searcher struct {
	nn       neural.Evaluator
	kick     kicks.Fn
	tt       *TranspositionTable
	queues   []PriorityQueue
	saveHold *piece.Kind
	out      []board.Placement
	nodes    uint64
}

// run implements find_pc_inner (spec §4.7) for s.out[depth], depth
// counting placements already made from 0.
func (s *searcher) run(b board.Mask, pieces []piece.Kind, holdKind piece.Kind, holdSet bool, saveAchieved bool, depth, maxHeight int) bool {
	s.nodes++
	if depth == len(s.out) {
		return b == 0 && (s.saveHold == nil || (holdSet && holdKind == *s.saveHold))
	}

	key := Node{Board: uint64(b) & lowBoardMask, Hold: holdKind, HoldSet: holdSet}
	if s.tt.Contains(key) {
		return false
	}

	current := pieces[0]
	forcedSwap := false
	if !saveAchieved && s.saveHold != nil && current == *s.saveHold && !(holdSet && holdKind == *s.saveHold) {
		if holdSet {
			current, holdKind = holdKind, current
		} else {
			// An empty hold takes the saved piece and the queue's next
			// piece is drawn to play instead.
			if len(pieces) < 2 {
				return false
			}
			holdKind, holdSet = current, true
			pieces = pieces[1:]
			current = pieces[0]
		}
		forcedSwap = true
		saveAchieved = true
	}

	q := &s.queues[depth]
	q.Reset()

	// O rotations are always disabled: movegen already seeds every
	// facing directly, so exploring O's rotation moves would only
	// duplicate states the seed step already reaches.
	s.collectCandidates(q, b, current, maxHeight, false)

	// The alternate candidate source is whichever piece a hold-press
	// would bring into play: the held piece itself if one is held, or
	// the queue's next piece (drawn immediately) if hold is empty.
	// Once the saved piece sits in hold it stays there.
	holdAllowed := !forcedSwap && !(s.saveHold != nil && holdSet && holdKind == *s.saveHold)
	altIsNextInQueue := false
	if holdAllowed {
		if holdSet {
			if holdKind != current {
				s.collectCandidates(q, b, holdKind, maxHeight, false)
			}
		} else if len(pieces) > 1 && pieces[1] != current {
			s.collectCandidates(q, b, pieces[1], maxHeight, false)
			altIsNextInQueue = true
		}
	}

	for i := 0; i < q.Len(); i++ {
		c := q.At(i)
		placedKind := c.Placement.Piece.Kind()

		nextPieces := pieces[1:]
		nextHold := holdKind
		nextHoldSet := holdSet
		if placedKind != current {
			// the candidate came from the hold slot: the current piece
			// takes its place there.
			nextHold = current
			nextHoldSet = true
			if altIsNextInQueue {
				// hold was empty, so pieces[1] was drawn and placed in
				// the same turn; both it and current are consumed.
				nextPieces = pieces[2:]
			}
		}

		pm := board.MaskOf(c.Placement.Piece)
		nb := b.Place(pm, c.Placement.X, c.Placement.Y)
		nb, cleared := nb.ClearLines(int(c.Placement.Y))

		if s.run(nb, nextPieces, nextHold, nextHoldSet, saveAchieved, depth+1, maxHeight-cleared) {
			s.out[depth] = c.Placement
			return true
		}
	}

	s.tt.Insert(key)
	return false
}

// collectCandidates generates all_placements for kind, prunes
// infeasible results, scores the rest, and pushes them into q
// (order_moves, spec §4.7).
func (s *searcher) collectCandidates(q *PriorityQueue, b board.Mask, kind piece.Kind, maxHeight int, doORotations bool) {
	positions := movegen.AllPlacements(b, doORotations, s.kick, kind, maxHeight)
	positions.Each(kind, func(pl board.Placement) {
		pm := board.MaskOf(pl.Piece)
		nb := b.Place(pm, pl.X, pl.Y)
		nb, _ = nb.ClearLines(int(pl.Y))

		empties := nb.EmptyCells(maxHeight)
		if empties%4 != 0 || !board.IsPCPossible(nb, maxHeight) {
			return
		}

		heights := nb.Heights()
		feats := feature.Extract(nb, heights, maxHeight, feature.AllFeatures)
		score := s.nn.Predict(feats)
		q.Push(Candidate{Placement: pl, Score: score})
	})
}

// lowBoardMask isolates the low 60 bits the TT key relies on (spec §9).
const lowBoardMask = (uint64(1) << 60) - 1
