package search

import "github.com/hailam/tetrispc/internal/board"

// Candidate is one scored placement waiting in a depth's queue.
type Candidate struct {
	Placement board.Placement
	Score     float32
}

// PriorityQueue is a slice kept sorted by descending score through
// insertion, over (placement, score), one per search depth. Ties break by
// insertion order. Grounded on the teacher's PickMove/SortMoves
// selection style rather than container/heap: candidate counts per
// depth are small (bounded by the move generator's per-piece output),
// the same scale argument the teacher makes for its own O(n^2) picker.
type PriorityQueue struct {
	items []Candidate
}

// Reset empties the queue for reuse across search depths/retries
// without reallocating its backing array.
func (q *PriorityQueue) Reset() {
	q.items = q.items[:0]
}

// Push inserts c, keeping items sorted by descending score with ties
// broken by insertion order (stable, since insertion shifts only
// strictly-lower-scored tail entries).
func (q *PriorityQueue) Push(c Candidate) {
	i := len(q.items)
	q.items = append(q.items, c)
	for i > 0 && q.items[i-1].Score < c.Score {
		q.items[i] = q.items[i-1]
		i--
	}
	q.items[i] = c
}

// Len reports the number of queued candidates.
func (q *PriorityQueue) Len() int { return len(q.items) }

// At returns the i'th candidate in descending-score order.
func (q *PriorityQueue) At(i int) Candidate { return q.items[i] }
