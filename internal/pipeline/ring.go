package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/hailam/tetrispc/internal/piece"
	"github.com/hailam/tetrispc/internal/sequence"
)

// ChunkSize is the number of sequences bundled into one ring slot.
const ChunkSize = 64

// chunkSlot holds one bundle of sequences and, once a worker has
// solved them, the parallel solution array. length is -1 until a
// worker publishes a result for this slot.
type chunkSlot struct {
	length    int32
	n         int
	sequences [ChunkSize][]piece.Kind
	solutions [ChunkSize]Solution
}

// SequenceBuffer is the bounded two-lock ring of spec §4.9: CHUNKS =
// 8*workers slots, indexed modulo 2*CHUNKS so full and empty are
// distinguishable. writeIdx/readIdx are atomics so the write-side and
// read-side locks never need to nest; the locks exist only to guard
// each side's sync.Cond.
type SequenceBuffer struct {
	iter *sequence.Iterator

	chunks int
	slots  []chunkSlot

	writeIdx atomic.Uint64
	readIdx  atomic.Uint64

	writeMu   sync.Mutex
	writeCond *sync.Cond

	readMu   sync.Mutex
	readCond *sync.Cond
}

// NewSequenceBuffer allocates a ring sized for workers worker goroutines
// pulling sequences produced by iter.
func NewSequenceBuffer(workers int, iter *sequence.Iterator) *SequenceBuffer {
	chunks := 8 * workers
	if chunks < 1 {
		chunks = 1
	}
	sb := &SequenceBuffer{
		iter:   iter,
		chunks: chunks,
		slots:  make([]chunkSlot, 2*chunks),
	}
	sb.writeCond = sync.NewCond(&sb.writeMu)
	sb.readCond = sync.NewCond(&sb.readMu)
	for i := range sb.slots {
		sb.slots[i].length = -1
	}
	return sb
}

// NextChunk pulls the next bundle of sequences for a worker to solve
// (next_chunk, §4.9). It blocks while the ring is full, and returns
// ok=false once the underlying iterator is exhausted.
func (sb *SequenceBuffer) NextChunk() (slot int, sequences [][]piece.Kind, ok bool) {
	sb.writeMu.Lock()
	defer sb.writeMu.Unlock()

	for sb.writeIdx.Load()-sb.readIdx.Load() >= uint64(sb.chunks) {
		sb.writeCond.Wait()
	}

	idx := int(sb.writeIdx.Load() % uint64(2*sb.chunks))
	s := &sb.slots[idx]
	atomic.StoreInt32(&s.length, -1)

	n := 0
	for n < ChunkSize {
		seq, more := sb.iter.Next()
		if !more {
			break
		}
		s.sequences[n] = seq
		n++
	}
	s.n = n
	if n == 0 {
		return 0, nil, false
	}

	sb.writeIdx.Add(1)
	return idx, s.sequences[:n], true
}

// CompleteChunk publishes a worker's solved results for slot (the
// consumer-completion step of §4.9): solutions holds one entry per
// solved sequence in the chunk, in iterator order; unsolved sequences
// in the chunk are simply absent.
func (sb *SequenceBuffer) CompleteChunk(slot int, solutions []Solution) {
	s := &sb.slots[slot]
	copy(s.solutions[:], solutions)
	atomic.StoreInt32(&s.length, int32(len(solutions)))

	sb.readMu.Lock()
	sb.readCond.Signal()
	sb.readMu.Unlock()
}

// WriteDoneChunks drains every contiguous solved chunk at the head of
// the ring, calling emit once per solved solution in sequence order,
// until it reaches an unsolved (length < 0) slot or catches up to the
// write side. It returns how many chunks were drained.
func (sb *SequenceBuffer) WriteDoneChunks(emit func(Solution) error) (advanced int, err error) {
	sb.readMu.Lock()
	defer sb.readMu.Unlock()

	for sb.readIdx.Load() != sb.writeIdx.Load() {
		idx := int(sb.readIdx.Load() % uint64(2*sb.chunks))
		s := &sb.slots[idx]
		length := atomic.LoadInt32(&s.length)
		if length < 0 {
			break
		}
		for i := 0; i < int(length); i++ {
			if err := emit(s.solutions[i]); err != nil {
				return advanced, err
			}
		}
		sb.readIdx.Add(1)
		advanced++

		sb.writeMu.Lock()
		sb.writeCond.Signal()
		sb.writeMu.Unlock()
	}
	return advanced, nil
}

// WaitForDone blocks until CompleteChunk signals progress, or returns
// immediately if the ring is already empty. Used by the flusher
// goroutine between WriteDoneChunks polls.
func (sb *SequenceBuffer) WaitForDone() {
	sb.readMu.Lock()
	defer sb.readMu.Unlock()
	if sb.readIdx.Load() == sb.writeIdx.Load() {
		return
	}
	sb.readCond.Wait()
}
