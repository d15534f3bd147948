package pipeline

import (
	"testing"

	"github.com/hailam/tetrispc/internal/sequence"
)

func TestSequenceBufferNextAndCompleteChunk(t *testing.T) {
	iter := sequence.New(4, 2)
	sb := NewSequenceBuffer(1, iter)

	slot, seqs, ok := sb.NextChunk()
	if !ok {
		t.Fatal("expected a first chunk from a fresh iterator")
	}
	if len(seqs) == 0 {
		t.Fatal("expected at least one sequence in the first chunk")
	}

	sb.CompleteChunk(slot, []Solution{{HoldBits: 0}})

	var emitted int
	advanced, err := sb.WriteDoneChunks(func(Solution) error {
		emitted++
		return nil
	})
	if err != nil {
		t.Fatalf("WriteDoneChunks failed: %v", err)
	}
	if advanced != 1 {
		t.Errorf("advanced=%d want 1", advanced)
	}
	if emitted != 1 {
		t.Errorf("emitted=%d want 1", emitted)
	}
}

func TestSequenceBufferWriteDoneChunksStopsAtUnsolvedSlot(t *testing.T) {
	iter := sequence.New(4, 2)
	sb := NewSequenceBuffer(1, iter)

	if _, _, ok := sb.NextChunk(); !ok {
		t.Fatal("expected a chunk")
	}
	// Never call CompleteChunk: the slot stays at length -1.

	advanced, err := sb.WriteDoneChunks(func(Solution) error { return nil })
	if err != nil {
		t.Fatalf("WriteDoneChunks failed: %v", err)
	}
	if advanced != 0 {
		t.Errorf("advanced=%d want 0 for an unsolved slot", advanced)
	}
}

func TestSequenceBufferExhaustsIterator(t *testing.T) {
	iter := sequence.New(2, 0) // small, finite enumeration
	sb := NewSequenceBuffer(1, iter)

	total := 0
	for {
		slot, seqs, ok := sb.NextChunk()
		if !ok {
			break
		}
		total += len(seqs)
		sb.CompleteChunk(slot, nil)
		if _, err := sb.WriteDoneChunks(func(Solution) error { return nil }); err != nil {
			t.Fatalf("WriteDoneChunks failed: %v", err)
		}
		if total > 100000 {
			t.Fatal("iterator did not exhaust within a sane bound")
		}
	}
	if total == 0 {
		t.Fatal("expected at least one sequence before exhaustion")
	}
}
