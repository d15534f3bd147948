// Package pipeline wires the sequence iterator, the PC searcher, and
// durable storage into the bulk-solve run described in spec §4.8-§4.10:
// a bounded ring of chunks feeds a worker pool, and a single flusher
// goroutine serializes solved records to disk in iterator order.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/contract"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/logging"
	"github.com/hailam/tetrispc/internal/neural"
	"github.com/hailam/tetrispc/internal/piece"
	"github.com/hailam/tetrispc/internal/search"
	"github.com/hailam/tetrispc/internal/sequence"
	"github.com/hailam/tetrispc/internal/storage"
)

// Coordinator supervises the worker pool and the flusher goroutine for
// one bulk-solve run: N workers pull chunks of candidate sequences,
// call search.FindPC on each, and publish results back through a
// SequenceBuffer; the flusher drains solved chunks to SavePath in
// iterator order and keeps CountPath's consumed-sequence count durable
// for resume (spec §4.10).
type Coordinator struct {
	Workers   int
	MinHeight int
	Budget    int
	NN        neural.Evaluator
	Kick      kicks.Fn
	SavePath  string
	CountPath string

	// TTSizeMB sizes the transposition table each search attempt
	// allocates (internal/config.Config.TTSizeMB).
	TTSizeMB int

	// Height is the playfield height this run is configured for,
	// recorded in Storage's run history; distinct from MinHeight,
	// which the searcher clamps its own attempts to.
	Height int

	// Storage is an optional side store for run history and resume
	// progress (spec §4.10's byte-exact .pc/.count files remain the
	// only authoritative resume state). Nil disables recording.
	Storage *storage.Storage

	log *log.Logger

	consumed  atomic.Uint64
	attempted atomic.Uint64
	solved    atomic.Uint64

	histMu sync.Mutex
	hist   map[int]int
}

// NewCoordinator builds a Coordinator. countPath defaults to
// savePath+".count" when empty.
func NewCoordinator(workers, minHeight, budget int, nn neural.Evaluator, kick kicks.Fn, savePath, countPath string) *Coordinator {
	if countPath == "" {
		countPath = savePath + ".count"
	}
	return &Coordinator{
		Workers:   workers,
		MinHeight: minHeight,
		Budget:    budget,
		NN:        nn,
		Kick:      kick,
		SavePath:  savePath,
		CountPath: countPath,
		TTSizeMB:  search.DefaultTTSizeMB,
		Height:    minHeight + 2,
		hist:      make(map[int]int),
		log:       logging.For("pipeline"),
	}
}

// Run drives the full producer/worker/flusher pipeline over every
// canonical sequence of length seqLen with unlocked free slots (spec
// §4.8), resuming past whatever CountPath already records.
func (c *Coordinator) Run(ctx context.Context, seqLen, unlocked int) error {
	startedAt := time.Now()
	iter := sequence.New(seqLen, unlocked)

	resumed, err := c.readCount()
	if err != nil {
		return fmt.Errorf("pipeline: reading resume count: %w", err)
	}
	for i := uint64(0); i < resumed; i++ {
		if _, ok := iter.Next(); !ok {
			break
		}
	}
	c.consumed.Store(resumed)
	if resumed > 0 {
		c.log.Printf("resuming after %d consumed sequences", resumed)
	}

	sb := NewSequenceBuffer(c.Workers, iter)

	runCtx, cancel := context.WithCancel(ctx)
	stopSignals := c.installSignalHandler(cancel)
	defer stopSignals()
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	for w := 0; w < c.Workers; w++ {
		g.Go(func() error { return c.worker(gctx, sb) })
	}
	g.Go(func() error { return c.flusher(runCtx, sb) })

	runErr := g.Wait()

	if c.Storage != nil {
		c.histMu.Lock()
		hist := make(map[int]int, len(c.hist))
		for k, v := range c.hist {
			hist[k] = v
		}
		c.histMu.Unlock()

		run := storage.RunRecord{
			StartedAt:  startedAt,
			Height:     c.Height,
			Workers:    c.Workers,
			SavePath:   c.SavePath,
			Attempted:  c.attempted.Load(),
			Solved:     c.solved.Load(),
			Placements: hist,
			WallTime:   time.Since(startedAt),
		}
		if err := c.Storage.SaveRun(run); err != nil {
			c.log.Printf("recording run history failed: %v", err)
		}
	}

	return runErr
}

// installSignalHandler wires SIGINT/SIGTERM/SIGQUIT/SIGABRT to the
// graceful-shutdown path (spec §4.10: "on SIGABRT/SIGINT/SIGQUIT/
// SIGTERM, finish the in-flight save, then exit"). It returns a stop
// function to release the signal channel.
func (c *Coordinator) installSignalHandler(cancel context.CancelFunc) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGABRT)
	go func() {
		sig, ok := <-sigCh
		if !ok {
			return
		}
		c.log.Printf("received %s, finishing in-flight save before exit", sig)
		cancel()
	}()
	return func() { signal.Stop(sigCh); close(sigCh) }
}

// worker repeatedly pulls a chunk, solves every sequence in it, and
// publishes the results, until the context is cancelled or the
// producer is exhausted.
func (c *Coordinator) worker(ctx context.Context, sb *SequenceBuffer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		slot, seqs, ok := sb.NextChunk()
		if !ok {
			return nil
		}

		solutions := make([]Solution, 0, len(seqs))
		for _, seq := range seqs {
			c.attempted.Add(1)
			sol, n, solved := c.solveOne(seq)
			if !solved {
				continue
			}
			c.solved.Add(1)
			c.histMu.Lock()
			c.hist[n]++
			c.histMu.Unlock()
			solutions = append(solutions, sol)
		}
		sb.CompleteChunk(slot, solutions)
	}
}

// solveOne runs the PC searcher over one canonical sequence, starting
// from an empty board with an empty hold, and folds the returned
// placements back into a codec-ready Solution. It also reports the
// number of placements the search actually used, for run-history
// bookkeeping.
func (c *Coordinator) solveOne(seq []piece.Kind) (Solution, int, bool) {
	if len(seq) == 0 {
		return Solution{}, 0, false
	}
	current := seq[0]
	preview := seq[1:]

	bag := contract.NewSeededBag(xxhashSeed(seq))
	game := contract.NewGame(board.Mask(0), current, 0, false, preview, bag, c.Kick)

	placements, err := search.FindPC(game, c.NN, c.MinHeight, c.Budget, c.TTSizeMB, nil)
	if err != nil {
		return Solution{}, 0, false
	}

	sol := deriveSolution(0, false, current, preview, placements)
	return sol, len(placements), true
}

// deriveSolution replays placements against the known (hold, current,
// preview) starting state to recover which step used the held piece,
// mirroring the bookkeeping in search.searcher.run. It assumes
// placements came from exactly this starting state, which solveOne
// guarantees.
func deriveSolution(initialHold piece.Kind, holdValid bool, current piece.Kind, preview []piece.Kind, placements []board.Placement) Solution {
	var sol Solution
	sol.Hold = initialHold
	sol.HoldValid = holdValid
	sol.Current = current
	sol.Preview = append([]piece.Kind(nil), preview...)

	hold, holdSet := initialHold, holdValid
	cur := current
	pIdx := 0
	pop := func() piece.Kind {
		if pIdx < len(preview) {
			k := preview[pIdx]
			pIdx++
			return k
		}
		return 0
	}

	for i, pl := range placements {
		if i >= len(sol.Placements) {
			break
		}
		idx := piece.CanonicalIndex(pl.Piece, pl.X, pl.Y)
		sol.Placements[i] = PlacementCode{Facing: pl.Piece.Facing(), CanonicalIndex: idx}

		kind := pl.Piece.Kind()
		if kind == cur {
			cur = pop()
			continue
		}

		sol.HoldBits |= 1 << uint(i)
		if holdSet {
			hold, cur = cur, pop()
		} else {
			hold, holdSet = cur, true
			pop() // the queue head was the piece just placed
			cur = pop()
		}
	}
	return sol
}

// flusher drains solved chunks in order, appends each packed Solution
// to SavePath, and periodically rewrites CountPath and triggers a
// backup (spec §4.9/§4.10). It stops once the context is cancelled and
// the ring has been fully drained.
func (c *Coordinator) flusher(ctx context.Context, sb *SequenceBuffer) error {
	f, err := os.OpenFile(c.SavePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("pipeline: opening save file: %w", err)
	}
	defer f.Close()

	interval := BackupInterval(c.Workers)
	lastBackup := c.consumed.Load()

	emit := func(sol Solution) error {
		data, err := PackSolution(sol)
		if err != nil {
			return err
		}
		if _, err := f.Write(data); err != nil {
			return err
		}
		return nil
	}

	for {
		advanced, err := sb.WriteDoneChunks(emit)
		if err != nil {
			return fmt.Errorf("pipeline: flushing solved chunk: %w", err)
		}
		if advanced > 0 {
			total := c.consumed.Add(uint64(advanced) * ChunkSize)
			if err := c.writeCount(total); err != nil {
				return fmt.Errorf("pipeline: writing resume count: %w", err)
			}
			c.log.Printf("consumed %s sequences", humanize.Comma(int64(total)))
			if total-lastBackup >= interval {
				if err := BackupPair(c.SavePath, c.CountPath); err != nil {
					c.log.Printf("backup failed: %v", err)
				} else if info, statErr := os.Stat(c.SavePath + ".bak.gz"); statErr == nil {
					c.log.Printf("backed up %s (%s)", c.SavePath, humanize.Bytes(uint64(info.Size())))
				}
				if c.Storage != nil {
					if err := c.Storage.RecordProgress(c.Height, c.SavePath, total); err != nil {
						c.log.Printf("recording resume progress failed: %v", err)
					}
				}
				lastBackup = total
			}
			continue
		}

		select {
		case <-ctx.Done():
			// Drain whatever finished between the last check and now,
			// then exit: this is the "finish the in-flight save" half
			// of the shutdown protocol.
			if _, err := sb.WriteDoneChunks(emit); err != nil {
				return err
			}
			return nil
		default:
		}
		sb.WaitForDone()
	}
}

// readCount loads the last durable consumed-sequence count, returning 0
// if CountPath does not yet exist.
func (c *Coordinator) readCount() (uint64, error) {
	data, err := os.ReadFile(c.CountPath)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

// writeCount atomically rewrites CountPath via temp-file-plus-rename,
// so a crash mid-write never corrupts the resume point (spec §4.10).
func (c *Coordinator) writeCount(n uint64) error {
	tmp := c.CountPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.FormatUint(n, 10)), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.CountPath)
}

// xxhashSeed derives a deterministic bag seed from a sequence so two
// runs over the same canonical sequence continue the bag identically,
// reusing the same xxhash the sequence iterator dedups with.
func xxhashSeed(seq []piece.Kind) uint64 {
	raw := make([]byte, len(seq))
	for i, k := range seq {
		raw[i] = byte(k)
	}
	return xxhash.Sum64(raw)
}
