// Command tetrispc is the CLI entry point: solve, validate, fumen, and
// bench subcommands, grounded on the teacher's flag+env-driven
// cmd/chessplay-uci/main.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/config"
	"github.com/hailam/tetrispc/internal/contract"
	"github.com/hailam/tetrispc/internal/fumen"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/neural"
	"github.com/hailam/tetrispc/internal/piece"
	"github.com/hailam/tetrispc/internal/pipeline"
	"github.com/hailam/tetrispc/internal/search"
	"github.com/hailam/tetrispc/internal/storage"
)

// startCPUProfile starts CPU profiling to path, mirroring the teacher's
// cmd/chessplay-uci/main.go flag+env pattern. An empty path is a no-op.
// The caller must invoke the returned stop function before exiting.
func startCPUProfile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	log.Printf("CPU profiling enabled, writing to %s", path)
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}, nil
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "solve":
		err = runSolve(os.Args[2:])
	case "validate":
		err = runValidate(os.Args[2:])
	case "fumen":
		err = runFumen(os.Args[2:])
	case "bench":
		err = runBench(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "tetrispc:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tetrispc <solve|validate|fumen|bench> [flags]")
}

func loadNN(path string) (neural.Evaluator, error) {
	nn, err := neural.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading weights from %s: %w", path, err)
	}
	return nn, nil
}

// runSolve drives a bulk-solve run over every canonical sequence of a
// given length (spec §4.8-§4.10).
func runSolve(args []string) error {
	cfg := config.FromEnv()
	fs := flag.NewFlagSet("solve", flag.ExitOnError)
	cfg.RegisterFlags(fs)
	seqLen := fs.Int("length", 11, "sequence length to enumerate")
	unlocked := fs.Int("unlocked", 6, "number of unlocked (freely permuted) leading slots")
	if err := fs.Parse(args); err != nil {
		return err
	}

	stopProfile, err := startCPUProfile(cfg.CPUProfile)
	if err != nil {
		return err
	}
	defer stopProfile()

	nn, err := loadNN(cfg.WeightsPath)
	if err != nil {
		return err
	}

	c := pipeline.NewCoordinator(cfg.Threads, cfg.Height-2, *seqLen+20, nn, kicks.For(kicks.SRS), cfg.SavePath, "")
	c.TTSizeMB = cfg.TTSizeMB
	c.Height = cfg.Height

	st, err := storage.NewStorage()
	if err != nil {
		log.Printf("run history storage unavailable, continuing without it: %v", err)
	} else {
		defer st.Close()
		c.Storage = st
	}

	return c.Run(context.Background(), *seqLen, *unlocked)
}

// runValidate reads a .pc solution file and reports either the total
// solution count or the byte offset of the first malformed record
// (spec §7, SPEC_FULL.md §4).
func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	path := fs.String("path", "solutions.pc", "path to the .pc solution file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return err
	}

	count := 0
	for offset := 0; offset+pipeline.SolutionSize <= len(data); offset += pipeline.SolutionSize {
		if _, err := pipeline.UnpackSolution(data[offset : offset+pipeline.SolutionSize]); err != nil {
			fmt.Printf("malformed record %d at byte offset %d: %v\n", count, offset, err)
			return nil
		}
		count++
	}
	if len(data)%pipeline.SolutionSize != 0 {
		fmt.Printf("trailing %d bytes after record %d do not form a complete record\n", len(data)%pipeline.SolutionSize, count)
		return nil
	}
	fmt.Printf("%d valid solutions\n", count)
	return nil
}

// runFumen decodes a fumen string into a game state and solves it,
// printing the resulting placements.
func runFumen(args []string) error {
	fs := flag.NewFlagSet("fumen", flag.ExitOnError)
	weightsPath := fs.String("weights", config.DefaultWeightsPath, "path to the NN weight file")
	height := fs.Int("height", config.DefaultHeight, "minimum clear height")
	budget := fs.Int("budget", 20, "maximum placements in a solution")
	ttSizeMB := fs.Int("tt-size-mb", config.DefaultTTSizeMB, "transposition table size in MB")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("fumen: expected a fumen string argument")
	}

	game, err := fumen.Decode(fs.Arg(0), kicks.For(kicks.SRS))
	if err != nil {
		return err
	}
	nn, err := loadNN(*weightsPath)
	if err != nil {
		return err
	}

	placements, err := search.FindPC(game, nn, *height, *budget, *ttSizeMB, nil)
	if err != nil {
		return err
	}
	for i, pl := range placements {
		fmt.Printf("%d: %s facing=%d x=%d y=%d\n", i, pl.Piece.Kind(), pl.Piece.Facing(), pl.X, pl.Y)
	}
	return nil
}

// runBench runs search.FindPC against spec.md §8 scenario 1 (empty
// board, 4-line PC, bag seed 0, save_hold=S), reports nodes/sec, and
// asserts the scenario's documented outcome: exactly 10 placements that
// empty the board and leave S held.
func runBench(args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	weightsPath := fs.String("weights", config.DefaultWeightsPath, "path to the NN weight file")
	ttSizeMB := fs.Int("tt-size-mb", search.DefaultTTSizeMB, "transposition table size in MB")
	cpuprofile := fs.String("cpuprofile", "", "write cpu profile to file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	stopProfile, err := startCPUProfile(profilePath)
	if err != nil {
		return err
	}
	defer stopProfile()

	nn, err := loadNN(*weightsPath)
	if err != nil {
		return err
	}

	current := piece.L
	preview := []piece.Kind{piece.J, piece.S, piece.Z, piece.T, piece.O, piece.I}
	bag := contract.NewSeededBag(0)
	game := contract.NewGame(0, current, 0, false, preview, bag, kicks.For(kicks.SRS))

	saveHold := piece.S
	start := time.Now()
	placements, nodes, err := search.FindPCWithStats(game, nn, 4, 10, *ttSizeMB, &saveHold)
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	rate := float64(nodes) / elapsed.Seconds()
	fmt.Printf("placements=%d nodes=%d elapsed=%s nodes/sec=%.0f\n", len(placements), nodes, elapsed, rate)

	if len(placements) != 10 {
		return fmt.Errorf("bench: scenario 1 expected 10 placements, got %d", len(placements))
	}
	final, err := search.Replay(0, placements)
	if err != nil {
		return fmt.Errorf("bench: scenario 1 replay failed: %w", err)
	}
	if final != board.Mask(0) {
		return fmt.Errorf("bench: scenario 1 expected an empty playfield after replay, got %v", final)
	}
	// The search drew every piece past the preview from the seed-0 bag;
	// replay the same draws here.
	queue := append([]piece.Kind{}, preview...)
	drawn := contract.NewSeededBag(0)
	for len(queue) < 2*len(placements) {
		queue = append(queue, drawn.Next())
	}
	if hold, ok := finalHold(current, queue, placements); !ok || hold != piece.S {
		return fmt.Errorf("bench: scenario 1 expected final hold S, got %v (set=%v)", hold, ok)
	}
	fmt.Println("scenario 1: OK")
	return nil
}

// finalHold replays placements against the (empty hold, current,
// preview) starting state and returns which piece kind ends up held,
// mirroring the bookkeeping search.searcher.run performs internally.
func finalHold(current piece.Kind, preview []piece.Kind, placements []board.Placement) (piece.Kind, bool) {
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
