package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"turtlebot/pkg/board"
	"turtlebot/pkg/engine"
)

var (
	profileFlag = flag.String("profile", "", "write a profile: cpu or mem")
	profileDir  = flag.String("profile-dir", ".", "directory for profile output")
	evalsFlag   = flag.Int("evals", 1_000_000, "static evaluations to time")
	depthFlag   = flag.Int("depth", 0, "fixed search depth, 0 uses the adaptive depth")
	verboseFlag = flag.Bool("v", false, "log every search")
	jobsFlag    = flag.Int("jobs", 1, "positions searched at once, each with its own engine")
)

// positions searched by the search benchmark
var positions = []string{
	board.Startpos,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"5B2/PP1k2P1/p3pr1p/7p/1p2p3/8/3K2Rn/4r3 w - - 0 1",
}

func main() {
	flag.Parse()
	switch *profileFlag {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(*profileDir)).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(*profileDir)).Stop()
	case "":
	default:
		fmt.Fprintf(os.Stderr, "unknown profile %q\n", *profileFlag)
		os.Exit(2)
	}

	fmt.Println("----BEGIN TURTLEBOT BENCHMARK----")
	if err := benchmarkStaticEval(*evalsFlag); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := benchmarkSearch(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("----END  TURTLEBOT  BENCHMARK----")
}

// benchmarkStaticEval times the uncached evaluator on positions one move
// away from the start
func benchmarkStaticEval(n int) error {
	fmt.Println("[EVAL] Begin Setup")
	root := board.StartingBoard()
	var children []*board.Board
	for _, mv := range root.LegalMoves() {
		undo := root.Apply(mv)
		children = append(children, root.Clone())
		undo()
	}
	selection := make([]*board.Board, n)
	for i := range selection {
		selection[i] = children[rand.Intn(len(children))]
	}

	fmt.Printf("[EVAL] Setup Completed, Evaluating %d Positions\n", n)
	start := time.Now()
	var sink float64
	for _, pos := range selection {
		sink += engine.EvalStatic(pos)
	}
	elapsed := time.Since(start)
	fmt.Printf("[EVAL] %d evaluations in %v (%.0f/s, checksum %.3f)\n",
		n, elapsed, float64(n)/elapsed.Seconds(), sink)
	return nil
}

// benchmarkSearch runs one root search per position with a fresh engine
func benchmarkSearch() error {
	level := zerolog.Disabled
	if *verboseFlag {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.SyncWriter(zerolog.ConsoleWriter{Out: os.Stderr})).Level(level)

	results := make([]engine.Result, len(positions))
	cacheSizes := make([]int, len(positions))
	g := errgroup.Group{}
	g.SetLimit(max(*jobsFlag, 1))
	start := time.Now()
	for i, fen := range positions {
		i, fen := i, fen
		g.Go(func() error {
			pos, err := board.New(fen)
			if err != nil {
				return err
			}
			eng, err := engine.NewEngine(engine.DefaultConfig(), engine.WithLogger(log.With().Int("position", i).Logger()))
			if err != nil {
				return err
			}
			depth := *depthFlag
			if depth == 0 {
				depth = eng.SearchDepth(pos)
			}
			res, err := eng.AnalyzeDepth(pos, depth)
			if err != nil {
				return fmt.Errorf("%s: %w", fen, err)
			}
			results[i], cacheSizes[i] = res, eng.CacheLen()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, res := range results {
		fmt.Printf("[SEARCH] %s\n         best %s score %.3f depth %d nodes %d evals %d cutoffs %d cache %d in %v\n",
			positions[i], res.Move, res.Score, res.Depth, res.Stats.Visited, res.Stats.Evaluated,
			res.Stats.Cutoffs, cacheSizes[i], res.Elapsed)
	}
	fmt.Printf("[SEARCH] %d positions in %v with %d jobs\n", len(positions), time.Since(start), *jobsFlag)
	return nil
}
