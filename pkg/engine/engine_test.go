package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"turtlebot/pkg/board"
	"turtlebot/pkg/transposition"
)

var noMoveFENs = []string{
	// fool's mate
	"rnb1kbnr/pppp1ppp/4p3/8/5PPq/8/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	// stalemates
	"2k5/8/8/8/8/1q6/r7/2K5 w - -",
	"3k4/7R/2Q5/8/8/8/8/3K4 b - -",
}

func newEngine(t testing.TB, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestChooseMoveWithoutLegalMoves(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	for _, fen := range noMoveFENs {
		mv, err := e.ChooseMove(mustBoard(t, fen))
		if !errors.Is(err, ErrNoLegalMoves) {
			t.Errorf("%s: error %v, want ErrNoLegalMoves", fen, err)
		}
		if mv != board.NoMove {
			t.Errorf("%s: returned move %s", fen, mv)
		}
	}
}

func TestChooseMoveFromStart(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	pos := board.StartingBoard()
	before := pos.FEN()

	mv, err := e.ChooseMove(pos)
	if err != nil {
		t.Fatal(err)
	}
	legal := false
	for _, m := range pos.LegalMoves() {
		legal = legal || m == mv
	}
	if !legal {
		t.Fatalf("chose %s, which is not legal", mv)
	}
	if pos.FEN() != before {
		t.Fatalf("search left the board at %s", pos.FEN())
	}
}

func TestAnalyzeIsRepeatableFromCache(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	pos := board.StartingBoard()

	first, err := e.Analyze(pos)
	if err != nil {
		t.Fatal(err)
	}
	if first.Depth != 3 || len(first.Scores) != 20 {
		t.Fatalf("depth %d with %d root scores", first.Depth, len(first.Scores))
	}
	if first.Stats.Evaluated == 0 || first.Stats.CacheMisses == 0 {
		t.Fatalf("first search stats %+v", first.Stats)
	}

	second, err := e.Analyze(pos)
	if err != nil {
		t.Fatal(err)
	}
	if second.Move != first.Move || second.Score != first.Score {
		t.Fatalf("second search chose %s (%v), first %s (%v)", second.Move, second.Score, first.Move, first.Score)
	}
	if second.Stats.CacheMisses != 0 || second.Stats.CacheHits != second.Stats.Evaluated {
		t.Fatalf("second search stats %+v, want every leaf served from cache", second.Stats)
	}
	for i := range first.Scores {
		if first.Scores[i] != second.Scores[i] {
			t.Fatalf("root move %d: %+v then %+v", i, first.Scores[i], second.Scores[i])
		}
	}
}

func TestSearchDepth(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	cases := []struct {
		fen  string
		want int
	}{
		{board.Startpos, 3},
		// twelve pieces
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/6NN w - - 0 1", 3},
		// eleven pieces
		{"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/7N w - - 0 1", 5},
		{"8/8/8/8/8/8/8/K1k5 w - - 0 1", 5},
	}
	for _, c := range cases {
		if got := e.SearchDepth(mustBoard(t, c.fen)); got != c.want {
			t.Errorf("%s: depth %d, want %d", c.fen, got, c.want)
		}
	}
}

func TestDepthFor(t *testing.T) {
	cfg := Config{BaseDepth: 2, EndgameDepth: 4, EndgamePieces: 6}
	for _, c := range []struct{ pieces, want int }{
		{32, 2}, {6, 2}, {5, 4}, {2, 4},
	} {
		if got := cfg.depthFor(c.pieces); got != c.want {
			t.Errorf("depthFor(%d) = %d, want %d", c.pieces, got, c.want)
		}
	}
}

func TestAnalyzeUsesEndgameDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDepth, cfg.EndgameDepth = 1, 2
	e := newEngine(t, cfg)

	res, err := e.Analyze(mustBoard(t, "4k3/8/8/8/8/8/8/R3K3 w Q - 0 1"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Depth != 2 {
		t.Fatalf("endgame searched to depth %d", res.Depth)
	}
	res, err = e.Analyze(board.StartingBoard())
	if err != nil {
		t.Fatal(err)
	}
	if res.Depth != 1 || res.Stats.Evaluated != 20 {
		t.Fatalf("start searched to depth %d with %d leaves", res.Depth, res.Stats.Evaluated)
	}
}

func TestAnalyzeDepthRejectsZero(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	if _, err := e.AnalyzeDepth(board.StartingBoard(), 0); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error %v, want ErrInvalidConfig", err)
	}
}

func TestEngineEvaluateUsesCache(t *testing.T) {
	e := newEngine(t, DefaultConfig())
	pos := board.StartingBoard()

	if got, want := e.Evaluate(pos), EvalStatic(pos); got != want {
		t.Fatalf("Evaluate = %v, EvalStatic = %v", got, want)
	}
	e.Evaluate(pos)
	if s := e.CacheStats(); s.Hits != 1 || s.Misses != 1 || e.CacheLen() != 1 {
		t.Fatalf("cache stats %+v, len %d", s, e.CacheLen())
	}

	e.ClearCache()
	if e.CacheLen() != 0 {
		t.Fatalf("cache holds %d entries after clear", e.CacheLen())
	}
	e.ResetStats()
	if s := e.Stats(); s != (Stats{}) {
		t.Fatalf("stats after reset %+v", s)
	}
}

func TestEnginesShareTable(t *testing.T) {
	table := transposition.NewUnbounded()
	a := newEngine(t, DefaultConfig(), WithTable(table))
	b := newEngine(t, DefaultConfig(), WithTable(table))

	pos := board.StartingBoard()
	if _, err := a.AnalyzeDepth(pos, 2); err != nil {
		t.Fatal(err)
	}
	res, err := b.AnalyzeDepth(pos, 2)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.CacheMisses != 0 || res.Stats.CacheHits == 0 {
		t.Fatalf("second engine stats %+v", res.Stats)
	}
}

func TestCachePoliciesAgree(t *testing.T) {
	pos := mustBoard(t, "r1bqkb1r/pppp1ppp/2n2n2/4p2Q/2B1P3/8/PPPP1PPP/RNB1K1NR w KQkq - 4 4")
	var moves []board.Move
	for _, opts := range []transposition.Options{
		{Policy: transposition.Unbounded},
		{Policy: transposition.Reset, Capacity: 64},
		{Policy: transposition.LRU, Capacity: 64},
	} {
		cfg := DefaultConfig()
		cfg.Cache = opts
		e := newEngine(t, cfg)
		res, err := e.AnalyzeDepth(pos, 2)
		if err != nil {
			t.Fatal(err)
		}
		if opts.Capacity > 0 && e.CacheLen() > opts.Capacity {
			t.Errorf("%s cache grew to %d", opts.Policy, e.CacheLen())
		}
		moves = append(moves, res.Move)
	}
	if moves[0] != moves[1] || moves[0] != moves[2] {
		t.Fatalf("policies chose different moves: %v", moves)
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache = transposition.Options{Policy: transposition.LRU}
	if _, err := NewEngine(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("error %v, want ErrInvalidConfig", err)
	}
}

func TestAnalyzeLogs(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)
	e := newEngine(t, DefaultConfig(), WithLogger(log))

	if _, err := e.AnalyzeDepth(board.StartingBoard(), 1); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"message":"best-move"`) {
		t.Fatalf("missing best-move line in %s", buf.String())
	}
	if strings.Contains(buf.String(), "root-move") {
		t.Fatalf("debug output at info level: %s", buf.String())
	}

	buf.Reset()
	if _, err := e.ChooseMove(mustBoard(t, noMoveFENs[0])); err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("missing warning in %s", buf.String())
	}
}

func BenchmarkAnalyzeStart(b *testing.B) {
	pos := board.StartingBoard()
	for i := 0; i < b.N; i++ {
		e := newEngine(b, DefaultConfig())
		if _, err := e.Analyze(pos); err != nil {
			b.Fatal(err)
		}
	}
}
