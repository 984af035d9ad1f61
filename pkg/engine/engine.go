package engine

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"time"

	"github.com/rs/zerolog"

	"turtlebot/pkg/board"
	"turtlebot/pkg/transposition"
)

// ErrNoLegalMoves is returned when asked to move in a position that has
// none, i.e. the game is already over
var ErrNoLegalMoves = errors.New("engine: no legal moves")

// Engine is the minimax engine. It owns its evaluation cache, which lives
// as long as the engine and is shared by every search it runs.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	cfg       Config
	table     *transposition.Table
	leaf      Evaluator
	log       zerolog.Logger
	stats     Stats
	cacheMark transposition.Stats
	// forWhite is the colour the current search maximises for
	forWhite bool
}

// Option customises an Engine
type Option func(*Engine)

// WithLogger sets the logger, the default discards everything
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithEvaluator replaces the static evaluator. The replacement is still
// served through the engine's cache.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.leaf = ev }
}

// WithTable makes the engine use an existing evaluation cache instead of
// building one from Config.Cache
func WithTable(t *transposition.Table) Option {
	return func(e *Engine) { e.table = t }
}

// NewEngine returns an engine with an empty cache
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, leaf: Heuristic{}, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.table == nil {
		table, err := transposition.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		e.table = table
	}
	e.leaf = &CachedEvaluator{Evaluator: e.leaf, Table: e.table}
	e.cacheMark = e.table.Stats()
	return e, nil
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate returns the static evaluation of pos for the side to move,
// reading and filling the cache like a search leaf would
func (e *Engine) Evaluate(pos Position) float64 {
	return e.leaf.Evaluate(pos)
}

// ClearCache drops every cached evaluation
func (e *Engine) ClearCache() {
	e.table.Clear()
	e.cacheMark = e.table.Stats()
}

// SearchDepth returns the number of plies searched from pos, the root move
// included
func (e *Engine) SearchDepth(pos Position) int {
	return e.cfg.depthFor(bits.OnesCount64(pos.Occupancy()))
}

func (c Config) depthFor(pieces int) int {
	if pieces < c.EndgamePieces {
		return c.EndgameDepth
	}
	return c.BaseDepth
}

// MoveScore is the search result for one root move
type MoveScore struct {
	Move  board.Move
	Score float64
}

// Result describes a completed root search
type Result struct {
	Move    board.Move
	Score   float64
	Depth   int
	Scores  []MoveScore // every root move, in generation order
	Stats   Stats
	Elapsed time.Duration
}

// ChooseMove returns the move the engine plays in pos. Ties go to the
// move generated first.
func (e *Engine) ChooseMove(pos Position) (board.Move, error) {
	res, err := e.Analyze(pos)
	if err != nil {
		return board.NoMove, err
	}
	return res.Move, nil
}

// Analyze searches every root move of pos to the adaptive depth and
// returns the best one along with the score of each
func (e *Engine) Analyze(pos Position) (Result, error) {
	return e.AnalyzeDepth(pos, e.SearchDepth(pos))
}

// AnalyzeDepth is Analyze with a fixed number of plies
func (e *Engine) AnalyzeDepth(pos Position, depth int) (Result, error) {
	if depth < 1 {
		return Result{}, fmt.Errorf("%w: depth %d", ErrInvalidConfig, depth)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		e.log.Warn().Bool("white", pos.WhiteToMove()).Msg("aborting search, no legal moves")
		return Result{}, ErrNoLegalMoves
	}

	start := time.Now()
	e.ResetStats()
	e.forWhite = pos.WhiteToMove()

	res := Result{Move: moves[0], Score: math.Inf(-1), Depth: depth, Scores: make([]MoveScore, len(moves))}
	for i, mv := range moves {
		undo := pos.Apply(mv)
		score := e.minPly(pos, depth-1, math.Inf(-1), math.Inf(1))
		undo()

		res.Scores[i] = MoveScore{Move: mv, Score: score}
		e.log.Debug().Str("move", mv.String()).Float64("score", score).Msg("root-move")
		// strictly greater keeps the first of equal scores
		if i == 0 || score > res.Score {
			res.Move, res.Score = mv, score
		}
	}
	res.Stats = e.Stats()
	res.Elapsed = time.Since(start)

	e.log.Info().
		Str("move", res.Move.String()).
		Float64("score", res.Score).
		Int("depth", depth).
		Uint("visited", res.Stats.Visited).
		Uint("evaluated", res.Stats.Evaluated).
		Uint("cutoffs", res.Stats.Cutoffs).
		Uint("cache-hits", res.Stats.CacheHits).
		Int("cache-size", e.table.Len()).
		Dur("elapsed", res.Elapsed).
		Msg("best-move")
	return res, nil
}
