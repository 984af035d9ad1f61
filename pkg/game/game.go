// Package game runs a chess game between a human and the engine. The game
// record, notation and outcome come from notnil/chess; the engine searches a
// dragontoothmg board built from the game's FEN.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"turtlebot/pkg/board"
	"turtlebot/pkg/engine"
)

// ErrIllegalMove is returned for input that is not a legal move
var ErrIllegalMove = errors.New("game: illegal move")

// ErrGameOver is returned when a move is requested after the game ended
var ErrGameOver = errors.New("game: game is over")

// Session is one game. The engine keeps its cache across the whole game.
type Session struct {
	ID     string
	game   *chess.Game
	engine *engine.Engine
	book   *Book
	log    zerolog.Logger
}

// NewSession starts a game from fen, or the standard position when fen is empty
func NewSession(eng *engine.Engine, fen string, log zerolog.Logger) (*Session, error) {
	id := uuid.NewString()
	tags := []*chess.TagPair{
		{Key: "Event", Value: "TurtleBot game"},
		{Key: "GameId", Value: id},
	}
	opts := []func(*chess.Game){chess.UseNotation(chess.UCINotation{})}
	if fen != "" {
		if _, err := board.New(fen); err != nil {
			return nil, err
		}
		fromFEN, err := chess.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", board.ErrInvalidFEN, err)
		}
		opts = append(opts, fromFEN)
		tags = append(tags, &chess.TagPair{Key: "SetUp", Value: "1"}, &chess.TagPair{Key: "FEN", Value: fen})
	}
	opts = append(opts, chess.TagPairs(tags))
	return &Session{
		ID:     id,
		game:   chess.NewGame(opts...),
		engine: eng,
		log:    log.With().Str("game", id).Logger(),
	}, nil
}

// UseBook enables opening names
func (s *Session) UseBook(b *Book) {
	s.book = b
}

// WhiteToMove reports whose turn it is
func (s *Session) WhiteToMove() bool {
	return s.game.Position().Turn() == chess.White
}

// Over reports whether the game has a result
func (s *Session) Over() bool {
	return s.game.Outcome() != chess.NoOutcome
}

// Outcome returns the result in PGN form ("1-0", "0-1", "1/2-1/2" or "*")
// and how it came about
func (s *Session) Outcome() (string, string) {
	return s.game.Outcome().String(), s.game.Method().String()
}

// Play applies a move in UCI notation, e.g. e2e4 or e7e8q
func (s *Session) Play(uci string) error {
	if s.Over() {
		return ErrGameOver
	}
	uci = strings.ToLower(strings.TrimSpace(uci))
	if err := s.game.MoveStr(uci); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrIllegalMove, uci, err)
	}
	return nil
}

// PlayEngine lets the engine choose and play a move for the side to move
func (s *Session) PlayEngine() (engine.Result, error) {
	if s.Over() {
		return engine.Result{}, ErrGameOver
	}
	pos, err := s.Board()
	if err != nil {
		return engine.Result{}, err
	}
	res, err := s.engine.Analyze(pos)
	if err != nil {
		return res, err
	}
	s.log.Debug().Str("move", res.Move.String()).Float64("score", res.Score).Msg("engine move")
	if err := s.Play(res.Move.String()); err != nil {
		// both move generators disagree, which means the FEN bridge lost state
		s.log.Error().Err(err).Str("fen", s.FEN()).Msg("engine move rejected")
		return res, err
	}
	return res, nil
}

// Board returns a searchable copy of the current position
func (s *Session) Board() (*board.Board, error) {
	return board.New(s.FEN())
}

// Evaluate returns the static evaluation for the side to move
func (s *Session) Evaluate() (float64, error) {
	pos, err := s.Board()
	if err != nil {
		return 0, err
	}
	return s.engine.Evaluate(pos), nil
}

// FEN returns the current position
func (s *Session) FEN() string {
	return s.game.Position().String()
}

// Draw renders the board as text, white at the bottom
func (s *Session) Draw() string {
	return s.game.Position().Board().Draw()
}

// LastMove returns the last move played in UCI notation, or "" at the start
func (s *Session) LastMove() string {
	moves := s.game.Moves()
	if len(moves) == 0 {
		return ""
	}
	return moves[len(moves)-1].String()
}

// Moves returns the moves played so far in UCI notation
func (s *Session) Moves() []string {
	moves := s.game.Moves()
	out := make([]string, len(moves))
	for i, mv := range moves {
		out[i] = mv.String()
	}
	return out
}

// OpeningName returns the name of the opening line the game is in, or ""
// when no book is set or the game left theory
func (s *Session) OpeningName() string {
	if s.book == nil {
		return ""
	}
	return s.book.Name(s.game.Moves())
}

// PGN returns the game record
func (s *Session) PGN() string {
	return s.game.String()
}
