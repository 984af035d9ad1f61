package engine

import "turtlebot/pkg/board"

// Position is the game state the engine searches. It is supplied by a rules
// engine; *board.Board is the implementation used outside of tests.
//
// Apply must return a function that restores every piece of state,
// including side to move, castling and en passant rights. All bitboards use
// bit 0 for a1 and bit 63 for h8.
type Position interface {
	WhiteToMove() bool
	LegalMoves() []board.Move
	Apply(m board.Move) (undo func())
	// Key is a stable hash of the position used for memoisation
	Key() uint64
	// PlyCount is the number of half-moves played so far in the game
	PlyCount() int
	Occupancy() uint64
	Side(white bool) uint64
	Pieces(white bool, p board.Piece) uint64
	// Attacked reports whether the given colour attacks sq, whoever is to move
	Attacked(sq board.Square, byWhite bool) bool
	KingSquare(white bool) board.Square
	InCheck() bool
	InCheckmate() bool
}

var _ Position = (*board.Board)(nil)
