package board

import (
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Move is an opaque legal transition between two positions. The zero value
// is NoMove.
type Move uint32

// NoMove is never returned by LegalMoves
const NoMove Move = 0

// ParseMove decodes a move in UCI notation, e.g. e2e4 or e7e8q
func ParseMove(s string) (Move, error) {
	mv, err := dragon.ParseMove(s)
	if err != nil {
		return NoMove, fmt.Errorf("board: parse move %q: %w", s, err)
	}
	return Move(mv), nil
}

// String returns the move in UCI notation
func (m Move) String() string {
	dm := dragon.Move(m)
	return dm.String()
}

// From returns the origin square
func (m Move) From() Square {
	dm := dragon.Move(m)
	return Square(dm.From())
}

// To returns the destination square
func (m Move) To() Square {
	dm := dragon.Move(m)
	return Square(dm.To())
}

// Piece is a piece kind without colour
type Piece uint8

const (
	NoPiece Piece = dragon.Nothing
	Pawn    Piece = dragon.Pawn
	Knight  Piece = dragon.Knight
	Bishop  Piece = dragon.Bishop
	Rook    Piece = dragon.Rook
	Queen   Piece = dragon.Queen
	King    Piece = dragon.King
)

func (p Piece) String() string {
	switch p {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	}
	return "none"
}

// Square indexes the board little-endian rank-file: a1 is 0, h1 is 7, h8 is 63
type Square uint8

// Central squares, the ones the evaluator rewards attacking
const (
	D4 Square = 27
	E4 Square = 28
	D5 Square = 35
	E5 Square = 36
)

// ParseSquare decodes algebraic notation such as "e4"
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("board: parse square %q: want two characters", s)
	}
	idx, err := dragon.AlgebraicToIndex(s)
	if err != nil {
		return 0, fmt.Errorf("board: parse square %q: %w", s, err)
	}
	return Square(idx), nil
}

// Rank is 0 for the first rank through 7 for the eighth
func (s Square) Rank() int { return int(s) / 8 }

// File is 0 for the a-file through 7 for the h-file
func (s Square) File() int { return int(s) % 8 }

// Bit is the single-bit bitboard of the square
func (s Square) Bit() uint64 { return uint64(1) << s }

func (s Square) String() string {
	if s > 63 {
		return "-"
	}
	return dragon.IndexToAlgebraic(dragon.Square(s))
}
