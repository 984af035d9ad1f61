// Package board adapts the dragontoothmg move generator to the position
// contract consumed by the search engine.
package board

import (
	"errors"
	"fmt"
	"math/bits"
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Startpos is the FEN of the standard starting position
const Startpos = dragon.Startpos

// ErrInvalidFEN is returned when a FEN string cannot describe a legal board
var ErrInvalidFEN = errors.New("board: invalid FEN")

// Board is a mutable chess position. Moves are applied in place and
// reverted with the closure returned by Apply.
type Board struct {
	b dragon.Board
}

// New parses the FEN and returns the corresponding Board
func New(fen string) (*Board, error) {
	if err := checkFEN(fen); err != nil {
		return nil, err
	}
	b := dragon.ParseFen(fen)
	if bits.OnesCount64(b.White.Kings) != 1 || bits.OnesCount64(b.Black.Kings) != 1 {
		return nil, fmt.Errorf("%w: %q needs exactly one king per side", ErrInvalidFEN, fen)
	}
	return &Board{b: b}, nil
}

// StartingBoard returns the standard starting position
func StartingBoard() *Board {
	return &Board{b: dragon.ParseFen(Startpos)}
}

// checkFEN rejects input dragontoothmg would panic on or silently blank out
func checkFEN(fen string) error {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return fmt.Errorf("%w: %q has %d fields, want at least 4", ErrInvalidFEN, fen, len(fields))
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: %q has %d ranks", ErrInvalidFEN, fen, len(ranks))
	}
	for _, rank := range ranks {
		width := 0
		for _, c := range rank {
			switch {
			case c >= '1' && c <= '8':
				width += int(c - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", c):
				width++
			default:
				return fmt.Errorf("%w: unexpected %q in rank %q", ErrInvalidFEN, c, rank)
			}
		}
		if width != 8 {
			return fmt.Errorf("%w: rank %q spans %d files", ErrInvalidFEN, rank, width)
		}
	}
	if side := fields[1]; side != "w" && side != "b" {
		return fmt.Errorf("%w: side to move %q", ErrInvalidFEN, side)
	}
	if ep := fields[3]; ep != "-" {
		if _, err := ParseSquare(ep); err != nil {
			return fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, ep)
		}
	}
	return nil
}

// WhiteToMove reports whether white is the side to move
func (b *Board) WhiteToMove() bool {
	return b.b.Wtomove
}

// LegalMoves returns every legal move in dragontoothmg's generation order
func (b *Board) LegalMoves() []Move {
	generated := b.b.GenerateLegalMoves()
	moves := make([]Move, len(generated))
	for i, mv := range generated {
		moves[i] = Move(mv)
	}
	return moves
}

// Apply plays a legal move and returns the function that takes it back.
// The move must come from LegalMoves on the current position.
func (b *Board) Apply(m Move) func() {
	return b.b.Apply(dragon.Move(m))
}

// Key is the incremental Zobrist hash. It covers pieces, side to move,
// castling rights and the en passant square but not the move clocks.
func (b *Board) Key() uint64 {
	return b.b.Hash()
}

// PlyCount is the number of half-moves played since the game began,
// derived from the fullmove number and the side to move
func (b *Board) PlyCount() int {
	full := int(b.b.Fullmoveno)
	if full < 1 {
		full = 1
	}
	ply := 2 * (full - 1)
	if !b.b.Wtomove {
		ply++
	}
	return ply
}

// Occupancy is the set of occupied squares
func (b *Board) Occupancy() uint64 {
	return b.b.White.All | b.b.Black.All
}

// Side is the set of squares occupied by one colour
func (b *Board) Side(white bool) uint64 {
	return b.side(white).All
}

// Pieces is the set of squares holding the given piece of one colour
func (b *Board) Pieces(white bool, p Piece) uint64 {
	bbs := b.side(white)
	switch p {
	case Pawn:
		return bbs.Pawns
	case Knight:
		return bbs.Knights
	case Bishop:
		return bbs.Bishops
	case Rook:
		return bbs.Rooks
	case Queen:
		return bbs.Queens
	case King:
		return bbs.Kings
	}
	return 0
}

func (b *Board) side(white bool) *dragon.Bitboards {
	if white {
		return &b.b.White
	}
	return &b.b.Black
}

// Attacked reports whether the given colour attacks sq, independent of
// whose turn it is
func (b *Board) Attacked(sq Square, byWhite bool) bool {
	return b.b.UnderDirectAttack(!byWhite, uint8(sq))
}

// KingSquare returns the square of the given colour's king
func (b *Board) KingSquare(white bool) Square {
	return Square(bits.TrailingZeros64(b.side(white).Kings))
}

// InCheck reports whether the side to move is in check
func (b *Board) InCheck() bool {
	return b.b.OurKingInCheck()
}

// InCheckmate reports whether the side to move is in check with no legal reply
func (b *Board) InCheckmate() bool {
	return b.b.OurKingInCheck() && len(b.b.GenerateLegalMoves()) == 0
}

// InStalemate reports whether the side to move has no legal move but is not in check
func (b *Board) InStalemate() bool {
	return !b.b.OurKingInCheck() && len(b.b.GenerateLegalMoves()) == 0
}

// FEN serialises the position
func (b *Board) FEN() string {
	return b.b.ToFen()
}

// Clone returns an independent copy of the position
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

func (b *Board) String() string {
	return b.FEN()
}
