package engine

import (
	"math/bits"

	"turtlebot/pkg/board"
	"turtlebot/pkg/transposition"
)

// Evaluator scores a position from the perspective of the side to move
type Evaluator interface {
	Evaluate(pos Position) float64
}

// EvaluatorFunc adapts a plain function to the Evaluator interface
type EvaluatorFunc func(pos Position) float64

// Evaluate calls f(pos)
func (f EvaluatorFunc) Evaluate(pos Position) float64 {
	return f(pos)
}

// Heuristic is the static evaluator: center control, protection, material,
// linked rooks and check status
type Heuristic struct{}

// Evaluate implements Evaluator
func (Heuristic) Evaluate(pos Position) float64 {
	return EvalStatic(pos)
}

// CachedEvaluator memoises another evaluator in a transposition table. An
// entry is reused only when the side to move matches the one it was
// computed for.
type CachedEvaluator struct {
	Evaluator Evaluator
	Table     *transposition.Table
}

// Evaluate implements Evaluator
func (c *CachedEvaluator) Evaluate(pos Position) float64 {
	key, white := pos.Key(), pos.WhiteToMove()
	if entry, ok := c.Table.Query(key, white); ok {
		return entry.Score
	}
	score := c.Evaluator.Evaluate(pos)
	c.Table.Commit(key, transposition.Entry{WhiteToMove: white, Score: score})
	return score
}

// EvalStatic will evaluate a position for the side to move
func EvalStatic(pos Position) float64 {
	us := pos.WhiteToMove()
	score := centerWeight(pos.PlyCount()) * centerScore(pos, us)
	score -= unprotectedPieces(pos, us)
	score += ownMaterialFactor*materialScore(pos, us) - materialScore(pos, !us)
	score += LinkedRooksBonus * linkedRooks(pos, us)
	score += checkScore(pos, us)
	if pos.InCheckmate() {
		score += CheckmateBonus
	}
	return score
}

// centerWeight decays from 3 towards 1 as the game goes on
func centerWeight(plyCount int) float64 {
	if plyCount < 1 {
		plyCount = 1
	}
	return 1 + 2/float64(plyCount)
}

// centerScore rewards occupying and attacking the center and punishes
// minor pieces and queens stuck on the rim
func centerScore(pos Position, us bool) float64 {
	own := pos.Side(us)
	score := centerOccupyPoints * bits.OnesCount64(own&centerMask)
	score += ringOccupyPoints * bits.OnesCount64(own&centerRingMask)
	for _, sq := range [...]board.Square{board.D4, board.D5, board.E4, board.E5} {
		if pos.Attacked(sq, us) {
			score += centerAttackPoints
		}
	}
	rim := pos.Pieces(us, board.Queen) | pos.Pieces(us, board.Bishop) | pos.Pieces(us, board.Knight)
	score -= edgeMinorPenalty * bits.OnesCount64(rim&edgeMask)
	return float64(score) / centerNormalizer
}

// unprotectedPieces counts our pieces the opponent attacks and we do not defend
func unprotectedPieces(pos Position, us bool) float64 {
	count := 0
	for pieces := pos.Side(us); pieces != 0; pieces &= pieces - 1 {
		sq := board.Square(bits.TrailingZeros64(pieces))
		if !pos.Attacked(sq, !us) {
			continue
		}
		count++
		if pos.Attacked(sq, us) {
			count--
		}
	}
	return float64(count) / unprotectedNormalizer
}

// materialScore weighs one side's pieces, a full set scores 1
func materialScore(pos Position, white bool) float64 {
	total := queenWeight*bits.OnesCount64(pos.Pieces(white, board.Queen)) +
		rookWeight*bits.OnesCount64(pos.Pieces(white, board.Rook)) +
		bishopWeight*bits.OnesCount64(pos.Pieces(white, board.Bishop)) +
		knightWeight*bits.OnesCount64(pos.Pieces(white, board.Knight)) +
		pawnWeight*bits.OnesCount64(pos.Pieces(white, board.Pawn))
	return float64(total) / materialNormalizer
}

// linkedRooks is 1 when the side has exactly two rooks on a shared rank or file
func linkedRooks(pos Position, us bool) float64 {
	rooks := pos.Pieces(us, board.Rook)
	if bits.OnesCount64(rooks) != 2 {
		return 0
	}
	first := board.Square(bits.TrailingZeros64(rooks))
	second := board.Square(63 - bits.LeadingZeros64(rooks))
	if first.Rank() == second.Rank() || first.File() == second.File() {
		return 1
	}
	return 0
}

// checkScore punishes being in check and rewards attacking the enemy king.
// The two cases are exclusive, being in check takes precedence.
func checkScore(pos Position, us bool) float64 {
	if pos.Attacked(pos.KingSquare(us), !us) {
		return -InCheckPenalty
	}
	if pos.Attacked(pos.KingSquare(!us), us) {
		return GivingCheckBonus
	}
	return 0
}
