package engine

import "math"

// Search runs minimax with alpha/beta pruning from pos for depth plies.
// When maximizing, scores are maximised for the side to move at pos,
// otherwise for the side that just moved. A node without legal moves keeps
// its infinite starting value.
func (e *Engine) Search(pos Position, depth int, alpha, beta float64, maximizing bool) float64 {
	e.forWhite = pos.WhiteToMove() == maximizing
	if maximizing {
		return e.maxPly(pos, depth, alpha, beta)
	}
	return e.minPly(pos, depth, alpha, beta)
}

// maxPly plays for the side being searched for
func (e *Engine) maxPly(pos Position, depth int, alpha, beta float64) float64 {
	e.stats.Visited++
	if depth == 0 {
		return e.leafScore(pos)
	}
	best := math.Inf(-1)
	for _, mv := range pos.LegalMoves() {
		undo := pos.Apply(mv)
		score := e.minPly(pos, depth-1, alpha, beta)
		undo()

		best = f64max(best, score)
		alpha = f64max(alpha, best)
		if beta <= alpha {
			e.stats.Cutoffs++
			break
		}
	}
	return best
}

// minPly plays the opponent's replies
func (e *Engine) minPly(pos Position, depth int, alpha, beta float64) float64 {
	e.stats.Visited++
	if depth == 0 {
		return e.leafScore(pos)
	}
	best := math.Inf(1)
	for _, mv := range pos.LegalMoves() {
		undo := pos.Apply(mv)
		score := e.maxPly(pos, depth-1, alpha, beta)
		undo()

		best = f64min(best, score)
		beta = f64min(beta, best)
		if beta <= alpha {
			e.stats.Cutoffs++
			break
		}
	}
	return best
}

// leafScore evaluates pos and turns the mover-relative score into one
// relative to the side being searched for
func (e *Engine) leafScore(pos Position) float64 {
	e.stats.Evaluated++
	score := e.leaf.Evaluate(pos)
	if pos.WhiteToMove() != e.forWhite {
		return -score
	}
	return score
}
