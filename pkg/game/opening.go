package game

import (
	"sort"

	"github.com/notnil/chess"
	"github.com/notnil/chess/opening"
)

// Book names the opening a game is in. It is for display only, the engine
// never consults it.
type Book struct {
	eco *opening.BookECO
}

// NewBook parses the ECO catalogue, which takes a moment
func NewBook() *Book {
	return &Book{eco: opening.NewBookECO()}
}

// Name returns the title of the deepest named line the moves belong to, or
// "" once the game has left the catalogue
func (b *Book) Name(moves []*chess.Move) string {
	if len(moves) == 0 {
		return ""
	}
	openings := b.eco.Possible(moves)
	sort.Sort(byOpeningLength(openings))
	for _, op := range openings {
		if !follows(op, moves) {
			continue
		}
		if named := b.eco.Find(moves); named != nil {
			return named.Title()
		}
		return op.Title()
	}
	return ""
}

// follows reports whether moves are a prefix of the opening's line
func follows(op *opening.Opening, moves []*chess.Move) bool {
	line := op.Game().Moves()
	if len(line) < len(moves) {
		return false
	}
	for idx, mv := range moves {
		if line[idx].String() != mv.String() {
			return false
		}
	}
	return true
}

type byOpeningLength []*opening.Opening

func (a byOpeningLength) Len() int           { return len(a) }
func (a byOpeningLength) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byOpeningLength) Less(i, j int) bool { return len(a[i].PGN()) > len(a[j].PGN()) }
