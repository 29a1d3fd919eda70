package engine

import "github.com/piwi3910/boardcut/internal/model"

// Move records one first-fit placement so it can be undone.
type Move struct {
	Board  int        // Index of the board in the layout
	Opened bool       // The board was created for this piece
	X, Y   int        // Top-left corner
	Cost   model.Cost // Cutting cost charged
}

// FitExisting tries the boards of the layout in creation order and commits
// the piece at the first feasible row-major position. It never opens a board.
func (e *Engine) FitExisting(l *model.Layout, p model.Piece) (Move, bool) {
	for idx, b := range l.Boards {
		if x, y, cost, ok := e.scan(b, p); ok {
			e.Commit(b, p, x, y)
			return Move{Board: idx, X: x, Y: y, Cost: cost}, true
		}
	}
	return Move{}, false
}

// OpenBoard appends a new empty board with the next sequential ID.
func (e *Engine) OpenBoard(l *model.Layout) *model.Board {
	b := model.NewBoard(len(l.Boards), e.settings)
	l.Boards = append(l.Boards, b)
	return b
}

// PlaceOnNewBoard opens a board and commits the piece at (margin, margin).
// Pieces are validated against the usable interior before a search starts,
// so this position is always in bounds.
func (e *Engine) PlaceOnNewBoard(l *model.Layout, p model.Piece) Move {
	b := e.OpenBoard(l)
	cost := e.Commit(b, p, b.Margin, b.Margin)
	return Move{Board: b.ID, Opened: true, X: b.Margin, Y: b.Margin, Cost: cost}
}

// FirstFit places the piece on the first board that accepts it, opening a
// new board when none does.
func (e *Engine) FirstFit(l *model.Layout, p model.Piece) Move {
	if m, ok := e.FitExisting(l, p); ok {
		return m
	}
	return e.PlaceOnNewBoard(l, p)
}

// Undo reverts a move. Moves must be undone in reverse order.
func (e *Engine) Undo(l *model.Layout, m Move) {
	e.Release(l.Boards[m.Board])
	if m.Opened {
		l.Boards[len(l.Boards)-1] = nil
		l.Boards = l.Boards[:len(l.Boards)-1]
	}
}
