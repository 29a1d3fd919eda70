package engine

import "github.com/piwi3910/boardcut/internal/model"

// Engine tests and commits piece placements against board occupancy grids.
// It holds no search state; every strategy drives the same Engine.
type Engine struct {
	settings model.Settings
}

func NewEngine(settings model.Settings) *Engine {
	return &Engine{settings: settings}
}

// Feasible reports whether the piece fits with its top-left corner at (x, y)
// without crossing the margin or overlapping an occupied cell. On success it
// also returns the cutting cost the placement would add.
func (e *Engine) Feasible(b *model.Board, p model.Piece, x, y int) (bool, model.Cost) {
	if x < b.Margin || y < b.Margin {
		return false, 0
	}
	if x+p.Width > b.Width-b.Margin {
		return false, 0
	}
	if y+p.Height > b.Length-b.Margin {
		return false, 0
	}
	for i := y; i < y+p.Height; i++ {
		for j := x; j < x+p.Width; j++ {
			if b.Occupied(j, i) {
				return false, 0
			}
		}
	}
	return true, e.settings.CutCost(p)
}

// Commit places the piece at (x, y): it records the placement on the stored
// copy, marks the cells, charges the cutting cost and appends the piece to
// the board. The caller is responsible for checking feasibility first.
func (e *Engine) Commit(b *model.Board, p model.Piece, x, y int) model.Cost {
	p.X, p.Y, p.Board, p.Placed = x, y, b.ID, true
	b.Fill(x, y, p.Width, p.Height, true)
	cost := e.settings.CutCost(p)
	b.CuttingCost += cost
	b.Pieces = append(b.Pieces, p)
	return cost
}

// Release undoes the most recent Commit on the board and returns the piece
// with its placement cleared.
func (e *Engine) Release(b *model.Board) model.Piece {
	last := len(b.Pieces) - 1
	p := b.Pieces[last]
	b.Pieces = b.Pieces[:last]
	b.Fill(p.X, p.Y, p.Width, p.Height, false)
	b.CuttingCost -= e.settings.CutCost(p)

	p.X, p.Y, p.Board, p.Placed = 0, 0, 0, false
	return p
}

// scan finds the first feasible position in row-major order: y ascending,
// then x ascending. Placed pieces let it jump past blocked spans; every
// candidate left over is confirmed against the grid with Feasible, which
// also prices the placement.
func (e *Engine) scan(b *model.Board, p model.Piece) (int, int, model.Cost, bool) {
	maxY := b.Length - b.Margin - p.Height
	maxX := b.Width - b.Margin - p.Width
	for y := b.Margin; y <= maxY; {
		gridBlocked := false
		for x := b.Margin; x <= maxX; {
			next := -1
			for _, q := range b.Pieces {
				if q.X < x+p.Width && x < q.X+q.Width && q.Y < y+p.Height && y < q.Y+q.Height {
					if edge := q.X + q.Width; edge > next {
						next = edge
					}
				}
			}
			if next < 0 {
				if ok, cost := e.Feasible(b, p, x, y); ok {
					return x, y, cost, true
				}
				gridBlocked = true
				next = x + 1
			}
			x = next
		}

		// Cells not covered by a piece only clear one row at a time.
		if gridBlocked {
			y++
			continue
		}

		// Nothing fits on this row. Lower rows stay blocked until a piece
		// overlapping the band ends.
		nextY := maxY + 1
		for _, q := range b.Pieces {
			if edge := q.Y + q.Height; edge > y && edge < nextY {
				nextY = edge
			}
		}
		y = nextY
	}
	return 0, 0, 0, false
}
