package engine

import (
	"math"
	"time"

	"github.com/piwi3910/boardcut/internal/model"
)

// bnbSearch is the state of one BranchAndBound call. The working layout is
// mutated in place and restored with Undo after each branch.
type bnbSearch struct {
	engine    *Engine
	boardCost model.Cost
	layout    *model.Layout
	best      *model.Layout
	bestCost  model.Cost
	stats     model.SearchStats
}

// BranchAndBound searches every placement order like Exhaustive but abandons
// a partial layout once its lower bound reaches the best complete cost. The
// bound is the cost of the boards opened so far plus the cutting cost of
// every piece, which no completion can undercut.
func (o *Optimizer) BranchAndBound(pieces []model.Piece) (model.Solution, error) {
	if err := o.check(pieces); err != nil {
		return model.Solution{}, err
	}
	start := time.Now()

	var remainingCut model.Cost
	for _, p := range pieces {
		remainingCut += o.Settings.CutCost(p)
	}

	s := &bnbSearch{
		engine:    o.engine,
		boardCost: o.Settings.BoardCost,
		layout:    model.NewLayout(o.Settings),
		bestCost:  model.Cost(math.MaxInt64),
	}
	s.search(pieces, remainingCut)

	s.stats.Elapsed = time.Since(start)
	return model.NewSolution(model.StrategyBranchAndBound, s.best, s.bestCost, s.stats), nil
}

func (s *bnbSearch) search(remaining []model.Piece, remainingCut model.Cost) {
	s.stats.Explored++

	bound := s.layout.TotalCost(s.boardCost) + remainingCut
	if bound >= s.bestCost {
		s.stats.Pruned++
		return
	}
	if len(remaining) == 0 {
		// With nothing left the bound is the exact cost.
		s.bestCost = bound
		s.best = s.layout.Clone()
		return
	}

	rest := make([]model.Piece, len(remaining)-1)
	for i, p := range remaining {
		copy(rest, remaining[:i])
		copy(rest[i:], remaining[i+1:])

		m, ok := s.engine.FitExisting(s.layout, p)
		if !ok {
			m = s.engine.PlaceOnNewBoard(s.layout, p)
		}
		s.search(rest, remainingCut-m.Cost)
		s.engine.Undo(s.layout, m)
	}
}
