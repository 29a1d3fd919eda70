package engine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/piwi3910/boardcut/internal/model"
)

var (
	// ErrTooManyPieces is returned by Optimize when an exact strategy is
	// asked to solve more pieces than the configured limit.
	ErrTooManyPieces = errors.New("too many pieces for an exact strategy")
	// ErrUnknownStrategy is returned for strategy names Optimize does not know.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// Optimizer solves the board cutting problem with one of the strategies.
type Optimizer struct {
	Settings model.Settings
	engine   *Engine
}

func New(settings model.Settings) *Optimizer {
	return &Optimizer{Settings: settings, engine: NewEngine(settings)}
}

// Optimize runs the strategy selected in the settings. Exact strategies
// refuse inputs larger than ExhaustiveLimit; a limit of zero disables
// the check.
func (o *Optimizer) Optimize(pieces []model.Piece) (model.Solution, error) {
	strategy := o.Settings.Strategy
	if strategy.Exact() && o.Settings.ExhaustiveLimit > 0 && len(pieces) > o.Settings.ExhaustiveLimit {
		return model.Solution{}, fmt.Errorf("%w: %s accepts at most %d pieces, got %d",
			ErrTooManyPieces, strategy, o.Settings.ExhaustiveLimit, len(pieces))
	}

	switch strategy {
	case model.StrategyExhaustive:
		return o.Exhaustive(pieces)
	case model.StrategyBranchAndBound:
		return o.BranchAndBound(pieces)
	case model.StrategyGreedy:
		return o.Greedy(pieces)
	default:
		return model.Solution{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

func (o *Optimizer) check(pieces []model.Piece) error {
	if err := o.Settings.Validate(); err != nil {
		return err
	}
	return o.Settings.CheckPieces(pieces)
}

// Greedy sorts the pieces by area, largest first, and places each with
// first-fit. Ties keep their input order.
func (o *Optimizer) Greedy(pieces []model.Piece) (model.Solution, error) {
	if err := o.check(pieces); err != nil {
		return model.Solution{}, err
	}
	start := time.Now()

	sorted := make([]model.Piece, len(pieces))
	copy(sorted, pieces)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Area() > sorted[j].Area()
	})

	layout := model.NewLayout(o.Settings)
	for _, p := range sorted {
		o.engine.FirstFit(layout, p)
	}

	stats := model.SearchStats{Explored: 1, Elapsed: time.Since(start)}
	return model.NewSolution(model.StrategyGreedy, layout, layout.TotalCost(o.Settings.BoardCost), stats), nil
}
