package engine

import (
	"math"
	"time"

	"github.com/piwi3910/boardcut/internal/model"
)

// Exhaustive packs every ordering of the pieces with first-fit and keeps the
// cheapest layout. Orderings are visited in lexicographic order of input
// indices and only a strictly cheaper layout replaces the incumbent, so among
// equal costs the earliest ordering wins.
//
// Consecutive orderings share a prefix; only the suffix that changed is
// undone and re-placed.
func (o *Optimizer) Exhaustive(pieces []model.Piece) (model.Solution, error) {
	if err := o.check(pieces); err != nil {
		return model.Solution{}, err
	}
	start := time.Now()

	n := len(pieces)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	moves := make([]Move, n)

	layout := model.NewLayout(o.Settings)
	var best *model.Layout
	bestCost := model.Cost(math.MaxInt64)
	var stats model.SearchStats

	from := 0
	for {
		for i := from; i < n; i++ {
			moves[i] = o.engine.FirstFit(layout, pieces[perm[i]])
		}
		stats.Explored++
		if cost := layout.TotalCost(o.Settings.BoardCost); cost < bestCost {
			bestCost = cost
			best = layout.Clone()
		}

		k := nextPermutation(perm)
		if k < 0 {
			break
		}
		for i := n - 1; i >= k; i-- {
			o.engine.Undo(layout, moves[i])
		}
		from = k
	}

	stats.Elapsed = time.Since(start)
	return model.NewSolution(model.StrategyExhaustive, best, bestCost, stats), nil
}

// nextPermutation rearranges a into the next lexicographic permutation and
// returns the first index that changed, or -1 when a was the last one.
func nextPermutation(a []int) int {
	k := len(a) - 2
	for k >= 0 && a[k] >= a[k+1] {
		k--
	}
	if k < 0 {
		return -1
	}
	l := len(a) - 1
	for a[l] <= a[k] {
		l--
	}
	a[k], a[l] = a[l], a[k]
	for i, j := k+1, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
	return k
}
