package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/piwi3910/boardcut/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solveWith(t *testing.T, strategy model.Strategy, pieces []model.Piece) model.Solution {
	t.Helper()
	s := model.DefaultSettings()
	s.Strategy = strategy
	sol, err := New(s).Optimize(pieces)
	require.NoError(t, err)
	return sol
}

// verifySolution checks margins, overlaps, piece accounting and the cost
// identity of a solution.
func verifySolution(t *testing.T, s model.Settings, pieces []model.Piece, sol model.Solution) {
	t.Helper()

	seen := make(map[int]int)
	var cut model.Cost
	for bi, b := range sol.Boards {
		require.Equal(t, bi, b.ID, "boards are numbered sequentially")

		cells := 0
		for _, p := range b.Pieces {
			seen[p.ID]++
			cut += s.CutCost(p)
			cells += p.Area()

			assert.True(t, p.Placed)
			assert.Equal(t, b.ID, p.Board)
			assert.GreaterOrEqual(t, p.X, s.Margin, "%s left margin", p)
			assert.GreaterOrEqual(t, p.Y, s.Margin, "%s top margin", p)
			assert.LessOrEqual(t, p.X+p.Width, s.BoardWidth-s.Margin, "%s right margin", p)
			assert.LessOrEqual(t, p.Y+p.Height, s.BoardLength-s.Margin, "%s bottom margin", p)
		}
		// Disjoint rectangles cover exactly the sum of their areas.
		assert.Equal(t, cells, b.OccupiedCells(), "board %d has overlapping pieces", b.ID)

		for i := 0; i < len(b.Pieces); i++ {
			for j := i + 1; j < len(b.Pieces); j++ {
				p, q := b.Pieces[i], b.Pieces[j]
				overlap := p.X < q.X+q.Width && q.X < p.X+p.Width &&
					p.Y < q.Y+q.Height && q.Y < p.Y+p.Height
				assert.False(t, overlap, "%s overlaps %s on board %d", p, q, b.ID)
			}
		}
	}

	require.Len(t, seen, len(pieces), "every piece is placed")
	for _, p := range pieces {
		assert.Equal(t, 1, seen[p.ID], "%s placed once", p)
	}

	expected := model.Cost(len(sol.Boards))*s.BoardCost + cut
	assert.Equal(t, expected, sol.TotalCost)
	assert.Equal(t, cut, sol.CuttingCost())
}

func randomPieces(rng *rand.Rand, n int) []model.Piece {
	return randomPiecesUpTo(rng, n, 200)
}

func randomPiecesUpTo(rng *rand.Rand, n, maxSide int) []model.Piece {
	pieces := make([]model.Piece, n)
	for i := range pieces {
		pieces[i] = model.NewPiece(i, 20+rng.Intn(maxSide-19), 20+rng.Intn(maxSide-19))
	}
	return pieces
}

func TestGreedy_TwoPiecesOneBoard(t *testing.T) {
	pieces := []model.Piece{model.NewPiece(0, 50, 50), model.NewPiece(1, 100, 100)}
	sol := solveWith(t, model.StrategyGreedy, pieces)

	assert.Equal(t, model.Cents(1006), sol.TotalCost)
	require.Equal(t, 1, sol.BoardCount())
	placed := sol.Boards[0].Pieces
	require.Len(t, placed, 2)

	assert.Equal(t, 1, placed[0].ID, "largest piece goes first")
	assert.Equal(t, 10, placed[0].X)
	assert.Equal(t, 10, placed[0].Y)
	assert.Equal(t, 0, placed[1].ID)
	assert.Equal(t, 110, placed[1].X)
	assert.Equal(t, 10, placed[1].Y)
}

func TestGreedy_StableForEqualAreas(t *testing.T) {
	pieces := []model.Piece{
		model.NewPiece(0, 20, 50),
		model.NewPiece(1, 50, 20),
		model.NewPiece(2, 100, 10),
	}
	sol := solveWith(t, model.StrategyGreedy, pieces)
	placed := sol.Boards[0].Pieces
	require.Len(t, placed, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{placed[0].ID, placed[1].ID, placed[2].ID})
}

func TestGreedy_Idempotent(t *testing.T) {
	pieces := randomPieces(rand.New(rand.NewSource(7)), 12)
	first := solveWith(t, model.StrategyGreedy, pieces)
	second := solveWith(t, model.StrategyGreedy, pieces)

	assert.Equal(t, first.TotalCost, second.TotalCost)
	require.Equal(t, first.BoardCount(), second.BoardCount())
	for i := range first.Boards {
		assert.Equal(t, first.Boards[i].Pieces, second.Boards[i].Pieces)
	}
}

func TestEmptyInput(t *testing.T) {
	for _, strategy := range model.Strategies {
		sol := solveWith(t, strategy, nil)
		assert.Equal(t, model.Cents(1000), sol.TotalCost, strategy)
		assert.Equal(t, 1, sol.BoardCount(), strategy)
		assert.Equal(t, 0, sol.PieceCount(), strategy)
	}
}

func TestFullInteriorPieces(t *testing.T) {
	pieces := []model.Piece{model.NewPiece(0, 280, 280), model.NewPiece(1, 280, 280)}
	for _, strategy := range model.Strategies {
		sol := solveWith(t, strategy, pieces)
		assert.Equal(t, 2, sol.BoardCount(), strategy)
		assert.Equal(t, model.Cost(202240), sol.TotalCost, strategy)
		for _, b := range sol.Boards {
			require.Len(t, b.Pieces, 1)
			assert.Equal(t, 10, b.Pieces[0].X)
			assert.Equal(t, 10, b.Pieces[0].Y)
		}
	}
}

func TestOversizedPieceRejected(t *testing.T) {
	opt := New(model.DefaultSettings())
	pieces := []model.Piece{model.NewPiece(0, 10, 10), model.NewPiece(1, 281, 10)}

	_, err := opt.Greedy(pieces)
	assert.True(t, errors.Is(err, model.ErrPieceTooLarge))
	_, err = opt.Exhaustive(pieces)
	assert.True(t, errors.Is(err, model.ErrPieceTooLarge))
	_, err = opt.BranchAndBound(pieces)
	assert.True(t, errors.Is(err, model.ErrPieceTooLarge))
}

func TestOptimize_TooManyPiecesForExactStrategies(t *testing.T) {
	pieces := randomPieces(rand.New(rand.NewSource(1)), 9)

	for _, strategy := range []model.Strategy{model.StrategyExhaustive, model.StrategyBranchAndBound} {
		s := model.DefaultSettings()
		s.Strategy = strategy
		_, err := New(s).Optimize(pieces)
		assert.True(t, errors.Is(err, ErrTooManyPieces), strategy)
	}

	s := model.DefaultSettings()
	s.Strategy = model.StrategyGreedy
	sol, err := New(s).Optimize(pieces)
	require.NoError(t, err)
	verifySolution(t, s, pieces, sol)
}

func TestOptimize_UnknownStrategy(t *testing.T) {
	s := model.DefaultSettings()
	s.Strategy = "genetic"
	_, err := New(s).Optimize(nil)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestExhaustive_VisitsEveryOrdering(t *testing.T) {
	pieces := []model.Piece{
		model.NewPiece(0, 10, 10),
		model.NewPiece(1, 20, 20),
		model.NewPiece(2, 30, 30),
		model.NewPiece(3, 40, 40),
	}
	sol := solveWith(t, model.StrategyExhaustive, pieces)
	assert.Equal(t, 24, sol.Stats.Explored)
	verifySolution(t, model.DefaultSettings(), pieces, sol)
}

func TestExactStrategies_FirstOrderingWinsTies(t *testing.T) {
	pieces := []model.Piece{model.NewPiece(0, 50, 50), model.NewPiece(1, 50, 50)}
	for _, strategy := range []model.Strategy{model.StrategyExhaustive, model.StrategyBranchAndBound} {
		sol := solveWith(t, strategy, pieces)
		require.Len(t, sol.Boards[0].Pieces, 2)
		first := sol.Boards[0].Pieces[0]
		assert.Equal(t, 0, first.ID, strategy)
		assert.Equal(t, 10, first.X, strategy)
		assert.Equal(t, 10, first.Y, strategy)
	}
}

func TestBranchAndBound_Prunes(t *testing.T) {
	pieces := make([]model.Piece, 5)
	for i := range pieces {
		pieces[i] = model.NewPiece(i, 10, 10)
	}
	sol := solveWith(t, model.StrategyBranchAndBound, pieces)
	assert.Equal(t, 1, sol.BoardCount())
	assert.Greater(t, sol.Stats.Pruned, 0)
	// Without pruning the tree has 326 nodes.
	assert.Less(t, sol.Stats.Explored, 326)
}

func TestBranchAndBound_MatchesExhaustive(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	s := model.DefaultSettings()

	for round := 0; round < 25; round++ {
		n := 1 + rng.Intn(6)
		pieces := randomPieces(rng, n)

		exhaustive := solveWith(t, model.StrategyExhaustive, pieces)
		bnb := solveWith(t, model.StrategyBranchAndBound, pieces)
		greedy := solveWith(t, model.StrategyGreedy, pieces)

		verifySolution(t, s, pieces, exhaustive)
		verifySolution(t, s, pieces, bnb)
		verifySolution(t, s, pieces, greedy)

		assert.Equal(t, exhaustive.TotalCost, bnb.TotalCost, "round %d with %d pieces", round, n)
		assert.Equal(t, exhaustive.BoardCount(), bnb.BoardCount(), "round %d", round)
		assert.GreaterOrEqual(t, greedy.TotalCost, exhaustive.TotalCost, "round %d", round)
	}
}

func TestBranchAndBound_EightPieces(t *testing.T) {
	pieces := randomPiecesUpTo(rand.New(rand.NewSource(99)), 8, 140)
	s := model.DefaultSettings()

	exhaustive := solveWith(t, model.StrategyExhaustive, pieces)
	bnb := solveWith(t, model.StrategyBranchAndBound, pieces)

	verifySolution(t, s, pieces, bnb)
	assert.Equal(t, 40320, exhaustive.Stats.Explored)
	assert.Equal(t, exhaustive.TotalCost, bnb.TotalCost)
}

func TestNextPermutation(t *testing.T) {
	a := []int{0, 1, 2}
	var got [][]int
	got = append(got, append([]int(nil), a...))
	for nextPermutation(a) >= 0 {
		got = append(got, append([]int(nil), a...))
	}
	assert.Equal(t, [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}, got)

	assert.Equal(t, -1, nextPermutation(nil))
	assert.Equal(t, -1, nextPermutation([]int{0}))
}
