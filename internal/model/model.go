package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidPiece is returned for pieces with a non-positive dimension.
	ErrInvalidPiece = errors.New("invalid piece")
	// ErrPieceTooLarge is returned for pieces that cannot fit the usable
	// interior of an empty board.
	ErrPieceTooLarge = errors.New("piece does not fit on a board")
)

// Piece represents a rectangular part to be cut from a board.
// Pieces are values: the copy stored on a Board carries the placement.
type Piece struct {
	ID     int    `json:"id"`
	Label  string `json:"label,omitempty"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Board  int    `json:"board"`
	Placed bool   `json:"placed"`
}

func NewPiece(id, height, width int) Piece {
	return Piece{ID: id, Height: height, Width: width}
}

// Perimeter returns 2×(height+width).
func (p Piece) Perimeter() int {
	return 2 * (p.Height + p.Width)
}

// Area returns height×width.
func (p Piece) Area() int {
	return p.Height * p.Width
}

func (p Piece) String() string {
	return fmt.Sprintf("P%d", p.ID)
}

// DisplayName returns the label when one was imported, otherwise P{id}.
func (p Piece) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.String()
}

// Board is one square stock sheet with its occupancy grid.
type Board struct {
	ID          int     `json:"id"`
	Width       int     `json:"width"`
	Length      int     `json:"length"`
	Margin      int     `json:"margin"`
	Pieces      []Piece `json:"pieces"`
	CuttingCost Cost    `json:"cutting_cost"`

	grid []bool // row-major, Length rows of Width cells
}

// NewBoard creates an empty board with the geometry from settings.
func NewBoard(id int, s Settings) *Board {
	return &Board{
		ID:     id,
		Width:  s.BoardWidth,
		Length: s.BoardLength,
		Margin: s.Margin,
		Pieces: []Piece{},
		grid:   make([]bool, s.BoardWidth*s.BoardLength),
	}
}

// Occupied reports whether the cell at column x, row y is covered.
func (b *Board) Occupied(x, y int) bool {
	return b.grid[y*b.Width+x]
}

// Fill sets every cell of the rectangle [y,y+h)×[x,x+w) to v.
func (b *Board) Fill(x, y, w, h int, v bool) {
	for i := y; i < y+h; i++ {
		row := b.grid[i*b.Width : (i+1)*b.Width]
		for j := x; j < x+w; j++ {
			row[j] = v
		}
	}
}

// OccupiedCells counts the covered cells.
func (b *Board) OccupiedCells() int {
	n := 0
	for _, c := range b.grid {
		if c {
			n++
		}
	}
	return n
}

// UsableArea is the area inside the margin.
func (b *Board) UsableArea() int {
	return (b.Width - 2*b.Margin) * (b.Length - 2*b.Margin)
}

// UsedArea returns the total area of placed pieces.
func (b *Board) UsedArea() int {
	total := 0
	for _, p := range b.Pieces {
		total += p.Area()
	}
	return total
}

// Efficiency returns the percentage of the usable area covered by pieces.
func (b *Board) Efficiency() float64 {
	ua := b.UsableArea()
	if ua <= 0 {
		return 0
	}
	return float64(b.UsedArea()) / float64(ua) * 100.0
}

// Clone returns a deep copy of the board, grid included.
func (b *Board) Clone() *Board {
	cp := *b
	cp.Pieces = append([]Piece(nil), b.Pieces...)
	cp.grid = append([]bool(nil), b.grid...)
	return &cp
}

// Layout is one candidate board configuration.
type Layout struct {
	Boards []*Board `json:"boards"`
}

// NewLayout returns a layout holding a single empty board.
func NewLayout(s Settings) *Layout {
	return &Layout{Boards: []*Board{NewBoard(0, s)}}
}

// CuttingCost sums the cutting cost of all boards.
func (l *Layout) CuttingCost() Cost {
	var total Cost
	for _, b := range l.Boards {
		total += b.CuttingCost
	}
	return total
}

// TotalCost returns boards×boardCost plus the cutting costs.
func (l *Layout) TotalCost(boardCost Cost) Cost {
	return Cost(len(l.Boards))*boardCost + l.CuttingCost()
}

// PieceCount returns the number of placed pieces across all boards.
func (l *Layout) PieceCount() int {
	n := 0
	for _, b := range l.Boards {
		n += len(b.Pieces)
	}
	return n
}

// Clone deep-copies every board.
func (l *Layout) Clone() *Layout {
	cp := &Layout{Boards: make([]*Board, len(l.Boards))}
	for i, b := range l.Boards {
		cp.Boards[i] = b.Clone()
	}
	return cp
}

// Strategy names a solving strategy.
type Strategy string

const (
	StrategyExhaustive     Strategy = "exhaustive"       // All permutations, exact
	StrategyBranchAndBound Strategy = "branch-and-bound" // Pruned tree search, exact
	StrategyGreedy         Strategy = "greedy"           // First-fit by descending area
)

// Strategies lists all strategies in presentation order.
var Strategies = []Strategy{StrategyExhaustive, StrategyBranchAndBound, StrategyGreedy}

func (s Strategy) Exact() bool {
	return s == StrategyExhaustive || s == StrategyBranchAndBound
}

// ParseStrategy accepts the strategy names plus a few short aliases.
func ParseStrategy(name string) (Strategy, bool) {
	switch name {
	case "exhaustive", "brute-force", "bf":
		return StrategyExhaustive, true
	case "branch-and-bound", "bnb", "bb":
		return StrategyBranchAndBound, true
	case "greedy", "heuristic":
		return StrategyGreedy, true
	default:
		return "", false
	}
}

// SearchStats describes the work done by a strategy.
type SearchStats struct {
	Explored int           `json:"explored"` // permutations or search nodes
	Pruned   int           `json:"pruned"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Solution holds the best configuration found by a strategy.
type Solution struct {
	ID        string      `json:"id"`
	Strategy  Strategy    `json:"strategy"`
	Boards    []*Board    `json:"boards"`
	TotalCost Cost        `json:"total_cost"`
	Stats     SearchStats `json:"stats"`
}

func NewSolution(strategy Strategy, layout *Layout, total Cost, stats SearchStats) Solution {
	return Solution{
		ID:        uuid.New().String()[:8],
		Strategy:  strategy,
		Boards:    layout.Boards,
		TotalCost: total,
		Stats:     stats,
	}
}

// BoardCount returns the number of boards used.
func (s Solution) BoardCount() int {
	return len(s.Boards)
}

// PieceCount returns the number of placed pieces.
func (s Solution) PieceCount() int {
	n := 0
	for _, b := range s.Boards {
		n += len(b.Pieces)
	}
	return n
}

// CuttingCost sums the cutting cost of all boards.
func (s Solution) CuttingCost() Cost {
	var total Cost
	for _, b := range s.Boards {
		total += b.CuttingCost
	}
	return total
}

// TotalEfficiency returns the usable-area coverage across all boards.
func (s Solution) TotalEfficiency() float64 {
	var used, usable int
	for _, b := range s.Boards {
		used += b.UsedArea()
		usable += b.UsableArea()
	}
	if usable == 0 {
		return 0
	}
	return float64(used) / float64(usable) * 100.0
}
