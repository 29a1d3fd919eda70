package gcode

import (
	"fmt"

	"github.com/piwi3910/boardcut/internal/model"
)

// Violation is a cutting move that leaves the usable area of a board.
type Violation struct {
	Board int     `json:"board"`
	Line  int     `json:"line"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// CheckBounds verifies that every move made below the surface stays inside
// the margin of the board, in machine coordinates. Rapids above the surface
// may go anywhere.
func CheckBounds(code string, b *model.Board) []Violation {
	minX := float64(b.Margin)
	minY := float64(b.Margin)
	maxX := float64(b.Width - b.Margin)
	maxY := float64(b.Length - b.Margin)

	inside := func(x, y float64) bool {
		return x >= minX && x <= maxX && y >= minY && y <= maxY
	}

	var violations []Violation
	for _, m := range ParseGCode(code) {
		if m.ToZ >= 0 {
			continue
		}
		if !inside(m.ToX, m.ToY) {
			violations = append(violations, Violation{Board: b.ID, Line: m.Line, X: m.ToX, Y: m.ToY})
			continue
		}
		if m.FromZ < 0 && !inside(m.FromX, m.FromY) {
			violations = append(violations, Violation{Board: b.ID, Line: m.Line, X: m.FromX, Y: m.FromY})
		}
	}
	return violations
}

// CheckSolution generates and checks the program of every board.
func (g *Generator) CheckSolution(sol model.Solution) []Violation {
	var all []Violation
	for _, b := range sol.Boards {
		all = append(all, CheckBounds(g.GenerateBoard(b), b)...)
	}
	return all
}

// FormatViolations produces human-readable warning messages.
func FormatViolations(violations []Violation) []string {
	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, fmt.Sprintf("Board %d, line %d: cut at (%.3f, %.3f) leaves the usable area",
			v.Board+1, v.Line, v.X, v.Y))
	}
	return msgs
}
