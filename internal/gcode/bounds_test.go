package gcode

import (
	"strings"
	"testing"

	"github.com/piwi3910/boardcut/internal/model"
)

func TestCheckBounds_GeneratedProgramIsInside(t *testing.T) {
	sol := newTestSolution(t)
	gen := New(model.DefaultSettings().GCode)

	if v := gen.CheckSolution(sol); len(v) != 0 {
		t.Errorf("expected no violations, got %v", FormatViolations(v))
	}
}

func TestCheckBounds_CutIntoMargin(t *testing.T) {
	b := model.NewBoard(0, model.DefaultSettings())
	code := `G0 X5 Y20
G0 Z5
G1 Z-6 F500
G1 X100 Y20 F1500
G0 Z5
G0 X0 Y0
`
	v := CheckBounds(code, b)
	if len(v) != 2 {
		t.Fatalf("expected 2 violations, got %d: %v", len(v), v)
	}
	// The plunge lands at x=5, then the feed starts there.
	if v[0].Line != 3 || v[0].X != 5 {
		t.Errorf("unexpected first violation %+v", v[0])
	}
	if v[1].Line != 4 || v[1].X != 5 {
		t.Errorf("unexpected second violation %+v", v[1])
	}
}

func TestCheckBounds_RapidsIgnored(t *testing.T) {
	b := model.NewBoard(0, model.DefaultSettings())
	code := "G0 Z5\nG0 X-50 Y400\nG0 X0 Y0\n"
	if v := CheckBounds(code, b); len(v) != 0 {
		t.Errorf("expected rapids above the surface to be ignored, got %v", v)
	}
}

func TestFormatViolations(t *testing.T) {
	msgs := FormatViolations([]Violation{{Board: 1, Line: 12, X: 295, Y: 40}})
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0], "Board 2") || !strings.Contains(msgs[0], "line 12") {
		t.Errorf("unexpected message %q", msgs[0])
	}
}
