package gcode

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/boardcut/internal/model"
)

// Generator produces perimeter-cut GCode for the boards of a solution.
// Board coordinates grow downward from the top-left corner; machine
// coordinates grow upward from the bottom-left, so Y is flipped.
type Generator struct {
	Settings model.GCodeSettings
	profile  Profile
}

func New(settings model.GCodeSettings) *Generator {
	return &Generator{
		Settings: settings,
		profile:  GetProfile(settings.Profile),
	}
}

// NewWithProfile uses the given post-processor instead of looking up
// settings.Profile.
func NewWithProfile(settings model.GCodeSettings, profile Profile) *Generator {
	return &Generator{Settings: settings, profile: profile}
}

// Profile returns the post-processor in use.
func (g *Generator) Profile() Profile {
	return g.profile
}

// GenerateBoard produces GCode for one board's pieces.
func (g *Generator) GenerateBoard(b *model.Board) string {
	var sb strings.Builder

	g.writeHeader(&sb, b)
	for _, p := range b.Pieces {
		g.writePiece(&sb, b, p)
	}
	g.writeFooter(&sb)

	return sb.String()
}

// GenerateAll produces one GCode program per board.
func (g *Generator) GenerateAll(sol model.Solution) []string {
	codes := make([]string, 0, len(sol.Boards))
	for _, b := range sol.Boards {
		codes = append(codes, g.GenerateBoard(b))
	}
	return codes
}

// WriteAll writes one board_<n>.nc file per board into dir and returns the
// paths written.
func (g *Generator) WriteAll(dir string, sol model.Solution) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create gcode directory: %w", err)
	}

	var paths []string
	for i, code := range g.GenerateAll(sol) {
		path := filepath.Join(dir, fmt.Sprintf("board_%d.nc", i+1))
		if err := os.WriteFile(path, []byte(code), 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Passes returns the number of depth passes needed to cut through.
func (g *Generator) Passes() int {
	if g.Settings.PassDepth <= 0 || g.Settings.CutDepth <= g.Settings.PassDepth {
		return 1
	}
	return int(math.Ceil(g.Settings.CutDepth / g.Settings.PassDepth))
}

func (g *Generator) writeHeader(sb *strings.Builder, b *model.Board) {
	p := g.profile

	sb.WriteString(g.comment(fmt.Sprintf("boardcut GCode, board %d", b.ID+1)))
	sb.WriteString(g.comment(fmt.Sprintf("Stock: %d x %d, margin %d", b.Width, b.Length, b.Margin)))
	sb.WriteString(g.comment(fmt.Sprintf("Pieces: %d, Efficiency: %.1f%%", len(b.Pieces), b.Efficiency())))
	sb.WriteString(g.comment(fmt.Sprintf("Feed: %.0f mm/min, Plunge: %.0f mm/min",
		g.Settings.FeedRate, g.Settings.PlungeRate)))
	sb.WriteString(g.comment(fmt.Sprintf("Depth: %.1fmm in %d passes", g.Settings.CutDepth, g.Passes())))
	sb.WriteString(g.comment("Profile: " + p.Name))
	sb.WriteString("\n")

	for _, code := range p.StartCode {
		sb.WriteString(code + "\n")
	}
	if p.SpindleStart != "" {
		sb.WriteString(fmt.Sprintf(p.SpindleStart+"\n", g.Settings.Spindle))
	}

	sb.WriteString(fmt.Sprintf("%s Z%s\n", p.RapidMove, g.format(g.Settings.SafeZ)))
	sb.WriteString(fmt.Sprintf("%s X%s Y%s\n", p.RapidMove, g.format(0), g.format(0)))
	sb.WriteString("\n")
}

func (g *Generator) writeFooter(sb *strings.Builder) {
	p := g.profile

	sb.WriteString(g.comment("=== Job complete ==="))
	if p.SpindleStop != "" {
		sb.WriteString(p.SpindleStop + "\n")
	}
	for _, code := range p.EndCode {
		sb.WriteString(strings.ReplaceAll(code, "[SafeZ]", g.format(g.Settings.SafeZ)) + "\n")
	}
}

// writePiece traces the piece outline clockwise from its top-left corner,
// one loop per depth pass.
func (g *Generator) writePiece(sb *strings.Builder, b *model.Board, p model.Piece) {
	x0 := float64(p.X)
	x1 := float64(p.X + p.Width)
	yTop := float64(b.Length - p.Y)
	yBottom := float64(b.Length - p.Y - p.Height)

	sb.WriteString(g.comment(fmt.Sprintf("--- %s: %d x %d at (%d, %d) ---",
		p.DisplayName(), p.Height, p.Width, p.X, p.Y)))

	passes := g.Passes()
	for pass := 1; pass <= passes; pass++ {
		depth := g.Settings.CutDepth
		if passes > 1 {
			depth = math.Min(float64(pass)*g.Settings.PassDepth, g.Settings.CutDepth)
		}
		sb.WriteString(g.comment(fmt.Sprintf("Pass %d/%d, depth=%.2fmm", pass, passes, depth)))

		sb.WriteString(fmt.Sprintf("%s X%s Y%s\n", g.profile.RapidMove, g.format(x0), g.format(yTop)))
		sb.WriteString(fmt.Sprintf("%s Z%s F%s\n", g.profile.FeedMove, g.format(-depth), g.format(g.Settings.PlungeRate)))

		g.feedTo(sb, x1, yTop)
		g.feedTo(sb, x1, yBottom)
		g.feedTo(sb, x0, yBottom)
		g.feedTo(sb, x0, yTop)

		sb.WriteString(fmt.Sprintf("%s Z%s\n", g.profile.RapidMove, g.format(g.Settings.SafeZ)))
	}
	sb.WriteString("\n")
}

func (g *Generator) feedTo(sb *strings.Builder, x, y float64) {
	sb.WriteString(fmt.Sprintf("%s X%s Y%s F%s\n", g.profile.FeedMove,
		g.format(x), g.format(y), g.format(g.Settings.FeedRate)))
}

func (g *Generator) comment(text string) string {
	return g.profile.CommentPrefix + " " + text + g.profile.CommentSuffix + "\n"
}

// format formats a coordinate according to the profile's decimal places.
func (g *Generator) format(v float64) string {
	return fmt.Sprintf("%.*f", g.profile.DecimalPlaces, v)
}
