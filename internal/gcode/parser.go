package gcode

import (
	"bufio"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType classifies a parsed toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0 positioning
	MoveFeed                    // G1 cutting move in the XY plane
	MovePlunge                  // G1 with Z decreasing only
	MoveRetract                 // Z increasing only
)

func (t MoveType) String() string {
	switch t {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	default:
		return "unknown"
	}
}

// Move is a single G0/G1 command with absolute start and end positions.
type Move struct {
	Type     MoveType
	Line     int // 1-based source line
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	FeedRate float64
}

// Length returns the XY distance travelled.
func (m Move) Length() float64 {
	return math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
}

// Cutting reports whether the tool is below the surface for the whole move.
func (m Move) Cutting() bool {
	return m.Type == MoveFeed && m.FromZ < 0 && m.ToZ < 0
}

var wordRe = regexp.MustCompile(`([XYZF])(-?\d+\.?\d*)`)

// ParseGCode parses GCode into absolute moves, starting from the origin.
// Comments and non-motion commands are skipped.
func ParseGCode(code string) []Move {
	var moves []Move
	var cur Move

	sc := bufio.NewScanner(strings.NewReader(code))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.ToUpper(stripComments(sc.Text()))
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		rapid := fields[0] == "G0" || fields[0] == "G00"
		feed := fields[0] == "G1" || fields[0] == "G01"
		if !rapid && !feed {
			continue
		}

		next := Move{
			Line:     lineNo,
			FromX:    cur.ToX,
			FromY:    cur.ToY,
			FromZ:    cur.ToZ,
			ToX:      cur.ToX,
			ToY:      cur.ToY,
			ToZ:      cur.ToZ,
			FeedRate: cur.FeedRate,
		}
		for _, m := range wordRe.FindAllStringSubmatch(line, -1) {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "X":
				next.ToX = v
			case "Y":
				next.ToY = v
			case "Z":
				next.ToZ = v
			case "F":
				next.FeedRate = v
			}
		}
		next.Type = classifyMove(rapid, next)

		moves = append(moves, next)
		cur = next
	}
	return moves
}

// stripComments removes semicolon and parenthesis comments.
func stripComments(line string) string {
	if i := strings.Index(line, ";"); i >= 0 {
		line = line[:i]
	}
	for {
		open := strings.Index(line, "(")
		if open < 0 {
			break
		}
		end := strings.Index(line[open:], ")")
		if end < 0 {
			line = line[:open]
			break
		}
		line = line[:open] + line[open+end+1:]
	}
	return strings.TrimSpace(line)
}

func classifyMove(rapid bool, m Move) MoveType {
	dz := m.ToZ - m.FromZ
	hasXY := m.FromX != m.ToX || m.FromY != m.ToY

	switch {
	case rapid:
		if dz > 0 {
			return MoveRetract
		}
		return MoveRapid
	case dz < -0.001 && !hasXY:
		return MovePlunge
	case dz > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Summary aggregates a parsed toolpath.
type Summary struct {
	Rapids      int     `json:"rapids"`
	Feeds       int     `json:"feeds"`
	Plunges     int     `json:"plunges"`
	Retracts    int     `json:"retracts"`
	CutLength   float64 `json:"cut_length"`   // XY distance cut below the surface
	RapidLength float64 `json:"rapid_length"` // XY distance travelled in rapids
	MaxDepth    float64 `json:"max_depth"`    // deepest Z, as a positive number
	Duration    float64 `json:"duration_min"` // feed and plunge time in minutes
}

// Summarize counts moves and totals their lengths. Rapid time is not
// included in Duration since it depends on the machine.
func Summarize(moves []Move) Summary {
	var s Summary
	for _, m := range moves {
		switch m.Type {
		case MoveRapid:
			s.Rapids++
			s.RapidLength += m.Length()
		case MoveFeed:
			s.Feeds++
			if m.Cutting() {
				s.CutLength += m.Length()
			}
			if m.FeedRate > 0 {
				s.Duration += m.Length() / m.FeedRate
			}
		case MovePlunge:
			s.Plunges++
			if m.FeedRate > 0 {
				s.Duration += math.Abs(m.ToZ-m.FromZ) / m.FeedRate
			}
		case MoveRetract:
			s.Retracts++
		}
		if -m.ToZ > s.MaxDepth {
			s.MaxDepth = -m.ToZ
		}
	}
	return s
}
