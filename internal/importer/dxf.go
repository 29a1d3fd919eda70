package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/boardcut/internal/model"
)

// dxfTolerance is the endpoint distance under which loose LINE entities are
// considered connected, and the slack allowed before rounding a size up.
const dxfTolerance = 0.01

type point struct {
	X, Y float64
}

// segment represents a line segment between two points, used for chaining
// disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// bounds is the axis-aligned bounding box of one shape.
type bounds struct {
	min, max point
}

func (b bounds) width() float64  { return b.max.X - b.min.X }
func (b bounds) height() float64 { return b.max.Y - b.min.Y }
func (b bounds) area() float64   { return b.width() * b.height() }

func boundsOf(pts []point) bounds {
	b := bounds{min: pts[0], max: pts[0]}
	for _, p := range pts[1:] {
		b.min.X = math.Min(b.min.X, p.X)
		b.min.Y = math.Min(b.min.Y, p.Y)
		b.max.X = math.Max(b.max.X, p.X)
		b.max.Y = math.Max(b.max.Y, p.Y)
	}
	return b
}

// ImportDXF imports pieces from a DXF file. Every closed shape (closed
// LWPOLYLINE, CIRCLE, or chain of connected LINEs) becomes one piece whose size is its
// bounding box rounded up to whole units. DXF Y grows upwards, so the box
// extent along Y is the piece height.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []bounds
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			pts := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				pts[i] = point{X: v[0], Y: v[1]}
			}
			if !e.Closed && !pointsClose(pts[0], pts[len(pts)-1], dxfTolerance) {
				result.Warnings = append(result.Warnings, "Skipped open LWPOLYLINE")
				continue
			}
			shapes = append(shapes, boundsOf(pts))

		case *entity.Circle:
			c := point{X: e.Center[0], Y: e.Center[1]}
			r := e.Radius
			shapes = append(shapes, bounds{
				min: point{X: c.X - r, Y: c.Y - r},
				max: point{X: c.X + r, Y: c.Y + r},
			})

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped
		}
	}

	closed, open := chainSegments(segments, dxfTolerance)
	for _, chain := range closed {
		shapes = append(shapes, boundsOf(chain))
	}
	if open > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d open LINE chains", open))
	}

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for _, b := range shapes {
		if b.width() < dxfTolerance || b.height() < dxfTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", b.height(), b.width()))
			continue
		}
		p := model.NewPiece(len(result.Pieces), roundUp(b.height()), roundUp(b.width()))
		p.Label = fmt.Sprintf("DXF %d", len(result.Pieces)+1)
		result.Pieces = append(result.Pieces, p)
	}

	return result
}

// roundUp rounds a drawing size up to whole units, ignoring float noise.
func roundUp(v float64) int {
	return int(math.Ceil(v - dxfTolerance))
}

// chainSegments connects individual segments into closed outlines, largest
// first, and reports how many chains stayed open.
func chainSegments(segs []segment, tolerance float64) ([][]point, int) {
	used := make([]bool, len(segs))
	var closed [][]point
	open := 0

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []point{segs[start].start, segs[start].end}

		for changed := true; changed; {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start, tolerance):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end, tolerance):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				changed = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			closed = append(closed, chain[:len(chain)-1])
		} else {
			open++
		}
	}

	sort.SliceStable(closed, func(i, j int) bool {
		return boundsOf(closed[i]).area() > boundsOf(closed[j]).area()
	})
	return closed, open
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
