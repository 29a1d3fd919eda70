package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/boardcut/internal/model"
)

// DXF layer names.
const (
	LayerBoard  = "BOARD"
	LayerMargin = "MARGIN"
	LayerPieces = "PIECES"
)

// dxfBoardGap separates consecutive boards in the drawing.
const dxfBoardGap = 20.0

// ExportDXF draws the boards side by side as line rectangles on the BOARD,
// MARGIN and PIECES layers. Board rows grow downwards while DXF Y grows
// upwards, so Y coordinates are flipped against the board length.
func ExportDXF(path string, sol model.Solution) error {
	if len(sol.Boards) == 0 {
		return ErrNoBoards
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerBoard, dxf.DefaultColor},
		{LayerMargin, color.Red},
		{LayerPieces, color.Green},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", l.name, err)
		}
	}

	offsetX := 0.0
	for _, b := range sol.Boards {
		length := float64(b.Length)
		rect := func(x, y, w, h int) error {
			x0 := offsetX + float64(x)
			y0 := length - float64(y+h)
			return drawRect(d, x0, y0, float64(w), float64(h))
		}

		if err := d.ChangeLayer(LayerBoard); err != nil {
			return fmt.Errorf("failed to select layer: %w", err)
		}
		if err := rect(0, 0, b.Width, b.Length); err != nil {
			return err
		}

		if err := d.ChangeLayer(LayerMargin); err != nil {
			return fmt.Errorf("failed to select layer: %w", err)
		}
		if err := rect(b.Margin, b.Margin, b.Width-2*b.Margin, b.Length-2*b.Margin); err != nil {
			return err
		}

		if err := d.ChangeLayer(LayerPieces); err != nil {
			return fmt.Errorf("failed to select layer: %w", err)
		}
		for _, p := range b.Pieces {
			if err := rect(p.X, p.Y, p.Width, p.Height); err != nil {
				return err
			}
		}

		offsetX += float64(b.Width) + dxfBoardGap
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("failed to draw line: %w", err)
		}
	}
	return nil
}
