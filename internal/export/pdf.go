// Package export writes solved board layouts to PDF, label sheets, DXF,
// Excel workbooks and HTML comparison charts.
package export

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/boardcut/internal/model"
)

// ErrNoBoards is returned when a solution has nothing to export.
var ErrNoBoards = errors.New("no boards to export")

// pieceColor represents an RGB fill color for a placed piece.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(p model.Piece) pieceColor {
	return pieceColors[p.ID%len(pieceColors)]
}

// Page layout constants (A4 portrait in mm). Boards are square, so portrait
// leaves room for the legend under the drawing.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 10.0
	legendHeight = 40.0
	drawAreaTop  = marginTop + headerHeight + 8.0
)

// ExportPDF renders one page per board followed by a summary page.
func ExportPDF(path string, sol model.Solution, settings model.Settings) error {
	if len(sol.Boards) == 0 {
		return ErrNoBoards
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, b := range sol.Boards {
		pdf.AddPage()
		renderBoardPage(pdf, b)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, sol, settings)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// renderBoardPage draws a single board on the current page: the board, its
// dashed margin, and every piece with its name and size.
func renderBoardPage(pdf *fpdf.Fpdf, b *model.Board) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Board %d (%d x %d) - cutting cost %s", b.ID, b.Width, b.Length, b.CuttingCost)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Pieces: %d | Used area: %d | Usable area: %d | Efficiency: %.1f%%",
		len(b.Pieces), b.UsedArea(), b.UsableArea(), b.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/float64(b.Width), drawHeight/float64(b.Length))

	canvasW := float64(b.Width) * scale
	canvasH := float64(b.Length) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Board
	pdf.SetFillColor(210, 180, 140)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Margin
	m := float64(b.Margin) * scale
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.SetDashPattern([]float64{2, 1.5}, 0)
	pdf.Rect(offsetX+m, offsetY+m, canvasW-2*m, canvasH-2*m, "D")
	pdf.SetDashPattern([]float64{}, 0)

	for _, p := range b.Pieces {
		col := colorFor(p)
		pw := float64(p.Width) * scale
		ph := float64(p.Height) * scale
		px := offsetX + float64(p.X)*scale
		py := offsetY + float64(p.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 8 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			name := p.String()
			dims := fmt.Sprintf("%dx%d", p.Height, p.Width)
			nameW := pdf.GetStringWidth(name)
			dimsW := pdf.GetStringWidth(dims)

			if nameW < pw-1 {
				pdf.SetXY(px+(pw-nameW)/2, py+ph/2-4)
				pdf.CellFormat(nameW, 4, name, "", 0, "C", false, 0, "")
			}
			if ph > 12 && dimsW < pw-1 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, b, offsetX, offsetY, canvasW, canvasH)
	drawPiecesLegend(pdf, b, offsetY+canvasH+8)
}

// drawDimensionAnnotations adds width and length labels outside the board.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, b *model.Board, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d", b.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	lengthLabel := fmt.Sprintf("%d", b.Length)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	lLabelW := pdf.GetStringWidth(lengthLabel)
	pdf.SetXY(offsetX-3-lLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(lLabelW, 4, lengthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawPiecesLegend lists the pieces of a board with position and cost.
func drawPiecesLegend(pdf *fpdf.Fpdf, b *model.Board, startY float64) {
	if len(b.Pieces) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Pieces placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, p := range b.Pieces {
		col := colorFor(p)
		label := fmt.Sprintf("%s %dx%d @ (%d, %d)", p.DisplayName(), p.Height, p.Width, p.X, p.Y)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the totals, the per-board table and the pricing.
func renderSummaryPage(pdf *fpdf.Fpdf, sol model.Solution, settings model.Settings) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Solution", sol.ID},
		{"Strategy", string(sol.Strategy)},
		{"Total Cost", sol.TotalCost.String()},
		{"Boards Used", fmt.Sprintf("%d", sol.BoardCount())},
		{"Pieces Placed", fmt.Sprintf("%d", sol.PieceCount())},
		{"Cutting Cost", sol.CuttingCost().String()},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", sol.TotalEfficiency())},
		{"Explored / Pruned", fmt.Sprintf("%d / %d", sol.Stats.Explored, sol.Stats.Pruned)},
		{"Elapsed", sol.Stats.Elapsed.String()},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Board Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 35, 25, 35, 30, 35}
	headers := []string{"Board", "Dimensions", "Pieces", "Cutting Cost", "Efficiency", "Used Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, b := range sol.Boards {
		if y > pageHeight-marginBottom-40 {
			pdf.AddPage()
			y = marginTop
		}

		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", b.ID),
			fmt.Sprintf("%d x %d", b.Width, b.Length),
			fmt.Sprintf("%d", len(b.Pieces)),
			b.CuttingCost.String(),
			fmt.Sprintf("%.1f%%", b.Efficiency()),
			fmt.Sprintf("%d", b.UsedArea()),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Pricing", "", 0, "L", false, 0, "")
	y += 9

	settingsItems := []struct {
		label string
		value string
	}{
		{"Board Size", fmt.Sprintf("%d x %d", settings.BoardWidth, settings.BoardLength)},
		{"Margin", fmt.Sprintf("%d", settings.Margin)},
		{"Cost per Board", settings.BoardCost.String()},
		{"Cost per Perimeter Unit", settings.CutRate.String()},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range settingsItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(50, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 5, item.value, "", 0, "L", false, 0, "")
		y += 5
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by boardcut", "", 0, "C", false, 0, "")
}

// labelFontSize returns a font size that suits the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 9
	case minDim > 20:
		return 7
	default:
		return 5
	}
}
