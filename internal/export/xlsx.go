package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/boardcut/internal/model"
)

// Sheet names of the exported workbook.
const (
	SheetSummary    = "Summary"
	SheetPlacements = "Placements"
)

// ExportXLSX writes a workbook with a Summary sheet (totals and one row per
// board) and a Placements sheet (one row per piece).
func ExportXLSX(path string, sol model.Solution, settings model.Settings) error {
	if len(sol.Boards) == 0 {
		return ErrNoBoards
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetPlacements); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	summary := [][]interface{}{
		{"Solution", sol.ID},
		{"Strategy", string(sol.Strategy)},
		{"Total Cost", sol.TotalCost.Float()},
		{"Boards Used", sol.BoardCount()},
		{"Pieces Placed", sol.PieceCount()},
		{"Cutting Cost", sol.CuttingCost().Float()},
		{"Efficiency %", sol.TotalEfficiency()},
		{"Explored", sol.Stats.Explored},
		{"Pruned", sol.Stats.Pruned},
		{"Board Size", fmt.Sprintf("%d x %d", settings.BoardWidth, settings.BoardLength)},
		{"Margin", settings.Margin},
		{"Cost per Board", settings.BoardCost.Float()},
		{"Cost per Perimeter Unit", settings.CutRate.Float()},
		{},
		{"Board", "Pieces", "Cutting Cost", "Used Area", "Efficiency %"},
	}
	for _, b := range sol.Boards {
		summary = append(summary, []interface{}{
			b.ID, len(b.Pieces), b.CuttingCost.Float(), b.UsedArea(), b.Efficiency(),
		})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	tableHeader := len(summary) - len(sol.Boards)
	if err := f.SetCellStyle(SheetSummary, "A1", fmt.Sprintf("A%d", tableHeader-2), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	if err := f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", tableHeader), fmt.Sprintf("E%d", tableHeader), bold); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}

	placements := [][]interface{}{
		{"Piece", "Name", "Board", "X", "Y", "Height", "Width", "Perimeter", "Cutting Cost"},
	}
	for _, b := range sol.Boards {
		for _, p := range b.Pieces {
			placements = append(placements, []interface{}{
				p.ID, p.DisplayName(), b.ID, p.X, p.Y, p.Height, p.Width, p.Perimeter(),
				settings.CutCost(p).Float(),
			})
		}
	}
	if err := writeRows(f, SheetPlacements, placements); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetPlacements, "A1", "I1", bold); err != nil {
		return fmt.Errorf("failed to style placements: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to create cell reference: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
