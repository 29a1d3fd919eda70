package export

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportXLSX_Sheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	sol, settings := buildTestSolution(t)

	if err := ExportXLSX(path, sol, settings); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SheetSummary || sheets[1] != SheetPlacements {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	total, err := f.GetCellValue(SheetSummary, "B3")
	if err != nil {
		t.Fatalf("failed to read total cost: %v", err)
	}
	got, err := strconv.ParseFloat(total, 64)
	if err != nil {
		t.Fatalf("total cost %q is not a number: %v", total, err)
	}
	if got != sol.TotalCost.Float() {
		t.Errorf("expected total %.2f, got %.2f", sol.TotalCost.Float(), got)
	}

	summaryRows, err := f.GetRows(SheetSummary)
	if err != nil {
		t.Fatalf("failed to read summary: %v", err)
	}
	// 13 key/value rows, a blank row, the board table header and one row per board.
	if len(summaryRows) != 15+sol.BoardCount() {
		t.Errorf("expected %d summary rows, got %d", 15+sol.BoardCount(), len(summaryRows))
	}

	rows, err := f.GetRows(SheetPlacements)
	if err != nil {
		t.Fatalf("failed to read placements: %v", err)
	}
	if len(rows) != sol.PieceCount()+1 {
		t.Fatalf("expected %d placement rows, got %d", sol.PieceCount()+1, len(rows))
	}
	if rows[0][0] != "Piece" || rows[0][8] != "Cutting Cost" {
		t.Errorf("unexpected header %v", rows[0])
	}

	first := sol.Boards[0].Pieces[0]
	if rows[1][3] != strconv.Itoa(first.X) || rows[1][4] != strconv.Itoa(first.Y) {
		t.Errorf("expected first placement at (%d, %d), got (%s, %s)", first.X, first.Y, rows[1][3], rows[1][4])
	}
}
