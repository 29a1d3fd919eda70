package export

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/piwi3910/boardcut/internal/engine"
	"github.com/piwi3910/boardcut/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	sol, _ := buildTestSolution(t)

	if err := ExportLabels(path, sol); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestExportLabels_NoPieces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.pdf")

	sol, err := engine.New(model.DefaultSettings()).Greedy(nil)
	if err != nil {
		t.Fatalf("Greedy returned error: %v", err)
	}
	if err := ExportLabels(path, sol); err == nil {
		t.Fatal("expected error for a solution without pieces, got nil")
	}
}

func TestExportLabels_ManyPieces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many_labels.pdf")
	settings := model.DefaultSettings()

	// 35 labels span two label pages.
	pieces := make([]model.Piece, 35)
	for i := range pieces {
		pieces[i] = model.NewPiece(i, 20+i, 30)
	}
	sol, err := engine.New(settings).Greedy(pieces)
	if err != nil {
		t.Fatalf("Greedy returned error: %v", err)
	}
	if err := ExportLabels(path, sol); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestCollectLabelInfos(t *testing.T) {
	sol, _ := buildTestSolution(t)
	labels := CollectLabelInfos(sol)

	if len(labels) != sol.PieceCount() {
		t.Fatalf("expected %d labels, got %d", sol.PieceCount(), len(labels))
	}

	first := sol.Boards[0].Pieces[0]
	if labels[0].PieceID != first.ID || labels[0].X != first.X || labels[0].Y != first.Y {
		t.Errorf("first label %+v does not match first piece %+v", labels[0], first)
	}
	if labels[0].Solution != sol.ID {
		t.Errorf("expected solution ID %q, got %q", sol.ID, labels[0].Solution)
	}

	foundNamed := false
	for _, l := range labels {
		if l.PieceID == 3 {
			foundNamed = l.Name == "Side Panel"
		}
		if l.Name == "" {
			t.Errorf("label for piece %d has no name", l.PieceID)
		}
	}
	if !foundNamed {
		t.Error("expected imported label to be used as the name")
	}

	last := labels[len(labels)-1]
	if last.Board != sol.BoardCount()-1 {
		t.Errorf("expected last label on board %d, got %d", sol.BoardCount()-1, last.Board)
	}
}

func TestLabelInfo_JSONFields(t *testing.T) {
	data, err := json.Marshal(LabelInfo{PieceID: 4, Name: "P4", Height: 20, Width: 30, Board: 1, X: 10, Y: 40})
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"solution", "piece", "name", "height", "width", "board", "x", "y"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
}
