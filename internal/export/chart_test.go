package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/boardcut/internal/engine"
	"github.com/piwi3910/boardcut/internal/model"
)

func TestRenderComparisonChart(t *testing.T) {
	pieces := []model.Piece{model.NewPiece(0, 100, 100), model.NewPiece(1, 50, 50)}
	results, err := engine.CompareStrategies(model.DefaultSettings(), pieces)
	if err != nil {
		t.Fatalf("CompareStrategies returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := RenderComparisonChart(&buf, results); err != nil {
		t.Fatalf("RenderComparisonChart returned error: %v", err)
	}

	html := buf.String()
	for _, want := range []string{"Strategy comparison", "Branch and Bound", "Greedy", "Total cost", "1006"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected chart to contain %q", want)
		}
	}
}

func TestRenderComparisonChart_AllSkipped(t *testing.T) {
	var buf bytes.Buffer
	err := RenderComparisonChart(&buf, []engine.ComparisonResult{{Skipped: true}})
	if err == nil {
		t.Fatal("expected error when every scenario was skipped")
	}
}

func TestExportComparisonChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.html")
	results, err := engine.CompareStrategies(model.DefaultSettings(), []model.Piece{model.NewPiece(0, 10, 10)})
	if err != nil {
		t.Fatalf("CompareStrategies returned error: %v", err)
	}

	if err := ExportComparisonChart(path, results); err != nil {
		t.Fatalf("ExportComparisonChart returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("chart was not written: %v", err)
	}
	if !strings.Contains(string(data), "<html") {
		t.Error("expected an HTML page")
	}
}
