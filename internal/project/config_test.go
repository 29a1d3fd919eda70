package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/boardcut/internal/model"
)

func TestSaveAndLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	settings := model.DefaultSettings()
	settings.Strategy = model.StrategyGreedy
	settings.Margin = 5
	settings.BoardCost = model.Cents(750.5)
	settings.GCode.Profile = "Mach3"

	if err := SaveSettings(path, settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded != settings {
		t.Errorf("expected %+v, got %+v", settings, loaded)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if settings != model.DefaultSettings() {
		t.Errorf("expected defaults, got %+v", settings)
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"strategy":"bnb","cut_rate":0.02}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Strategy != model.StrategyBranchAndBound {
		t.Errorf("expected alias to be normalized, got %q", settings.Strategy)
	}
	if settings.CutRate != 2 {
		t.Errorf("expected cut rate of 2 cents, got %d", settings.CutRate)
	}
	if settings.BoardWidth != 300 || settings.Margin != 10 {
		t.Errorf("expected geometry defaults, got %dx%d margin %d",
			settings.BoardWidth, settings.BoardLength, settings.Margin)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"malformed", "not valid json{{{", "failed to parse"},
		{"unknown strategy", `{"strategy":"annealing"}`, "unknown strategy"},
		{"no usable area", `{"margin":150}`, "no usable area"},
		{"sub-cent rate", `{"cut_rate":0.005}`, "finer than one cent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadSettings(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveSettingsCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	if err := SaveSettings(path, model.DefaultSettings()); err != nil {
		t.Fatalf("SaveSettings should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if filepath.Base(path) != "config.json" || filepath.Base(filepath.Dir(path)) != ".boardcut" {
		t.Errorf("unexpected default path %s", path)
	}
}
