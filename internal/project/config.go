package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/boardcut/internal/model"
)

// DefaultConfigDir returns the default directory for application files.
// On all platforms this is ~/.boardcut/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".boardcut")
}

// DefaultConfigPath returns the default path for the settings file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveSettings persists settings to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveSettings(path string, settings model.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSettings reads settings from the given path. Keys missing from the
// file keep their default values. If the file does not exist, it returns
// DefaultSettings with no error.
func LoadSettings(path string) (model.Settings, error) {
	settings := model.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return model.Settings{}, err
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return model.Settings{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	strategy, ok := model.ParseStrategy(string(settings.Strategy))
	if !ok {
		return model.Settings{}, fmt.Errorf("%s: unknown strategy %q", path, settings.Strategy)
	}
	settings.Strategy = strategy
	if err := settings.Validate(); err != nil {
		return model.Settings{}, fmt.Errorf("%s: %w", path, err)
	}
	return settings, nil
}
