package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads settings from a YAML (.yaml, .yml) or TOML (.toml) file.
// Keys missing from the file keep their defaults, so a generated naty.toml
// is a valid input as well.
func LoadFile(path string) (*AppSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "config file", Err: err}
	}

	s := DefaultSettings()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, &ConfigError{Field: "config file", Err: fmt.Errorf("failed to parse %s: %w", path, err)}
		}
	case ".toml":
		if _, err := toml.Decode(string(data), s); err != nil {
			return nil, &ConfigError{Field: "config file", Err: fmt.Errorf("failed to parse %s: %w", path, err)}
		}
	default:
		return nil, &ConfigError{Field: "config file", Err: fmt.Errorf("unsupported extension %q (use .yaml, .yml or .toml)", ext)}
	}

	if s.OutputDir == "" {
		s.OutputDir = "."
	}
	return s, nil
}

// ReadSnapshot reads a bundle's naty.toml the way the app runtime does,
// applying defaults for missing window fields.
func ReadSnapshot(path string) (Snapshot, error) {
	defaults := DefaultSettings()
	snap := Snapshot{
		Height:    defaults.Height,
		Width:     defaults.Width,
		MaxWidth:  defaults.MaxWidth,
		MaxHeight: defaults.MaxHeight,
	}
	if _, err := toml.DecodeFile(path, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return snap, nil
}
