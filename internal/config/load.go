package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file. Flags are applied
// by the caller. With an empty path the standard locations are searched; an
// explicit path that does not exist yet yields the defaults and becomes the
// save target.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path == "" {
		cfg.path = filepath.Join(Dir(), "config.yaml")
		return cfg, nil
	}
	cfg.path = path

	if err := loadFromFile(cfg, path); err != nil {
		if explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./fexplorer.yaml",
		filepath.Join(Dir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Dir returns the OS-appropriate config directory.
func Dir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "fexplorer")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "fexplorer")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "fexplorer")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "fexplorer")
	}
}

// loadFromFile merges a YAML file into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
