// Package config holds the explorer settings.
package config

import (
	"fmt"
	"path/filepath"
)

// Layout arranges the entry list and the preview pane.
type Layout string

const (
	LayoutAutomatic  Layout = "automatic"
	LayoutHorizontal Layout = "horizontal"
	LayoutVertical   Layout = "vertical"
)

// Layouts lists every layout in display order.
var Layouts = []Layout{LayoutAutomatic, LayoutHorizontal, LayoutVertical}

// IconSet selects the glyphs used for buttons and entry types.
type IconSet string

const (
	IconsASCII IconSet = "ascii"
	IconsEmoji IconSet = "emoji"
)

// IconSets lists every icon set in display order.
var IconSets = []IconSet{IconsASCII, IconsEmoji}

// Config is the full settings file.
type Config struct {
	StartDir      string        `yaml:"start_dir"`
	ResumeLastDir bool          `yaml:"resume_last_dir"`
	ShowHidden    bool          `yaml:"show_hidden"`
	PanelLayout   Layout        `yaml:"panel_layout"`
	Icons         IconSet       `yaml:"icons"`
	Preview       PreviewConfig `yaml:"preview"`
	Log           LogConfig     `yaml:"log"`
	HistoryDB     string        `yaml:"history_db"`

	path string
}

// PreviewConfig controls the preview pane.
type PreviewConfig struct {
	MaxBytes int64  `yaml:"max_bytes"`
	Style    string `yaml:"style"`
	Hash     bool   `yaml:"hash"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() *Config {
	dir := Dir()
	return &Config{
		PanelLayout: LayoutAutomatic,
		Icons:       IconsASCII,
		Preview: PreviewConfig{
			MaxBytes: 256 * 1024,
			Style:    "catppuccin-mocha",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "fexplorer.log"),
		},
		HistoryDB: filepath.Join(dir, "locations.db"),
	}
}

// Path is the file the config was loaded from or will be saved to.
func (c *Config) Path() string { return c.path }

// SetPath changes where Save writes.
func (c *Config) SetPath(path string) { c.path = path }

// Clone returns a copy of c that saves to the same path.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate checks enumerated values and limits.
func (c *Config) Validate() error {
	switch c.PanelLayout {
	case LayoutAutomatic, LayoutHorizontal, LayoutVertical:
	default:
		return fmt.Errorf("invalid panel_layout %q", c.PanelLayout)
	}
	switch c.Icons {
	case IconsASCII, IconsEmoji:
	default:
		return fmt.Errorf("invalid icons %q", c.Icons)
	}
	if c.Preview.MaxBytes <= 0 {
		return fmt.Errorf("preview.max_bytes must be positive, got %d", c.Preview.MaxBytes)
	}
	return nil
}

// Next returns the layout after l, wrapping around.
func (l Layout) Next() Layout {
	for i, v := range Layouts {
		if v == l {
			return Layouts[(i+1)%len(Layouts)]
		}
	}
	return LayoutAutomatic
}

// Next returns the icon set after s, wrapping around.
func (s IconSet) Next() IconSet {
	for i, v := range IconSets {
		if v == s {
			return IconSets[(i+1)%len(IconSets)]
		}
	}
	return IconsASCII
}
