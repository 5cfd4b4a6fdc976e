// Package config provides YAML-based configuration for gridmap: map
// defaults, pointer tuning, view zoom presets, storage and logging.
package config

import (
	"fmt"

	"github.com/vovakirdan/gridmap/internal/grid"
	"github.com/vovakirdan/gridmap/internal/pointer"
)

// Config is the full application configuration.
type Config struct {
	Map       MapConfig       `yaml:"map"`
	Pointer   pointer.Config  `yaml:"pointer"`
	View      ViewConfig      `yaml:"view"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Serve     ServeConfig     `yaml:"serve"`
}

// MapConfig holds defaults for new maps and loading policy.
type MapConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Zoom is world units per cell handed to the pointer resolver.
	Zoom float64 `yaml:"zoom"`
	// StrictLoad rejects files whose two grids disagree.
	StrictLoad    bool   `yaml:"strict_load"`
	DefaultFormat string `yaml:"default_format"`
}

// ViewConfig configures terminal rendering.
type ViewConfig struct {
	ZoomPresets []ZoomPreset `yaml:"zoom_presets"`
	DefaultZoom string       `yaml:"default_zoom"`
	// ShowHidden draws walls that have not been revealed yet in explore mode.
	ShowHidden bool `yaml:"show_hidden"`
}

// ZoomPreset is a named display scale: terminal columns and rows per cell.
type ZoomPreset struct {
	Name       string `yaml:"name"`
	CellWidth  int    `yaml:"cell_width"`
	CellHeight int    `yaml:"cell_height"`
}

// StorageConfig configures the map library.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig configures the default logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	EnvFile     string `yaml:"env_file"`
}

// ServeConfig configures the SSH explore server.
type ServeConfig struct {
	Addr        string `yaml:"addr"`
	HostKeyPath string `yaml:"host_key_path"`
	MaxSessions int    `yaml:"max_sessions"`
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if _, err := grid.NewDims(c.Map.Width, c.Map.Height); err != nil {
		return fmt.Errorf("config: map size: %w", err)
	}
	if !(c.Map.Zoom > 0) {
		return fmt.Errorf("config: map.zoom must be positive, got %g", c.Map.Zoom)
	}
	if err := c.Pointer.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if len(c.View.ZoomPresets) == 0 {
		return fmt.Errorf("config: view.zoom_presets is empty")
	}
	seen := make(map[string]bool, len(c.View.ZoomPresets))
	for _, p := range c.View.ZoomPresets {
		if p.Name == "" || seen[p.Name] {
			return fmt.Errorf("config: zoom preset names must be unique and non-empty (%q)", p.Name)
		}
		seen[p.Name] = true
		if p.CellWidth < 2 || p.CellHeight < 2 {
			return fmt.Errorf("config: zoom preset %q needs cell_width >= 2 and cell_height >= 2", p.Name)
		}
	}
	if c.View.DefaultZoom != "" && !seen[c.View.DefaultZoom] {
		return fmt.Errorf("config: default_zoom %q is not a preset", c.View.DefaultZoom)
	}
	if c.Serve.MaxSessions < 0 {
		return fmt.Errorf("config: serve.max_sessions must not be negative")
	}
	return nil
}
