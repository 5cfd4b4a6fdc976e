package config

import (
	_ "embed"

	"github.com/vovakirdan/gridmap/internal/pointer"
)

//go:embed defaults/gridmap.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration, used when no file and no
// embedded default can be read.
func Default() Config {
	return Config{
		Map: MapConfig{
			Width:         16,
			Height:        12,
			Zoom:          16,
			StrictLoad:    true,
			DefaultFormat: "json",
		},
		Pointer: pointer.DefaultConfig(),
		View: ViewConfig{
			ZoomPresets: []ZoomPreset{
				{Name: "small", CellWidth: 2, CellHeight: 2},
				{Name: "medium", CellWidth: 4, CellHeight: 2},
				{Name: "large", CellWidth: 6, CellHeight: 3},
			},
			DefaultZoom: "medium",
		},
		Storage: StorageConfig{
			DBPath: "~/.gridmap/library.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "gridmap",
			EnvFile:     ".env",
		},
		Serve: ServeConfig{
			Addr:        ":23235",
			HostKeyPath: ".ssh/gridmap_ed25519",
			MaxSessions: 16,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
