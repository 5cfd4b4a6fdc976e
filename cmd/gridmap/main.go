// gridmap edits and explores wall maps drawn on a square lattice.
//
// Usage:
//
//	gridmap new <file>            - Create a blank map file
//	gridmap edit [file]           - Draw walls with the mouse or keyboard
//	gridmap explore <file>        - Walk a map, revealing walls as you go
//	gridmap show <file>           - Print a map as text
//	gridmap check <file>          - Validate a map file
//	gridmap convert <in> <out>    - Re-encode a map in another format
//	gridmap library ...           - Manage the SQLite map library
//	gridmap serve <file>          - Explore a map over SSH
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.gridmap/config.yaml, ./configs/gridmap.yaml)
//	--db <path>         - Library database path
//	--log-level <lvl>   - debug, info, warn or error
//	--trace             - Export OpenTelemetry traces
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/registry"
	"github.com/vovakirdan/gridmap/internal/telemetry"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagTrace    bool

	// cfg is the loaded configuration with flag overrides applied.
	cfg config.Config

	shutdownTelemetry func(context.Context) error
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gridmap",
	Short: "gridmap - draw and explore wall maps in your terminal",
	Long: `gridmap keeps maps of walls laid on a square lattice. Every map is stored
as two grids, one of wall segments and one of per-cell wall flags, and
the two are always edited together.

Available commands:
  new      - Create a blank map file
  edit     - Interactive editor (mouse drag draws walls)
  explore  - Walk a map with the arrow keys
  show     - Print an ASCII rendering
  check    - Structural and consistency validation
  convert  - Re-encode between registered formats
  formats  - List registered map formats
  library  - SQLite map library
  serve    - Explore a map over SSH

Examples:
  gridmap new dungeon.json --width 20 --height 12 --border
  gridmap edit dungeon.json --watch
  gridmap show dungeon.json --all
  gridmap library save crypt dungeon.json`,
	PersistentPreRun:  setup,
	PersistentPostRun: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the map library database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagTrace, "trace", false, "Export OpenTelemetry traces")

	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(formatsCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads configuration and wires logging and tracing for every command.
func setup(cmd *cobra.Command, _ []string) {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		fail("loading config: %v", err)
	}
	if flagDBPath != "" {
		loaded.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if flagTrace {
		loaded.Telemetry.Enabled = true
	}

	level, err := log.ParseLevel(loaded.Log.Level)
	if err != nil {
		fail("invalid log level %q", loaded.Log.Level)
	}
	log.SetLevel(level)
	log.SetPrefix("gridmap")
	cfg = loaded

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(cmd.Context(), telemetry.Options{
			ServiceName: cfg.Telemetry.ServiceName,
			EnvFile:     cfg.Telemetry.EnvFile,
		})
		if err != nil {
			log.Warn("tracing disabled", "error", err)
			return
		}
		shutdownTelemetry = shutdown
	}
}

func teardown(_ *cobra.Command, _ []string) {
	if shutdownTelemetry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTelemetry(ctx); err != nil {
		log.Warn("flushing traces", "error", err)
	}
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// terminalSize returns the current terminal size, or the defaults when
// stdout is not a terminal.
func terminalSize() core.RuntimeConfig {
	rc := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rc.ScreenW, rc.ScreenH = w, h
	}
	return rc
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// withDefaultExt appends the default format's extension to a path that has
// none.
func withDefaultExt(path string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	codec, err := registry.Create(cfg.Map.DefaultFormat)
	if err != nil || len(codec.Extensions()) == 0 {
		return path
	}
	return path + codec.Extensions()[0]
}
