package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/mapview"
)

var (
	flagAll  bool
	flagZoom string
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a map as text",
	Long: `Print an ASCII rendering of a map. Only visible walls are drawn unless
--all is given.

Examples:
  gridmap show maze.json
  gridmap show maze.json --all --zoom large`,
	Args: cobra.ExactArgs(1),
	Run:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&flagAll, "all", false, "Draw hidden walls too")
	showCmd.Flags().StringVar(&flagZoom, "zoom", "small", "Zoom preset name")
}

func runShow(cmd *cobra.Command, args []string) {
	m, err := formats.Load(cmd.Context(), args[0], cfg.Map.StrictLoad)
	if err != nil {
		fail("%v", err)
	}

	zooms := config.NewZoomCycler(cfg.View.ZoomPresets, cfg.View.DefaultZoom)
	if !zooms.Set(flagZoom) {
		names := make([]string, 0, len(cfg.View.ZoomPresets))
		for _, p := range cfg.View.ZoomPresets {
			names = append(names, p.Name)
		}
		fail("unknown zoom preset %q (have %s)", flagZoom, strings.Join(names, ", "))
	}

	fmt.Println(mapview.Plain(m, zooms.Current(), flagAll || cfg.View.ShowHidden))
	fmt.Println(m)
}
