package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/gridmap/internal/formats"
	"github.com/vovakirdan/gridmap/internal/platform/tui"
	"github.com/vovakirdan/gridmap/internal/watch"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Explore a map over SSH",
	Long: `Serve a map for exploration over SSH. Every connection walks its own copy,
so reveals never reach the file or other players.

Examples:
  gridmap serve maze.json
  gridmap serve maze.json --ssh :2222 --watch
  ssh -p 23235 localhost`,
	Args: cobra.ExactArgs(1),
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (default from config)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Idle connection timeout")
	serveCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", -1, "Concurrent session cap, 0 for none (default from config)")
	serveCmd.Flags().BoolVar(&flagWatch, "watch", false, "Serve the new map to new sessions when the file changes")
}

func runServe(cmd *cobra.Command, args []string) {
	path := args[0]
	m, err := formats.Load(cmd.Context(), path, cfg.Map.StrictLoad)
	if err != nil {
		fail("%v", err)
	}

	sshCfg := tui.SSHConfigFrom(cfg.Serve)
	if flagSSHAddr != "" {
		sshCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		sshCfg.HostKeyPath = flagHostKey
	}
	if flagMaxSessions >= 0 {
		sshCfg.MaxSessions = flagMaxSessions
	}
	sshCfg.IdleTimeout = flagIdleTimeout

	server, err := tui.NewSSHServer(sshCfg, cfg, m)
	if err != nil {
		fail("%v", err)
	}

	if flagWatch {
		w, err := watch.New(path, watch.DefaultDebounce)
		if err != nil {
			fail("watching %s: %v", path, err)
		}
		defer w.Close()
		go followFile(cmd, w, server)
	}

	fmt.Printf("Serving %s (%s) on %s\n", path, m, server.Addr())
	fmt.Println("Press Ctrl+C to stop")
	if err := server.ListenAndServe(cmd.Context()); err != nil {
		fail("%v", err)
	}
}

// followFile hands every successfully loaded version of the file to the
// server. Versions that fail to load are logged and skipped.
func followFile(cmd *cobra.Command, w *watch.Watcher, server *tui.SSHServer) {
	for {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return
			}
			m, err := formats.Load(cmd.Context(), path, cfg.Map.StrictLoad)
			if err != nil {
				log.Warn("ignoring changed map", "path", path, "error", err)
				continue
			}
			server.SetMap(m)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", "error", err)
		}
	}
}
