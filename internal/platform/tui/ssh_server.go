package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/gridmap/internal/config"
	"github.com/vovakirdan/gridmap/internal/core"
	"github.com/vovakirdan/gridmap/internal/editor"
	"github.com/vovakirdan/gridmap/internal/grid"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file. It is generated on
	// first start when missing.
	HostKeyPath string

	// MaxSessions caps concurrent sessions; 0 means unlimited.
	MaxSessions int

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// SSHConfigFrom derives the server settings from the application config.
func SSHConfigFrom(cfg config.ServeConfig) SSHServerConfig {
	return SSHServerConfig{
		Address:     cfg.Addr,
		HostKeyPath: cfg.HostKeyPath,
		MaxSessions: cfg.MaxSessions,
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer serves read-only exploration of one map. Every session walks
// its own copy, so reveals never leak between players or back to disk.
type SSHServer struct {
	config SSHServerConfig
	app    config.Config
	server *ssh.Server
	logger *log.Logger
	active atomic.Int64

	mu   sync.RWMutex
	base *grid.Map
}

// NewSSHServer creates a server that hands out copies of m.
func NewSSHServer(cfg SSHServerConfig, app config.Config, m *grid.Map) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridmap-ssh",
	})

	srv := &SSHServer{
		config: cfg,
		app:    app,
		logger: logger,
		base:   m.Clone(),
	}

	hostKeyPath, err := config.ExpandHome(cfg.HostKeyPath)
	if err != nil {
		return nil, fmt.Errorf("ssh: %w", err)
	}
	if hostKeyPath == "" {
		return nil, errors.New("ssh: host key path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("ssh: cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.limitMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("ssh: cannot create server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// SetMap replaces the map handed to new sessions. Running sessions keep
// the copy they started with.
func (s *SSHServer) SetMap(m *grid.Map) {
	s.mu.Lock()
	s.base = m.Clone()
	s.mu.Unlock()
	s.logger.Info("map updated", "map", m)
}

func (s *SSHServer) snapshot() *grid.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base.Clone()
}

// teaHandler creates an explorer for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	session := editor.NewSession(s.snapshot(), editor.Options{StrictLoad: s.app.Map.StrictLoad})
	model, err := NewModel(sshSession.Context(), session, Options{
		Config:   s.app,
		ReadOnly: true,
		Runtime:  core.RuntimeConfig{ScreenW: pty.Window.Width, ScreenH: pty.Window.Height},
	})
	if err != nil {
		s.logger.Error("cannot build session", "user", sshSession.User(), "error", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// limitMiddleware turns sessions away once MaxSessions are running.
func (s *SSHServer) limitMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		n := s.active.Add(1)
		defer s.active.Add(-1)
		if s.config.MaxSessions > 0 && n > int64(s.config.MaxSessions) {
			s.logger.Warn("session rejected", "user", sshSession.User(), "active", n-1)
			wish.Fatalln(sshSession, "gridmap: server is full, try again later")
			return
		}
		next(sshSession)
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// Active returns the number of sessions currently connected.
func (s *SSHServer) Active() int {
	return int(s.active.Load())
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled
// or the process receives an interrupt.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	case <-ctx.Done():
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
