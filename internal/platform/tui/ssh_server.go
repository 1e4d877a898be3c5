package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/slidecam/internal/compositor"
	"github.com/vovakirdan/slidecam/internal/core"
	"github.com/vovakirdan/slidecam/internal/game"
	"github.com/vovakirdan/slidecam/internal/puzzle"
	"github.com/vovakirdan/slidecam/internal/registry"
	"github.com/vovakirdan/slidecam/internal/source"
	"github.com/vovakirdan/slidecam/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.slidecam/host_key.
	HostKeyPath string

	// DBPath is the path to the history database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Provider is the image source ID used for every connection.
	Provider string

	// Request is the acquisition request template. Remote is always set.
	Request source.Request

	Levels   []puzzle.Level
	Render   compositor.Options
	AspectW  int
	AspectH  int
	Fill     float64
	TickRate int

	// Logger is used for server and session events. Defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.slidecam/history.db",
		IdleTimeout: 30 * time.Minute,
		Provider:    "pattern",
		Render:      compositor.DefaultOptions(),
		AspectW:     4,
		AspectH:     3,
		Fill:        0.9,
		TickRate:    15,
	}
}

// sessionKey stores the connection's puzzle session in the SSH context.
type sessionKey struct{}

// SSHServer wraps a Wish SSH server that hosts one puzzle session per connection.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "slidecam-ssh",
		})
	}

	if !registry.Exists(cfg.Provider) {
		return nil, fmt.Errorf("%w %q", registry.ErrUnknownProvider, cfg.Provider)
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".slidecam", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a puzzle session and Bubble Tea program for each SSH connection.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	provider, err := registry.Create(s.config.Provider)
	if err != nil {
		s.logger.Error("cannot create provider", "provider", s.config.Provider, "error", err)
		return nil, nil
	}

	logger := s.logger.With("user", sshSession.User())

	var recorder game.Recorder
	if s.store != nil {
		recorder = s.store
	}
	session := game.New(game.Options{
		Levels:   s.config.Levels,
		Provider: provider.ID(),
		Seed:     time.Now().UnixNano(),
		Render:   s.config.Render,
		Recorder: recorder,
		Logger:   logger,
	})
	sshSession.Context().SetValue(sessionKey{}, session)

	req := s.config.Request
	req.Remote = true

	model, err := NewAppModel(Options{
		Session:  session,
		Provider: provider,
		Request:  req,
		Store:    s.store,
		Config: core.RuntimeConfig{
			ScreenW:  pty.Window.Width,
			ScreenH:  pty.Window.Height,
			TickRate: s.config.TickRate,
		},
		AspectW:  s.config.AspectW,
		AspectH:  s.config.AspectH,
		Fill:     s.config.Fill,
		Renderer: bubbletea.MakeRenderer(sshSession),
		Context:  sshSession.Context(),
		Logger:   logger,
	}, "")
	if err != nil {
		s.logger.Error("cannot create session", "error", err)
		return nil, nil
	}

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events and closes the connection's
// puzzle session when the program ends.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		if session, ok := sshSession.Context().Value(sessionKey{}).(*game.Session); ok {
			session.Close()
		}
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "provider", s.config.Provider)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
