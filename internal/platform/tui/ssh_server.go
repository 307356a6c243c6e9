package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
	"github.com/vovakirdan/glitch-jump/internal/core"
	"github.com/vovakirdan/glitch-jump/internal/economy"
	"github.com/vovakirdan/glitch-jump/internal/run"
	"github.com/vovakirdan/glitch-jump/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.glitchjump/host_key.
	HostKeyPath string

	// DBPath is the path to the profile database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate overrides the configured simulation rate when non-zero.
	TickRate int

	// Game holds the tunables for new sessions.
	Game config.GameConfig

	// Logger receives server and settlement logs. Defaults to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      storage.DefaultPath,
		IdleTimeout: 30 * time.Minute,
		Game:        config.Default(),
	}
}

// SSHServer wraps a Wish SSH server. Every session plays on the economy
// profile named after its SSH user; sessions of one profile share its
// economy store and settlement of all sessions goes through one ledger.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	ledger *run.Ledger
	logger *log.Logger

	mu        sync.Mutex
	game      config.GameConfig
	sessions  map[*run.Controller]struct{}
	economies map[string]*economy.Store
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "glitchjump-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		// Sessions fall back to in-memory profiles.
		logger.Warn("could not open profile database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		ledger:   run.NewLedger(logger),
		logger:   logger,
		game:      cfg.Game,
		sessions:  make(map[*run.Controller]struct{}),
		economies: make(map[string]*economy.Store),
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".glitchjump", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

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

// ProfileName derives an economy profile from an SSH user name.
func ProfileName(user string) string {
	name := strings.ToLower(strings.TrimSpace(user))
	if name == "" {
		return "guest"
	}
	return name
}

// economyFor returns the profile's store, creating it on first use.
// The caller holds s.mu.
func (s *SSHServer) economyFor(profile string) *economy.Store {
	if es, ok := s.economies[profile]; ok {
		return es
	}
	var kv economy.KV = economy.NewMemoryKV()
	if s.store != nil {
		kv = s.store.Profile(profile)
	}
	// The store draws box rewards under its own lock, so it gets its own source.
	es := economy.NewStore(kv, s.game.Economy, chance.New(time.Now().UnixNano()),
		s.logger.With("profile", profile))
	if s.economies == nil {
		s.economies = make(map[string]*economy.Store)
	}
	s.economies[profile] = es
	return es
}

// newController builds the controller for one session.
func (s *SSHServer) newController(profile string) *run.Controller {
	s.mu.Lock()
	game := s.game
	es := s.economyFor(profile)
	s.mu.Unlock()

	var saver run.ResultSaver
	if s.store != nil {
		saver = s.store
	}

	return run.New(run.Options{
		Config:  game,
		Runtime: core.RuntimeConfig{TickRate: s.config.TickRate},
		Economy: es,
		Saver:   saver,
		Ledger:  s.ledger,
		Source:  chance.New(time.Now().UnixNano()),
		Logger:  s.logger.With("profile", profile),
		Profile: profile,
	})
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	ctrl := s.newController(ProfileName(sshSession.User()))
	s.mu.Lock()
	s.sessions[ctrl] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-sshSession.Context().Done()
		s.mu.Lock()
		delete(s.sessions, ctrl)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ctrl.Close(ctx); err != nil {
			s.logger.Warn("session settlement did not finish", "profile", ctrl.Profile(), "error", err)
		}
	}()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: int(time.Second / ctrl.Step()),
	}

	return NewModel(ctrl, cfg), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// SetConfig replaces the tunables for new sessions and stages them for
// the next run of every live session. Profile stores pick up the new
// economy tunables right away.
func (s *SSHServer) SetConfig(cfg config.GameConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game = cfg
	for ctrl := range s.sessions {
		ctrl.SetConfig(cfg)
	}
	for _, es := range s.economies {
		es.SetConfig(cfg.Economy)
	}
}

// Sessions returns the number of live sessions.
func (s *SSHServer) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
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

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

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

// Shutdown stops accepting sessions, settles pending runs and closes storage.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if lerr := s.ledger.Close(ctx); lerr != nil {
		s.logger.Warn("pending settlements dropped", "error", lerr)
	}
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
