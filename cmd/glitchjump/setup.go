package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
	"github.com/vovakirdan/glitch-jump/internal/economy"
	"github.com/vovakirdan/glitch-jump/internal/storage"
)

// newLogger returns a logger writing to w at the level picked by --verbose.
func newLogger(w io.Writer, prefix string) *log.Logger {
	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// openLogFile opens ~/.glitchjump/glitchjump.log for appending. The
// terminal belongs to the game while it runs, so logs go to a file.
func openLogFile() (io.WriteCloser, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, ".glitchjump")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "glitchjump.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// loadConfig loads the game config and applies --difficulty.
func loadConfig() (config.GameConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, err
	}
	if err := applyDifficulty(&cfg); err != nil {
		return config.GameConfig{}, err
	}
	return cfg, nil
}

func applyDifficulty(cfg *config.GameConfig) error {
	if flagDifficulty == "" {
		return nil
	}
	preset := config.ParsePreset(flagDifficulty)
	if preset == "" {
		return fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}
	config.ApplyPreset(cfg, preset)
	return nil
}

// watchPath returns the file --watch follows.
func watchPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.UserConfigPath()
}

// openEconomy opens the profile database and returns the economy store of
// --profile. When the database cannot be opened the profile lives in memory
// for this process only and the returned *storage.Store is nil.
func openEconomy(cfg config.GameConfig, logger *log.Logger) (*economy.Store, *storage.Store) {
	src := chance.New(flagSeed)
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open profile database, progress will not be saved", "error", err)
		return economy.NewStore(economy.NewMemoryKV(), cfg.Economy, src, logger), nil
	}
	return economy.NewStore(store.Profile(flagProfile), cfg.Economy, src, logger), store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}
