package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/glitch-jump/internal/chance"
	"github.com/vovakirdan/glitch-jump/internal/config"
	"github.com/vovakirdan/glitch-jump/internal/core"
	"github.com/vovakirdan/glitch-jump/internal/platform/audio"
	"github.com/vovakirdan/glitch-jump/internal/platform/tui"
	"github.com/vovakirdan/glitch-jump/internal/run"
)

var (
	flagSound  bool
	flagVolume float64
	flagWatch  bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Glitch Jump",
	Long: `Start the game in this terminal.

Controls:
  Space/Up/W  - Jump
  Enter       - Start (menu) / Retry (game over)
  P/Esc       - Pause / Resume
  R           - Retry (after game over)
  S           - Skin shop (menu and game over)
  Ctrl+S      - Save a screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Scroll speed ramps up at half rate
  normal - Default ramp
  hard   - Scroll speed ramps up twice as fast
  fixed  - No ramp, the whole run stays at base speed

Examples:
  glitchjump play
  glitchjump play --difficulty hard
  glitchjump play --sound --volume 0.5
  glitchjump play --config ./my.yaml --watch
  glitchjump play --seed 42 --profile practice`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagSound, "sound", false, "Play sound effects")
	playCmd.Flags().Float64Var(&flagVolume, "volume", 0.8, "Sound volume from 0 to 1")
	playCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the config file when it changes (applies at the next run)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if f, logErr := openLogFile(); logErr == nil {
		defer f.Close()
		logOut = f
	} else {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", logErr)
	}
	logger := newLogger(logOut, "glitchjump")

	econ, store := openEconomy(cfg, logger)
	if store == nil {
		fmt.Fprintln(os.Stderr, "Warning: could not open profile database, progress will not be saved")
	}

	width, height := terminalSize()
	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	opts := run.Options{
		Config:  cfg,
		Runtime: rt,
		Economy: econ,
		Source:  chance.New(flagSeed),
		Logger:  logger,
		Profile: flagProfile,
	}
	if store != nil {
		opts.Saver = store
	}
	ctrl := run.New(opts)
	rt.TickRate = int(time.Second / ctrl.Step())

	var board *audio.Board
	if flagSound {
		board = startSound(ctrl, logger)
	}

	if flagWatch {
		stop := watchConfig(logger, ctrl.SetConfig)
		defer stop()
	}

	runErr := tui.Run(ctrl, rt)

	// Settle the last run before the database goes away.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctrl.Close(ctx); err != nil {
		logger.Warn("last run was not settled", "error", err)
	}
	if board != nil {
		board.Wait()
	}
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}
	return nil
}

// startSound opens the audio device and plays cues for the controller's
// events. The board stops when the controller closes its bus.
func startSound(ctrl *run.Controller, logger *log.Logger) *audio.Board {
	out, err := audio.OpenSpeaker(audio.DefaultSampleRate)
	if err != nil {
		logger.Warn("sound disabled", "error", err)
		return nil
	}
	board := audio.NewBoard(audio.Options{
		Rate:   audio.DefaultSampleRate,
		Volume: flagVolume,
		Output: out,
		Logger: logger,
	})
	board.Attach(ctrl.Subscribe(64))
	return board
}

// watchConfig follows the config file and hands every valid reload to
// apply. The returned func stops watching.
func watchConfig(logger *log.Logger, apply func(config.GameConfig)) func() {
	path := watchPath()
	if path == "" {
		logger.Warn("no config file to watch")
		return func() {}
	}
	w, err := config.NewWatcher(path)
	if err != nil {
		logger.Warn("config watch disabled", "path", path, "error", err)
		return func() {}
	}
	logger.Info("watching config", "path", w.Path())

	done := make(chan struct{})
	go func() {
		defer close(done)
		updates, errs := w.Updates, w.Errors
		for updates != nil || errs != nil {
			select {
			case cfg, ok := <-updates:
				if !ok {
					updates = nil
					continue
				}
				if err := applyDifficulty(&cfg); err != nil {
					logger.Warn("config reload rejected", "error", err)
					continue
				}
				logger.Info("config reloaded, applies at next run", "path", w.Path())
				apply(cfg)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("config reload failed", "error", err)
			}
		}
	}()

	return func() {
		_ = w.Close()
		<-done
	}
}
