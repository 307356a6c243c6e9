package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glitch-jump/internal/platform/tui"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Buy and equip skins, open mystery boxes",
	Long: `Open the skin shop of a profile.

Controls:
  Up/Down/j/k  - Select skin
  Enter/Space  - Buy, or equip an owned skin
  O            - Open a mystery box
  Esc/B        - Leave
  Q            - Quit

Examples:
  glitchjump shop
  glitchjump shop --profile alice`,
	Args: cobra.NoArgs,
	RunE: runShop,
}

func runShop(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "glitchjump")

	econ, store := openEconomy(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	width, height := terminalSize()
	if err := tui.RunShop(econ, width, height); err != nil {
		return fmt.Errorf("error running shop: %w", err)
	}
	return nil
}
