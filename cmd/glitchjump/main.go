// glitchjump is a side-scrolling reflex game for the terminal.
//
// Usage:
//
//	glitchjump play          - Play in this terminal
//	glitchjump serve         - Start SSH server for remote play
//	glitchjump stats         - Show run history and totals
//	glitchjump shop          - Buy and equip skins, open mystery boxes
//	glitchjump box           - Open one mystery box
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: from config, 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.glitchjump/glitchjump.db)
//	--config <path>       - Use a custom config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--profile <name>      - Economy profile (default: local)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glitch-jump/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagProfile    string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "glitchjump",
	Short: "Glitch Jump - dodge the glitches in your terminal",
	Long: `Glitch Jump is a side-scrolling reflex game played in the terminal.
Jump through spikes, blocks and slalom gates, collect stars and power-ups,
and spend the coins you earn on skins.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  stats    - Show run history and totals
  shop     - Buy and equip skins, open mystery boxes
  box      - Open one mystery box

Examples:
  glitchjump play
  glitchjump play --difficulty hard --sound
  glitchjump serve --ssh :2222
  glitchjump stats --profile alice
  glitchjump box`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second, 0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to profile database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "local", "Economy profile name")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(boxCmd)
}
