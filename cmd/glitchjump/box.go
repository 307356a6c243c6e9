package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glitch-jump/internal/economy"
)

var boxCmd = &cobra.Command{
	Use:   "box",
	Short: "Open one mystery box",
	Long: `Open one mystery box of a profile and print what it held.

Boxes are earned during runs, one for every 100 coins collected
(see economy.mystery_box_coins in the config).

Examples:
  glitchjump box
  glitchjump box --profile alice`,
	Args: cobra.NoArgs,
	RunE: runBox,
}

func runBox(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "glitchjump")

	econ, store := openEconomy(cfg, logger)
	if store == nil {
		return fmt.Errorf("profile database unavailable: %s", flagDBPath)
	}
	defer store.Close()

	reward := econ.OpenMysteryBoxReward(context.Background())
	printReward(reward)
	return nil
}

func printReward(r economy.Reward) {
	if !r.Opened {
		fmt.Println("No mystery boxes to open.")
		fmt.Println("Collect coins during a run to earn one.")
		return
	}

	switch r.Kind {
	case economy.RewardSkin:
		fmt.Printf("Unlocked skin: %s\n", r.Skin.Name)
		fmt.Println("Equip it with 'glitchjump shop'.")
	case economy.RewardCoins:
		fmt.Printf("+%d coins\n", r.Coins)
	}
	fmt.Println()
	fmt.Printf("Coins: %d  Boxes left: %d\n", r.Balance, r.Boxes)
}
