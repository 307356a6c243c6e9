package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/glitch-jump/internal/platform/tui"
	"github.com/vovakirdan/glitch-jump/internal/storage"
)

var (
	flagStatsLimit       int
	flagStatsInteractive bool
	flagStatsAll         bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show run history and totals",
	Long: `Display the best runs and lifetime totals of a profile.

Examples:
  glitchjump stats
  glitchjump stats --profile alice --limit 20
  glitchjump stats --all
  glitchjump stats -i`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of runs to show")
	statsCmd.Flags().BoolVarP(&flagStatsInteractive, "interactive", "i", false, "Browse profiles in a table view")
	statsCmd.Flags().BoolVar(&flagStatsAll, "all", false, "List every profile with its totals")
}

func runStats(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening profile database: %w", err)
	}
	defer store.Close()

	if flagStatsInteractive {
		width, height := terminalSize()
		return tui.RunStats(store, flagProfile, width, height)
	}

	ctx := context.Background()
	if flagStatsAll {
		return printProfiles(ctx, store)
	}
	return printRuns(ctx, store, flagProfile, flagStatsLimit)
}

func printRuns(ctx context.Context, store *storage.Store, profile string, limit int) error {
	runs, err := store.TopRuns(ctx, profile, limit)
	if err != nil {
		return fmt.Errorf("error retrieving runs: %w", err)
	}

	fmt.Printf("Best runs - %s\n", profile)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'glitchjump play' to set the first record!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-5s  %-5s  %s\n", "Rank", "Score", "Coins", "Stars", "Near", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-5s  %-5s  %s\n", "----", "-----", "-----", "-----", "----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-6d  %-5d  %-5d  %s\n",
			i+1, r.Score, r.Coins, r.Stars, r.NearMisses, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.ProfileStats(ctx, profile)
	if err == nil {
		fmt.Println()
		fmt.Printf("Runs: %d  Best: %d  Average: %.1f\n", stats.Runs, stats.BestScore, stats.AvgScore)
		fmt.Printf("Coins earned: %d  Stars: %d  Near misses: %d\n", stats.TotalCoins, stats.Stars, stats.NearMisses)
	}
	return nil
}

func printProfiles(ctx context.Context, store *storage.Store) error {
	profiles, err := store.Profiles(ctx)
	if err != nil {
		return fmt.Errorf("error listing profiles: %w", err)
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles yet.")
		return nil
	}

	maxLen := len("Profile")
	for _, p := range profiles {
		maxLen = max(maxLen, len(p))
	}

	fmt.Printf("  %-*s  %-5s  %-8s  %s\n", maxLen, "Profile", "Runs", "Best", "Last played")
	fmt.Printf("  %-*s  %-5s  %-8s  %s\n", maxLen, "-------", "----", "----", "-----------")
	for _, p := range profiles {
		stats, err := store.ProfileStats(ctx, p)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", p, err)
		}
		last := "-"
		if !stats.LastPlayed.IsZero() {
			last = stats.LastPlayed.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-*s  %-5d  %-8d  %s\n", maxLen, p, stats.Runs, stats.BestScore, last)
	}
	return nil
}
