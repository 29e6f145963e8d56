package cmd

import (
	"github.com/Dark-Matter98/ai-repository-leaderboard/core"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
	"github.com/spf13/cobra"
)

// generateCmd runs the full leaderboard pipeline.
var generateCmd = &cobra.Command{
	Use:   "generate [input-file]",
	Short: "Generate the leaderboard from a scraped repository file.",
	Long: `Score, categorize and rank scraped AI/ML repositories.

Runs the full pipeline over the scraper's enriched output file:
- Momentum and quality scoring with a concurrent worker pool
- Trending, established and hidden-gem categorization (caps 50/30/20)
- Rank deltas against the previous persisted leaderboard
- Optional embedding-based clustering of the whole input set
- Snapshot persistence and run-history recording

Examples:
  # Generate from the latest scrape
  airank generate repos.json

  # Generate with clustering and an exclusive category policy
  airank generate repos.json --clusters --policy exclusive

  # Export the board for analytics
  airank generate repos.json --output parquet --output-file board

  # Compare against a specific baseline snapshot
  airank generate repos.json --previous leaderboard_20250601_060000.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGenerate(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot generate leaderboard", err)
		}
	},
}
