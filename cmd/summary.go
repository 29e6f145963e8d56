package cmd

import (
	"github.com/Dark-Matter98/ai-repository-leaderboard/core"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
	"github.com/spf13/cobra"
)

// summaryCmd aggregates statistics over a persisted leaderboard.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the most recent persisted leaderboard.",
	Long: `Print aggregate statistics for a persisted leaderboard snapshot.

Shows per-category entry counts, rank movement (up/down/new) against the
previous run, average composite scores, and the most common languages and
topics across all entries.

Reads the latest snapshot from the data directory by default; use
--previous to summarize a specific snapshot.

Examples:
  # Summarize the latest leaderboard
  airank summary

  # Summarize a specific snapshot
  airank summary --previous leaderboard_20250601_060000.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot summarize leaderboard", err)
		}
	},
}
