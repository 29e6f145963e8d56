package cmd

import (
	"github.com/Dark-Matter98/ai-repository-leaderboard/core"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
	"github.com/spf13/cobra"
)

// gemsCmd runs hidden-gem detection on its own.
var gemsCmd = &cobra.Command{
	Use:   "gems [input-file]",
	Short: "Detect hidden-gem repositories with scoring breakdowns.",
	Long: `Find high-quality, low-visibility repositories in the input set.

Applies the hidden-gem gates (star ceiling, age, contributor and README
minimums, recent push) and scores eligible repositories across four
component groups:
- Code quality (tests, CI, documentation, organization)
- Community engagement (contributor diversity, activity, issues, forks)
- Innovation potential (novelty and research orientation)
- Maintenance quality (recency, consistency, maturity)

Prints the ranked gems with their strongest indicators plus aggregate
insights over the detected set.

Examples:
  # Detect gems from the latest scrape
  airank gems repos.json

  # Machine-readable breakdowns
  airank gems repos.json --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteGems(rootCtx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot detect hidden gems", err)
		}
	},
}
