package cmd

import (
	"strconv"

	"github.com/Dark-Matter98/ai-repository-leaderboard/core"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
	"github.com/spf13/cobra"
)

// similarCmd finds repositories close to a target in embedding space.
var similarCmd = &cobra.Command{
	Use:   "similar <repo-id>",
	Short: "Find repositories similar to a target by embedding similarity.",
	Long: `Rank the input set by cosine similarity to a target repository.

Embeds every repository's text features (name, description, topics,
language, README) via the configured embedding service, reusing cached
vectors where available, and returns the closest matches.

The target is identified by its numeric repository ID as found in the
scraper's output file.

Examples:
  # Top 5 repositories similar to repo 1296269
  airank similar 1296269 --input repos.json

  # Wider search with JSON output
  airank similar 1296269 --input repos.json --similar-limit 20 --output json`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		// The positional argument is the target ID, not an input file.
		return sharedSetup(rootCtx, cmd, nil)
	},
	Run: func(_ *cobra.Command, args []string) {
		targetID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			contract.LogFatal("Invalid repository ID", err)
		}
		if err := core.ExecuteSimilar(rootCtx, cfg, iocache.Manager, targetID); err != nil {
			contract.LogFatal("Cannot run similarity search", err)
		}
	},
}
