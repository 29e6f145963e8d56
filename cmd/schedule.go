package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Dark-Matter98/ai-repository-leaderboard/core"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
	"github.com/spf13/cobra"
)

// scheduleCmd runs the generate pipeline on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule [input-file]",
	Short: "Run leaderboard generation on a recurring schedule.",
	Long: `Run the full generate pipeline on a cron schedule until interrupted.

Each scheduled run re-reads the input file, so pointing --input at the
scraper's output path picks up fresh data automatically. Failed runs are
logged and the scheduler keeps going.

The default schedule is daily at 06:00 UTC.

Examples:
  # Daily generation at the default time
  airank schedule repos.json

  # Every 6 hours with clustering
  airank schedule repos.json --cron "0 */6 * * *" --clusters`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := core.ExecuteSchedule(ctx, cfg, iocache.Manager); err != nil {
			contract.LogFatal("Cannot run scheduler", err)
		}
	},
}
