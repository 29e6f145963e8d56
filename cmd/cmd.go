// Package cmd defines the command-line interface for airank.
package cmd

import (
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(gemsCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("input", "i", "", "Path to the scraper's enriched repository JSON file")
	rootCmd.PersistentFlags().String("data-dir", contract.DefaultDataDir, "Directory holding leaderboard snapshots")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("policy", string(schema.NonExclusiveOverlap), "Category overlap policy: non-exclusive or exclusive")
	rootCmd.PersistentFlags().String("previous", "", "Explicit baseline snapshot name for rank deltas (default: latest)")
	rootCmd.PersistentFlags().String("embed-url", contract.DefaultEmbedURL, "Base URL of the embedding service")
	rootCmd.PersistentFlags().Int("embed-batch-size", contract.DefaultEmbedBatchSize, "Texts per embedding request")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Embedding cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run-history backend: sqlite or mysql or postgresql or none (empty disables tracking)")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of generateCmd to Viper
	generateCmd.Flags().Bool("clusters", false, "Run embedding-based clustering as part of generation")
	generateCmd.Flags().Int("cluster-count", 0, "Fixed cluster count (0 = automatic silhouette search)")
	generateCmd.Flags().Bool("force-refresh", false, "Recompute embeddings even when cached")
	if err := viper.BindPFlags(generateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding generate flags", err)
	}

	// Bind all flags of similarCmd to Viper
	similarCmd.Flags().Int("similar-limit", contract.DefaultSimilarLimit, "Number of similar repositories to return")
	if err := viper.BindPFlags(similarCmd.Flags()); err != nil {
		contract.LogFatal("Error binding similar flags", err)
	}

	// Bind all flags of scheduleCmd to Viper
	scheduleCmd.Flags().String("cron", contract.DefaultCronSpec, "Cron spec for scheduled generation (default daily 06:00 UTC)")
	if err := viper.BindPFlags(scheduleCmd.Flags()); err != nil {
		contract.LogFatal("Error binding schedule flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
