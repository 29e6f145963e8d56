package cmd

import (
	"fmt"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/iocache"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	// Initialize caching with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(cfg); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on embedding cache management.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by pipeline commands. This avoids input-file
// validation and complex config processing for simple cache operations.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the embedding cache (improves performance)",
	Long: `Manage the embedding cache that speeds up repeated runs.

Airank caches the embedding vector of each repository so clustering and
similarity search do not re-embed unchanged repositories on every run.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached embeddings

Examples:
  # Check cache status
  airank cache status

  # Clear cache after switching embedding models
  airank cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached embedding vectors",
	Long: `Delete all cached embeddings from the configured backend.

Use this when:
- The embedding service changed models (vectors are incompatible)
- Cache may be stale or corrupted
- Testing performance without cache

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  airank cache clear

  # Clear MySQL cache (set connection string via env variable)
  AIRANK_CACHE_BACKEND=mysql AIRANK_CACHE_DB_CONNECT="..." airank cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the embedding cache.

Displays:
- Backend type
- Total number of cached embeddings
- Newest and oldest cache entry timestamps
- Cache database size

Examples:
  # Check cache status
  airank cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetEmbeddingStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
