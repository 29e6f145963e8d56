// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteLeaderboard prints a generated leaderboard using the configured output format.
func (ow *OutWriter) WriteLeaderboard(board *schema.Leaderboard, cfg *contract.Config, duration time.Duration) error {
	return WriteLeaderboardResults(board, cfg, duration)
}

// WriteGems prints hidden-gem detection results using the configured output format.
func (ow *OutWriter) WriteGems(gems []schema.GemResult, insights schema.GemInsights, cfg *contract.Config, duration time.Duration) error {
	return WriteGemResults(gems, insights, cfg, duration)
}

// WriteSimilar prints similarity search results using the configured output format.
func (ow *OutWriter) WriteSimilar(target schema.Repository, results []schema.SimilarResult, cfg *contract.Config) error {
	return WriteSimilarResults(target, results, cfg)
}

// WriteSummary prints leaderboard summary statistics using the configured output format.
func (ow *OutWriter) WriteSummary(stats schema.SummaryStats, cfg *contract.Config) error {
	return WriteSummaryResults(stats, cfg)
}
