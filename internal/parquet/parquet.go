// Package parquet provides data structures and functions for exporting
// leaderboard and run history data to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
	"github.com/parquet-go/parquet-go"
)

// Entry is one flattened leaderboard row for columnar export.
type Entry struct {
	// Category is the leaderboard partition (trending, established, hidden_gem)
	Category string `parquet:"category,snappy"`

	// Rank is the 1-based position within the category
	Rank int32 `parquet:"rank,snappy"`

	// RankDelta is previous rank minus current rank (nullable; null means new this run)
	RankDelta *int32 `parquet:"rank_delta,optional,snappy"`

	// RepoID is the upstream repository identifier
	RepoID int64 `parquet:"repo_id,snappy"`

	// FullName is the owner/name slug
	FullName string `parquet:"full_name,snappy"`

	// HTMLURL points at the repository home page
	HTMLURL string `parquet:"html_url,snappy"`

	// Language is the dominant programming language (nullable)
	Language *string `parquet:"language,optional,snappy"`

	Stars        int32 `parquet:"stars,snappy"`
	Forks        int32 `parquet:"forks,snappy"`
	Contributors int32 `parquet:"contributors,snappy"`

	// MomentumScore is the [0,10] growth velocity score
	MomentumScore float64 `parquet:"momentum_score,snappy"`

	// QualityScore is the [0,1] engineering quality score
	QualityScore float64 `parquet:"quality_score,snappy"`

	// FinalScore is the category-dependent composite
	FinalScore float64 `parquet:"final_score,snappy"`

	// GeneratedAt is the leaderboard generation timestamp
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// Run represents one leaderboard generation run.
// This struct maps to the airank_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the run completed (nullable)
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// DurationMs is the run duration in milliseconds (nullable)
	DurationMs *int32 `parquet:"duration_ms,optional,snappy"`

	ReposAnalyzed    int32 `parquet:"repos_analyzed,snappy"`
	TrendingCount    int32 `parquet:"trending_count,snappy"`
	EstablishedCount int32 `parquet:"established_count,snappy"`
	HiddenGemCount   int32 `parquet:"hidden_gem_count,snappy"`
	ClusterCount     int32 `parquet:"cluster_count,snappy"`

	// Status is running, completed or failed
	Status string `parquet:"run_status,snappy"`
}

// WriteEntriesParquet writes a slice of Entry structs to a Parquet file.
func WriteEntriesParquet(data []Entry, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Entry struct tags
	writer := parquet.NewGenericWriter[Entry](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertLeaderboard flattens all categories of a leaderboard into Entry
// rows for Parquet export.
func ConvertLeaderboard(board *schema.Leaderboard) []Entry {
	entries := board.Entries()
	result := make([]Entry, len(entries))
	for i, entry := range entries {
		repo := entry.Repository

		var delta *int32
		if entry.RankDelta != nil {
			d := int32(*entry.RankDelta)
			delta = &d
		}
		var language *string
		if repo.Language != "" {
			lang := repo.Language
			language = &lang
		}

		row := Entry{
			Category:     string(entry.Category),
			Rank:         int32(entry.Rank),
			RankDelta:    delta,
			RepoID:       repo.ID,
			FullName:     repo.FullName,
			HTMLURL:      repo.HTMLURL,
			Language:     language,
			Stars:        int32(repo.Stars),
			Forks:        int32(repo.Forks),
			Contributors: int32(repo.ContributorsCount),
			GeneratedAt:  board.GeneratedAt,
		}
		if repo.Scores != nil {
			row.MomentumScore = repo.Scores.Momentum
			row.QualityScore = repo.Scores.Quality
			row.FinalScore = repo.Scores.Final
		}
		result[i] = row
	}
	return result
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:            record.ID.String(),
			StartedAt:        record.StartedAt,
			FinishedAt:       record.FinishedAt,
			DurationMs:       record.DurationMs,
			ReposAnalyzed:    record.ReposAnalyzed,
			TrendingCount:    record.Trending,
			EstablishedCount: record.Established,
			HiddenGemCount:   record.HiddenGems,
			ClusterCount:     record.Clusters,
			Status:           record.Status,
		}
	}
	return result
}
