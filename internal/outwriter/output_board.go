package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/parquet"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteLeaderboardResults outputs the leaderboard, dispatching based on the output format configured.
func WriteLeaderboardResults(board *schema.Leaderboard, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, board)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForBoard(csvWriter, board, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		// Parquet is a binary columnar format; it cannot stream to stdout.
		if cfg.OutputFile == "" {
			return errors.New("--output-file is required for parquet output")
		}
		if err := parquet.WriteEntriesParquet(parquet.ConvertLeaderboard(board), cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", cfg.OutputFile)
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBoardTables(board, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeBoardTables generates and writes one human-readable table per category.
func writeBoardTables(board *schema.Leaderboard, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	for _, cat := range schema.AllCategories {
		entries := board.CategoryEntries(cat)
		if len(entries) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(writer, "%s (%d)\n", categoryTitle(cat), len(entries)); err != nil {
			return err
		}
		if err := writeCategoryTable(entries, cfg, fmtFloat, writer); err != nil {
			return err
		}
	}

	if len(board.Clusters) > 0 {
		if err := writeClusterTable(board.Clusters, writer); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Analyzed %d repositories (data freshness: %.1fh)\n",
		board.TotalAnalyzed, board.DataFreshnessHours); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Generation completed in %v with %d workers. Cache backend: %s\n",
		duration, cfg.Workers, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCategoryTable renders one category's entries.
func writeCategoryTable(entries []schema.LeaderboardEntry, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Δ", "Repository", "Stars", "Momentum", "Quality", "Score", "Label"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for _, entry := range entries {
		repo := entry.Repository
		row := []string{
			strconv.Itoa(entry.Rank),
			formatDelta(entry.RankDelta),
			truncateName(repo.FullName, nameWidth),
			strconv.Itoa(repo.Stars),
		}
		if repo.Scores != nil {
			row = append(row,
				fmtFloat(repo.Scores.Momentum),
				fmtFloat(repo.Scores.Quality),
				fmtFloat(repo.Scores.Final),
				scoreLabel(repo.Scores.Quality, cfg),
			)
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeClusterTable renders the semantic clusters.
func writeClusterTable(clusters []schema.Cluster, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "🧭 CLUSTERS (%d)\n", len(clusters)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Name", "Size", "Description"})

	var data [][]string
	for _, c := range clusters {
		data = append(data, []string{
			strconv.Itoa(c.ID),
			c.Name,
			strconv.Itoa(c.Size),
			c.Description,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForBoard writes all categories as flat CSV rows.
func writeCSVResultsForBoard(w *csv.Writer, board *schema.Leaderboard, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"category",
		"rank",
		"rank_delta",
		"full_name",
		"html_url",
		"language",
		"stars",
		"forks",
		"contributors",
		"momentum",
		"quality",
		"final",
		"label",
		"generated_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, entry := range board.Entries() {
		repo := entry.Repository

		delta := ""
		if entry.RankDelta != nil {
			delta = strconv.Itoa(*entry.RankDelta)
		}
		momentum, quality, final, label := "", "", "", ""
		if repo.Scores != nil {
			momentum = fmtFloat(repo.Scores.Momentum)
			quality = fmtFloat(repo.Scores.Quality)
			final = fmtFloat(repo.Scores.Final)
			label = contract.GetPlainLabel(repo.Scores.Quality)
		}

		rec := []string{
			string(entry.Category),
			strconv.Itoa(entry.Rank),
			delta,
			repo.FullName,
			repo.HTMLURL,
			repo.Language,
			fmt.Sprintf(intFmt, repo.Stars),
			fmt.Sprintf(intFmt, repo.Forks),
			fmt.Sprintf(intFmt, repo.ContributorsCount),
			momentum,
			quality,
			final,
			label,
			board.GeneratedAt.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
