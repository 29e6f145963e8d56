package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSummaryResults outputs summary statistics, dispatching based on the output format configured.
func WriteSummaryResults(stats schema.SummaryStats, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForSummary(csvWriter, stats, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(stats, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// writeSummaryTable generates and writes the human-readable summary.
func writeSummaryTable(stats schema.SummaryStats, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Leaderboard generated at %s (data freshness: %.1fh)\n",
		stats.GeneratedAt.Format(contract.DateTimeFormat), stats.DataFreshnessHours); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "%d repositories across %d clusters\n",
		stats.TotalRepositories, stats.ClusterCount); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Category", "Entries", "Up", "Down", "New", "Avg Composite"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, cat := range schema.AllCategories {
		changes := stats.Changes[cat]
		data = append(data, []string{
			string(cat),
			strconv.Itoa(stats.CategorySizes[cat]),
			strconv.Itoa(changes.Up),
			strconv.Itoa(changes.Down),
			strconv.Itoa(changes.New),
			fmtFloat(stats.WeightedComposite[cat]),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(stats.TopLanguages) > 0 {
		names := make([]string, len(stats.TopLanguages))
		for i, l := range stats.TopLanguages {
			names[i] = fmt.Sprintf("%s (%d)", l.Name, l.Count)
		}
		if _, err := fmt.Fprintf(writer, "Top languages: %s\n", strings.Join(names, ", ")); err != nil {
			return err
		}
	}
	if len(stats.TopTopics) > 0 {
		names := make([]string, len(stats.TopTopics))
		for i, t := range stats.TopTopics {
			names[i] = fmt.Sprintf("%s (%d)", t.Name, t.Count)
		}
		if _, err := fmt.Fprintf(writer, "Top topics: %s\n", strings.Join(names, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVResultsForSummary writes per-category summary rows in CSV format.
func writeCSVResultsForSummary(w *csv.Writer, stats schema.SummaryStats, fmtFloat func(float64) string) error {
	header := []string{
		"category",
		"entries",
		"up",
		"down",
		"new",
		"avg_composite",
		"generated_at",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, cat := range schema.AllCategories {
		changes := stats.Changes[cat]
		rec := []string{
			string(cat),
			strconv.Itoa(stats.CategorySizes[cat]),
			strconv.Itoa(changes.Up),
			strconv.Itoa(changes.Down),
			strconv.Itoa(changes.New),
			fmtFloat(stats.WeightedComposite[cat]),
			stats.GeneratedAt.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
