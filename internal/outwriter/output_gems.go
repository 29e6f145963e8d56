package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// gemJSONOutput bundles detections with their aggregate insights for
// machine-readable output.
type gemJSONOutput struct {
	Gems     []schema.GemResult `json:"gems"`
	Insights schema.GemInsights `json:"insights"`
}

// WriteGemResults outputs hidden-gem detections, dispatching based on the output format configured.
func WriteGemResults(gems []schema.GemResult, insights schema.GemInsights, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, gemJSONOutput{Gems: gems, Insights: insights})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForGems(csvWriter, gems, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeGemTable(gems, insights, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeGemTable generates and writes the human-readable gem table plus the
// insight summary.
func writeGemTable(gems []schema.GemResult, insights schema.GemInsights, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Repository", "Score", "Label", "Stars", "Contrib", "Strengths"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, gem := range gems {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateName(gem.Repository.FullName, nameWidth),
			fmtFloat(gem.Score),
			scoreLabel(gem.Score, cfg),
			strconv.Itoa(gem.Repository.Stars),
			strconv.Itoa(gem.Repository.ContributorsCount),
			formatTopStrengths(gem.Breakdown),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if insights.TotalFound > 0 {
		if _, err := fmt.Fprintf(writer, "Found %d gems (avg score %s, median %s)\n",
			insights.TotalFound, fmtFloat(insights.AverageScore), fmtFloat(insights.MedianScore)); err != nil {
			return err
		}
		if len(insights.TopLanguages) > 0 {
			names := make([]string, len(insights.TopLanguages))
			for i, l := range insights.TopLanguages {
				names[i] = fmt.Sprintf("%s (%d)", l.Name, l.Count)
			}
			if _, err := fmt.Fprintf(writer, "Top languages: %s\n", strings.Join(names, ", ")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(writer, "With tests: %.0f%%, with CI: %.0f%%, with docs: %.0f%%\n",
			insights.WithTestsPct, insights.WithCIPct, insights.WithDocsPct); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Detection completed in %v with %d workers\n", duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForGems writes gem detections in CSV format.
func writeCSVResultsForGems(w *csv.Writer, gems []schema.GemResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"full_name",
		"html_url",
		"score",
		"label",
		"stars",
		"contributors",
		"language",
		"strengths",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, gem := range gems {
		rec := []string{
			strconv.Itoa(i + 1),
			gem.Repository.FullName,
			gem.Repository.HTMLURL,
			fmtFloat(gem.Score),
			contract.GetPlainLabel(gem.Score),
			fmt.Sprintf(intFmt, gem.Repository.Stars),
			fmt.Sprintf(intFmt, gem.Repository.ContributorsCount),
			gem.Repository.Language,
			formatTopStrengths(gem.Breakdown),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// strengthContribMinimum filters out weak sub-indicators from the strengths
// column.
const (
	strengthContribMinimum = 0.5
	topNStrengths          = 3
)

// formatTopStrengths names the strongest sub-indicators across all breakdown
// groups, best first.
func formatTopStrengths(breakdown schema.GemBreakdown) string {
	type strength struct {
		name  schema.BreakdownKey
		value float64
	}

	var strengths []strength
	for _, group := range []map[schema.BreakdownKey]float64{
		breakdown.CodeQuality, breakdown.Community, breakdown.Innovation, breakdown.Maintenance,
	} {
		for key, value := range group {
			if value >= strengthContribMinimum {
				strengths = append(strengths, strength{name: key, value: value})
			}
		}
	}
	if len(strengths) == 0 {
		return "Not applicable"
	}

	sort.Slice(strengths, func(i, j int) bool {
		if strengths[i].value != strengths[j].value {
			return strengths[i].value > strengths[j].value
		}
		return strengths[i].name < strengths[j].name // deterministic ties
	})

	limit := min(len(strengths), topNStrengths)
	parts := make([]string, limit)
	for i := range limit {
		parts[i] = string(strengths[i].name)
	}
	return strings.Join(parts, " > ")
}
