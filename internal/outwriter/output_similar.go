package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// similarJSONOutput pairs the query target with its ranked matches.
type similarJSONOutput struct {
	Target  schema.Repository     `json:"target"`
	Results []schema.SimilarResult `json:"results"`
}

// WriteSimilarResults outputs similarity matches, dispatching based on the output format configured.
func WriteSimilarResults(target schema.Repository, results []schema.SimilarResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, similarJSONOutput{Target: target, Results: results})
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForSimilar(csvWriter, results, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSimilarTable(target, results, cfg, fmtFloat, w)
		}, "Wrote table")
	}
	return nil
}

// writeSimilarTable generates and writes the human-readable similarity table.
func writeSimilarTable(target schema.Repository, results []schema.SimilarResult, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "Repositories similar to %s\n", target.FullName); err != nil {
		return err
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Repository", "Similarity", "Stars", "Language"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for i, result := range results {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateName(result.Repository.FullName, nameWidth),
			fmtFloat(result.Similarity),
			strconv.Itoa(result.Repository.Stars),
			result.Repository.Language,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForSimilar writes similarity matches in CSV format.
func writeCSVResultsForSimilar(w *csv.Writer, results []schema.SimilarResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"rank",
		"full_name",
		"html_url",
		"similarity",
		"stars",
		"language",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, result := range results {
		rec := []string{
			strconv.Itoa(i + 1),
			result.Repository.FullName,
			result.Repository.HTMLURL,
			fmtFloat(result.Similarity),
			fmt.Sprintf(intFmt, result.Repository.Stars),
			result.Repository.Language,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
