package outwriter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

func testSummary() schema.SummaryStats {
	return schema.SummaryStats{
		GeneratedAt:        time.Date(2025, 6, 1, 6, 0, 0, 0, time.UTC),
		TotalRepositories:  3,
		DataFreshnessHours: 6,
		CategorySizes: map[schema.Category]int{
			schema.TrendingCategory:  2,
			schema.HiddenGemCategory: 1,
		},
		ClusterCount: 1,
		TopLanguages: []schema.FrequencyCount{{Name: "Python", Count: 2}, {Name: "Rust", Count: 1}},
		TopTopics:    []schema.FrequencyCount{{Name: "llm", Count: 2}},
		Changes: map[schema.Category]schema.CategoryChanges{
			schema.TrendingCategory: {Up: 1, New: 1},
		},
		WeightedComposite: map[schema.Category]float64{
			schema.TrendingCategory: 0.61,
		},
	}
}

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	require.NoError(t, writeSummaryTable(testSummary(), fmtFloat, &buf))

	out := buf.String()
	assert.Contains(t, out, "3 repositories across 1 clusters")
	assert.Contains(t, out, "trending")
	assert.Contains(t, out, "established") // zero rows still listed
	assert.Contains(t, out, "Top languages: Python (2), Rust (1)")
	assert.Contains(t, out, "Top topics: llm (2)")
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForSummary(w, testSummary(), fmtFloat))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4) // header + 3 categories

	assert.Equal(t, "category", records[0][0])
	assert.Equal(t, "trending", records[1][0])
	assert.Equal(t, "2", records[1][1])
	assert.Equal(t, "1", records[1][2]) // up
	assert.Equal(t, "0.61", records[1][5])
	assert.Equal(t, "hidden_gem", records[3][0])
}

func TestWriteSimilarTable(t *testing.T) {
	target := schema.Repository{FullName: "acme/tokenizer"}
	results := []schema.SimilarResult{
		{Repository: schema.Repository{FullName: "acme/tagger", Stars: 120, Language: "Python"}, Similarity: 0.93},
		{Repository: schema.Repository{FullName: "acme/parser", Stars: 50, Language: "Go"}, Similarity: 0.71},
	}

	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)
	require.NoError(t, writeSimilarTable(target, results, testConfig(), fmtFloat, &buf))

	out := buf.String()
	assert.Contains(t, out, "similar to acme/tokenizer")
	assert.Contains(t, out, "acme/tagger")
	assert.Contains(t, out, "0.93")
}

func TestWriteSimilarCSV(t *testing.T) {
	results := []schema.SimilarResult{
		{Repository: schema.Repository{FullName: "acme/tagger", HTMLURL: "https://github.com/acme/tagger", Stars: 120, Language: "Python"}, Similarity: 0.93},
	}

	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)
	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForSimilar(w, results, fmtFloat, intFmt))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "similarity", records[0][3])
	assert.Equal(t, "0.93", records[1][3])
}
