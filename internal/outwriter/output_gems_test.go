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

func testGems() []schema.GemResult {
	return []schema.GemResult{
		{
			Repository: schema.Repository{
				ID:                1,
				FullName:          "acme/quiet-rag",
				HTMLURL:           "https://github.com/acme/quiet-rag",
				Language:          "Python",
				Stars:             85,
				ContributorsCount: 3,
			},
			Score: 0.82,
			Breakdown: schema.GemBreakdown{
				CodeQuality: map[schema.BreakdownKey]float64{
					schema.BreakdownTesting: 1.0,
					schema.BreakdownCICD:    0.8,
				},
				Community: map[schema.BreakdownKey]float64{
					schema.BreakdownContribDiversity: 0.6,
					schema.BreakdownActivityRatio:    0.2,
				},
				Innovation:  map[schema.BreakdownKey]float64{},
				Maintenance: map[schema.BreakdownKey]float64{},
				Overall:     0.82,
			},
		},
		{
			Repository: schema.Repository{ID: 2, FullName: "acme/tiny-llm", Stars: 40},
			Score:      0.71,
		},
	}
}

func testInsights() schema.GemInsights {
	return schema.GemInsights{
		TotalFound:   2,
		AverageScore: 0.765,
		MedianScore:  0.765,
		TopLanguages: []schema.FrequencyCount{{Name: "Python", Count: 1}},
		WithTestsPct: 50,
		WithCIPct:    50,
		WithDocsPct:  100,
	}
}

func TestWriteGemTable(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, _ := createFormatters(2)

	err := writeGemTable(testGems(), testInsights(), testConfig(), fmtFloat, time.Second, &buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "acme/quiet-rag")
	assert.Contains(t, out, "0.82")
	assert.Contains(t, out, "Found 2 gems")
	assert.Contains(t, out, "Top languages: Python (1)")
	assert.Contains(t, out, "With tests: 50%")
}

func TestWriteGemCSV(t *testing.T) {
	var buf bytes.Buffer
	fmtFloat, intFmt := createFormatters(2)

	w := csv.NewWriter(&buf)
	require.NoError(t, writeCSVResultsForGems(w, testGems(), fmtFloat, intFmt))
	w.Flush()

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "full_name", records[0][1])
	assert.Equal(t, "acme/quiet-rag", records[1][1])
	assert.Equal(t, "0.82", records[1][3])
}

func TestFormatTopStrengths(t *testing.T) {
	got := formatTopStrengths(testGems()[0].Breakdown)

	// Strongest first; sub-threshold indicators are filtered out.
	assert.Equal(t, "testing > ci_cd > contributor_diversity", got)
	assert.NotContains(t, got, "activity_ratio")
}

func TestFormatTopStrengthsEmpty(t *testing.T) {
	assert.Equal(t, "Not applicable", formatTopStrengths(schema.GemBreakdown{}))
}
