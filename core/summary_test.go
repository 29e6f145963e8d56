package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// TestSummarize verifies category sizes, frequency tables and movement
// counts over a generated board.
func TestSummarize(t *testing.T) {
	gen := newTestGenerator(schema.NonExclusiveOverlap, nil, nil)

	repos := make([]schema.Repository, 0, 6)
	for i := range 4 {
		repos = append(repos, trendingRepo(int64(i+1), fmt.Sprintf("py-%d", i), 200+i*100))
	}
	goRepo := trendingRepo(5, "go-tool", 900)
	goRepo.Language = "Go"
	repos = append(repos, goRepo)

	board := gen.Generate(context.Background(), repos)
	stats := Summarize(board, gen.Calculator())

	assert.Equal(t, board.GeneratedAt, stats.GeneratedAt)
	assert.Equal(t, 5, stats.TotalRepositories)
	assert.Equal(t, 5, stats.CategorySizes[schema.TrendingCategory])
	assert.Zero(t, stats.CategorySizes[schema.EstablishedCategory])

	require.NotEmpty(t, stats.TopLanguages)
	assert.Equal(t, "Python", stats.TopLanguages[0].Name)
	assert.Equal(t, 4, stats.TopLanguages[0].Count)

	// First run: every entry is new.
	changes := stats.Changes[schema.TrendingCategory]
	assert.Equal(t, 5, changes.New)
	assert.Zero(t, changes.Up)
	assert.Zero(t, changes.Down)

	composite := stats.WeightedComposite[schema.TrendingCategory]
	assert.Greater(t, composite, 0.0)
	assert.LessOrEqual(t, composite, 1.0)
}

// TestSummarizeMovementCounts verifies up/down/new tallies from deltas.
func TestSummarizeMovementCounts(t *testing.T) {
	up, down := 2, -1
	board := &schema.Leaderboard{
		GeneratedAt: testNow,
		Trending: []schema.LeaderboardEntry{
			{Rank: 1, Repository: testRepo(1, "a", 100), RankDelta: &up},
			{Rank: 2, Repository: testRepo(2, "b", 100), RankDelta: &down},
			{Rank: 3, Repository: testRepo(3, "c", 100)},
		},
	}

	stats := Summarize(board, newTestCalculator())
	changes := stats.Changes[schema.TrendingCategory]
	assert.Equal(t, 1, changes.Up)
	assert.Equal(t, 1, changes.Down)
	assert.Equal(t, 1, changes.New)
}

// TestTopFrequenciesDeterminism verifies ties break alphabetically.
func TestTopFrequenciesDeterminism(t *testing.T) {
	values := []string{"python", "go", "rust", "go", "python", "rust"}
	top := schema.TopFrequencies(values, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "go", top[0].Name)
	assert.Equal(t, "python", top[1].Name)
}
