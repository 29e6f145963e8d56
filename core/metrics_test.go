package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// testNow pins the clock so day arithmetic is deterministic.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCalculator() *Calculator {
	c := NewCalculator(schema.DefaultScoringWeights(), schema.DefaultGemCriteria())
	c.now = func() time.Time { return testNow }
	return c
}

// testRepo builds a healthy mid-sized repository that passes most gates.
func testRepo(id int64, name string, stars int) schema.Repository {
	return schema.Repository{
		ID:                id,
		Name:              name,
		FullName:          "acme/" + name,
		Description:       "A lightweight toolkit for building ML pipelines",
		Stars:             stars,
		Watchers:          stars / 2,
		Forks:             stars / 10,
		SizeKB:            5000,
		Language:          "Python",
		Topics:            []string{"machine-learning", "llm", "framework"},
		LicenseName:       "MIT",
		CreatedAt:         testNow.AddDate(-1, 0, 0),
		UpdatedAt:         testNow.AddDate(0, 0, -2),
		PushedAt:          testNow.AddDate(0, 0, -3),
		ContributorsCount: 12,
		ReadmeLength:      1500,
		HasCI:             true,
		HasTests:          true,
		HasDocumentation:  true,
	}
}

// TestMomentumScoreRange checks the [0,10] cap across extremes.
func TestMomentumScoreRange(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name string
		repo schema.Repository
	}{
		{name: "typical repo", repo: testRepo(1, "typical", 800)},
		{name: "huge repo", repo: testRepo(2, "huge", 500000)},
		{name: "zero stars", repo: testRepo(3, "quiet", 0)},
		{
			name: "brand new viral repo",
			repo: func() schema.Repository {
				r := testRepo(4, "viral", 20000)
				r.CreatedAt = testNow.AddDate(0, 0, -2)
				r.PushedAt = testNow.AddDate(0, 0, -1)
				return r
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := calc.MomentumScore(&tt.repo)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 10.0)
		})
	}
}

// TestMomentumScorePushRecency verifies fresher pushes score higher, all
// else equal.
func TestMomentumScorePushRecency(t *testing.T) {
	calc := newTestCalculator()

	fresh := testRepo(1, "fresh", 500)
	fresh.PushedAt = testNow.AddDate(0, 0, -5)

	stale := testRepo(1, "fresh", 500)
	stale.PushedAt = testNow.AddDate(0, 0, -120)

	assert.Greater(t, calc.MomentumScore(&fresh), calc.MomentumScore(&stale))
}

// TestQualityScoreRange verifies [0,1] bounds and idempotence on an
// unmutated repository.
func TestQualityScoreRange(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		name string
		repo schema.Repository
	}{
		{name: "fully equipped", repo: testRepo(1, "full", 500)},
		{
			name: "bare repo",
			repo: schema.Repository{
				ID:        2,
				FullName:  "acme/bare",
				CreatedAt: testNow.AddDate(-3, 0, 0),
				UpdatedAt: testNow.AddDate(-2, 0, 0),
				PushedAt:  testNow.AddDate(-2, 0, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := calc.QualityScore(&tt.repo)
			second := calc.QualityScore(&tt.repo)
			assert.GreaterOrEqual(t, first, 0.0)
			assert.LessOrEqual(t, first, 1.0)
			assert.Equal(t, first, second)
		})
	}
}

// TestQualityScoreTestsAndCI verifies tests+CI strictly beat neither, all
// else equal.
func TestQualityScoreTestsAndCI(t *testing.T) {
	calc := newTestCalculator()

	with := testRepo(1, "hygiene", 500)
	with.HasTests = true
	with.HasCI = true

	without := testRepo(1, "hygiene", 500)
	without.HasTests = false
	without.HasCI = false

	assert.Greater(t, calc.QualityScore(&with), calc.QualityScore(&without))
}

// TestHiddenGemPotentialStarGate verifies the hard star gate.
func TestHiddenGemPotentialStarGate(t *testing.T) {
	calc := newTestCalculator()

	repo := testRepo(1, "popular", 1001)
	assert.Zero(t, calc.HiddenGemPotential(&repo))

	repo.Stars = 15000
	assert.Zero(t, calc.HiddenGemPotential(&repo))
}

// TestHiddenGemPotentialBonuses verifies a strong low-star repo earns a
// nonzero potential within [0,1].
func TestHiddenGemPotentialBonuses(t *testing.T) {
	calc := newTestCalculator()

	repo := testRepo(1, "sleeper", 200)
	repo.CreatedAt = testNow.AddDate(0, 0, -100)
	repo.PushedAt = testNow.AddDate(0, 0, -2)
	repo.ContributorsCount = 15 // ratio 15/200 > 5%

	score := calc.HiddenGemPotential(&repo)
	assert.Greater(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

// TestMetricsComposite checks the flat final composite and sub-score
// normalization.
func TestMetricsComposite(t *testing.T) {
	calc := newTestCalculator()
	repo := testRepo(1, "composite", 2000)

	m := calc.Metrics(&repo)
	assert.Equal(t, repo.ID, m.RepoID)
	assert.Equal(t, repo.FullName, m.FullName)
	assert.InDelta(t, 0.8, m.TestCoverageScore, 0.001)
	assert.InDelta(t, 1.0, m.DocumentationScore, 0.001) // 1500 chars saturates
	assert.LessOrEqual(t, m.FinalScore, 10.0)
	assert.Equal(t, testNow, m.CalculatedAt)

	momentum := calc.MomentumScore(&repo)
	quality := calc.QualityScore(&repo)
	expected := momentum*0.4 + quality*0.4 + float64(repo.Stars)/10000.0*0.2
	assert.InDelta(t, expected, m.FinalScore, 0.0001)
}

// TestCompositeScoreWeights verifies the weight knobs actually steer the
// flat composite.
func TestCompositeScoreWeights(t *testing.T) {
	repo := testRepo(1, "weighted", 4000)

	defaultCalc := newTestCalculator()
	starHeavy := NewCalculator(schema.ScoringWeights{Star: 1.0}, schema.DefaultGemCriteria())
	starHeavy.now = func() time.Time { return testNow }

	defaultScore := defaultCalc.CompositeScore(&repo)
	starScore := starHeavy.CompositeScore(&repo)

	assert.NotEqual(t, defaultScore, starScore)
	assert.GreaterOrEqual(t, defaultScore, 0.0)
	assert.LessOrEqual(t, defaultScore, 1.0)
	assert.LessOrEqual(t, starScore, 1.0)
}

// TestScoreAll verifies the batch pass writes score sets back, skips broken
// records and keeps them out of the metrics map.
func TestScoreAll(t *testing.T) {
	calc := newTestCalculator()

	repos := []schema.Repository{
		testRepo(1, "alpha", 300),
		testRepo(2, "beta", 7000),
		{ID: 3, FullName: "acme/broken", Stars: 100}, // zero timestamps
	}

	metricsMap := calc.ScoreAll(repos, 4)

	require.Len(t, metricsMap, 2)
	assert.NotNil(t, repos[0].Scores)
	assert.NotNil(t, repos[1].Scores)
	assert.Nil(t, repos[2].Scores)
	assert.NotContains(t, metricsMap, int64(3))

	for _, idx := range []int{0, 1} {
		scores := repos[idx].Scores
		assert.GreaterOrEqual(t, scores.Momentum, 0.0)
		assert.LessOrEqual(t, scores.Momentum, 10.0)
		assert.GreaterOrEqual(t, scores.Quality, 0.0)
		assert.LessOrEqual(t, scores.Quality, 1.0)
	}
}

// TestScoreAllSingleWorkerFallback verifies workers<=0 still processes the
// whole batch.
func TestScoreAllSingleWorkerFallback(t *testing.T) {
	calc := newTestCalculator()
	repos := []schema.Repository{testRepo(1, "solo", 150)}

	metricsMap := calc.ScoreAll(repos, 0)
	assert.Len(t, metricsMap, 1)
	assert.NotNil(t, repos[0].Scores)
}

// TestContributorDiversityBuckets locks the bucket boundaries.
func TestContributorDiversityBuckets(t *testing.T) {
	tests := []struct {
		count    int
		expected float64
	}{
		{count: 60, expected: 1.0},
		{count: 50, expected: 1.0},
		{count: 20, expected: 0.8},
		{count: 10, expected: 0.6},
		{count: 5, expected: 0.4},
		{count: 2, expected: 0.2},
		{count: 1, expected: 0.1},
		{count: 0, expected: 0.0},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, contributorDiversity(tt.count), 0.001)
	}
}
