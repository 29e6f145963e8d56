package core

import (
	"context"
	"sort"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// Category membership boundaries. All are inclusive.
const (
	trendingMinStars    = 100
	trendingMaxStars    = 10000
	trendingMaxPushDays = 90
	trendingMinAgeDays  = 30

	establishedMinStars   = 5000
	establishedMinAgeDays = 180
)

// Generator orchestrates the Calculator, Detector and an optional Clusterer
// into three independently filtered, scored and ranked category lists, plus
// rank-delta tracking against the previous persisted leaderboard.
type Generator struct {
	calc      *Calculator
	detector  *Detector
	clusterer contract.Clusterer     // nil disables clustering
	snapshots contract.SnapshotStore // nil disables rank-delta tracking

	policy       schema.OverlapPolicy
	workers      int
	clusterCount int
	previousName string

	now func() time.Time
}

// NewGenerator builds a Generator from validated configuration. The
// clusterer and snapshot store may be nil.
func NewGenerator(cfg *contract.Config, clusterer contract.Clusterer, snapshots contract.SnapshotStore) *Generator {
	return &Generator{
		calc:         NewCalculator(cfg.Weights, cfg.Criteria),
		detector:     NewDetector(cfg.Criteria),
		clusterer:    clusterer,
		snapshots:    snapshots,
		policy:       cfg.Policy,
		workers:      cfg.Workers,
		clusterCount: cfg.ClusterCount,
		previousName: cfg.PreviousName,
		now:          time.Now,
	}
}

// Calculator exposes the generator's metrics calculator for summary and
// ad-hoc scoring paths that must agree with leaderboard scores.
func (g *Generator) Calculator() *Calculator {
	return g.calc
}

// Detector exposes the generator's hidden-gem detector.
func (g *Generator) Detector() *Detector {
	return g.detector
}

// Generate runs the full pipeline over the input set and assembles the
// aggregate leaderboard. Empty category lists are valid output; nothing in
// this path is fatal to the run.
func (g *Generator) Generate(ctx context.Context, repos []schema.Repository) *schema.Leaderboard {
	now := g.now().UTC()
	previous := g.loadPrevious()

	metricsMap := g.calc.ScoreAll(repos, g.workers)

	gems := g.hiddenGemEntries(repos, metricsMap)
	established := g.establishedEntries(repos, metricsMap, now)

	// Under the exclusive policy the more specific categories win: a
	// repository already listed as established or a hidden gem never also
	// appears as trending.
	exclude := make(map[int64]struct{})
	if g.policy == schema.ExclusiveOverlap {
		for _, e := range established {
			exclude[e.Repository.ID] = struct{}{}
		}
		for _, e := range gems {
			exclude[e.Repository.ID] = struct{}{}
		}
	}
	trending := g.trendingEntries(repos, metricsMap, now, exclude)

	applyRankDeltas(trending, previous, schema.TrendingCategory)
	applyRankDeltas(established, previous, schema.EstablishedCategory)
	applyRankDeltas(gems, previous, schema.HiddenGemCategory)

	return &schema.Leaderboard{
		GeneratedAt:        now,
		Trending:           trending,
		Established:        established,
		HiddenGems:         gems,
		Clusters:           g.generateClusters(ctx, repos),
		TotalAnalyzed:      len(repos),
		DataFreshnessHours: dataFreshness(repos, now),
	}
}

// trendingEntries filters for active repositories with moderate star counts
// and scores them with quality dominating the composite.
func (g *Generator) trendingEntries(repos []schema.Repository, metricsMap map[int64]schema.RepositoryMetrics, now time.Time, exclude map[int64]struct{}) []schema.LeaderboardEntry {
	candidates := make([]scoredRepo, 0)
	for i := range repos {
		repo := &repos[i]
		if repo.Scores == nil {
			continue
		}
		if _, skip := exclude[repo.ID]; skip {
			continue
		}

		daysSincePush := schema.DaysBetween(repo.PushedAt, now)
		ageDays := schema.DaysBetween(repo.CreatedAt, now)
		if repo.Stars < trendingMinStars || repo.Stars > trendingMaxStars ||
			daysSincePush > trendingMaxPushDays || ageDays < trendingMinAgeDays {
			continue
		}

		score := repo.Scores.Momentum*0.7 + repo.Scores.Quality*3.0
		cand := *repo
		cand.Scores = withFinal(repo.Scores, score)
		candidates = append(candidates, scoredRepo{repo: cand, score: score})
	}
	return rankEntries(candidates, schema.TrendingCap, schema.TrendingCategory, metricsMap)
}

// establishedEntries filters for mature, high-star repositories and scores
// them with heavier quality and scale weighting, since momentum matters
// less for mature projects.
func (g *Generator) establishedEntries(repos []schema.Repository, metricsMap map[int64]schema.RepositoryMetrics, now time.Time) []schema.LeaderboardEntry {
	candidates := make([]scoredRepo, 0)
	for i := range repos {
		repo := &repos[i]
		if repo.Scores == nil {
			continue
		}
		if repo.Stars < establishedMinStars ||
			schema.DaysBetween(repo.CreatedAt, now) < establishedMinAgeDays {
			continue
		}

		score := repo.Scores.Momentum*0.3 + repo.Scores.Quality*5.0 +
			(float64(repo.Stars)/1000.0)*0.1
		cand := *repo
		cand.Scores = withFinal(repo.Scores, score)
		candidates = append(candidates, scoredRepo{repo: cand, score: score})
	}
	return rankEntries(candidates, schema.EstablishedCap, schema.EstablishedCategory, metricsMap)
}

// hiddenGemEntries delegates the category wholesale to the Detector. The
// detector's result order already is the rank order.
func (g *Generator) hiddenGemEntries(repos []schema.Repository, metricsMap map[int64]schema.RepositoryMetrics) []schema.LeaderboardEntry {
	gems := g.detector.Detect(repos, schema.HiddenGemCap)

	entries := make([]schema.LeaderboardEntry, 0, len(gems))
	for i, gem := range gems {
		repo := gem.Repository
		repo.Scores = withFinal(repo.Scores, gem.Score)
		entries = append(entries, schema.LeaderboardEntry{
			Rank:       i + 1,
			Repository: repo,
			Metrics:    metricsMap[repo.ID],
			Category:   schema.HiddenGemCategory,
		})
	}
	return entries
}

// generateClusters runs the optional clustering engine over the full input
// set and sorts the clusters by descending member count. Failures degrade
// to no clusters rather than aborting the run.
func (g *Generator) generateClusters(ctx context.Context, repos []schema.Repository) []schema.Cluster {
	if g.clusterer == nil {
		return nil
	}

	clusters, err := g.clusterer.Cluster(ctx, repos, g.clusterCount)
	if err != nil {
		contract.LogWarn("Clustering failed", err)
		return nil
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Size > clusters[j].Size
	})
	return clusters
}

// loadPrevious fetches the rank-delta baseline. A missing or corrupted
// previous snapshot is treated as "no previous data", never an error.
func (g *Generator) loadPrevious() *schema.Leaderboard {
	if g.snapshots == nil {
		return nil
	}

	var board *schema.Leaderboard
	var err error
	if g.previousName != "" {
		board, err = g.snapshots.Load(g.previousName)
	} else {
		board, err = g.snapshots.LoadLatest()
	}
	if err != nil {
		contract.LogWarn("Could not load previous leaderboard", err)
		return nil
	}
	return board
}

// withFinal clones a score set with Final replaced, so per-category
// composites never alias the shared snapshot scores.
func withFinal(scores *schema.ScoreSet, final float64) *schema.ScoreSet {
	var out schema.ScoreSet
	if scores != nil {
		out = *scores
	}
	out.Final = final
	return &out
}

// dataFreshness returns hours elapsed since the most recently updated
// repository in the input set. A staleness indicator, not a correctness
// gate.
func dataFreshness(repos []schema.Repository, now time.Time) float64 {
	if len(repos) == 0 {
		return 0.0
	}

	var latest time.Time
	for i := range repos {
		if repos[i].UpdatedAt.After(latest) {
			latest = repos[i].UpdatedAt
		}
	}
	return now.Sub(latest).Hours()
}
