// Package core has core logic for scoring, categorization and ranking.
package core

import (
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// Score caps.
const (
	maxMomentum = 10.0 // momentum and final composite scores saturate here
	maxQuality  = 1.0
)

// maxStarsNorm is the star count at which the log-scaled star signal of the
// flat composite saturates.
const maxStarsNorm = 100000.0

// Calculator derives momentum, quality and composite scores from a single
// repository snapshot. Scoring methods are pure: no I/O, no mutation beyond
// returning values. Callers may write results back onto the Repository.
type Calculator struct {
	weights  schema.ScoringWeights
	criteria schema.GemCriteria
	now      func() time.Time // injected for deterministic tests
}

// NewCalculator returns a Calculator with the given weight and gem-gate
// configuration.
func NewCalculator(weights schema.ScoringWeights, criteria schema.GemCriteria) *Calculator {
	return &Calculator{weights: weights, criteria: criteria, now: time.Now}
}

// MomentumScore measures a repository's growth and activity velocity,
// capped to [0,10]. It combines log-scaled stars, star velocity, push
// recency, an age-decay factor, engagement ratio and a size band factor.
func (c *Calculator) MomentumScore(repo *schema.Repository) float64 {
	now := c.now().UTC()

	ageDays := schema.DaysBetween(repo.CreatedAt, now)
	ageFactor := math.Max(0.5, 1.0-(float64(ageDays)/365.0)*0.1)

	activityFactor := pushRecencyFactor(schema.DaysBetween(repo.PushedAt, now))

	starVelocity := float64(repo.Stars) / float64(max(ageDays, 1))

	var engagementRatio float64
	if total := repo.Stars + repo.Forks + repo.Watchers; total > 0 {
		engagementRatio = float64(repo.Stars) / float64(total)
	}

	// Penalize extremes of repository size, favor the 1-10MB band.
	var sizeFactor float64
	switch {
	case repo.SizeKB < 1000:
		sizeFactor = 0.8
	case repo.SizeKB < 10000:
		sizeFactor = 1.0
	case repo.SizeKB < 100000:
		sizeFactor = 0.9
	default:
		sizeFactor = 0.7
	}

	const (
		wStars      = 0.4
		wVelocity   = 0.2
		wActivity   = 0.2
		wAge        = 0.1
		wEngagement = 0.05
		wSize       = 0.05
	)

	score := math.Log(float64(repo.Stars)+1)*wStars +
		starVelocity*100*wVelocity +
		activityFactor*wActivity +
		ageFactor*wAge +
		engagementRatio*wEngagement +
		sizeFactor*wSize

	return math.Min(score, maxMomentum)
}

// QualityScore measures engineering hygiene in [0,1] as a weighted average
// of documentation, code-quality signals, contributor diversity and
// maintenance recency.
func (c *Calculator) QualityScore(repo *schema.Repository) float64 {
	doc := documentationSignal(repo)
	code := codeSignal(repo)
	contrib := contributorDiversity(repo.ContributorsCount)

	daysSinceUpdate := schema.DaysBetween(repo.UpdatedAt, c.now().UTC())
	var maintenance float64
	switch {
	case daysSinceUpdate <= 30:
		maintenance = 1.0
	case daysSinceUpdate <= 90:
		maintenance = 0.8
	case daysSinceUpdate <= 180:
		maintenance = 0.6
	case daysSinceUpdate <= 365:
		maintenance = 0.4
	default:
		maintenance = 0.2
	}

	const (
		wDoc         = 0.3
		wCode        = 0.3
		wContrib     = 0.2
		wMaintenance = 0.2
	)

	total := doc*wDoc + code*wCode + contrib*wContrib + maintenance*wMaintenance
	return math.Min(total, maxQuality)
}

// HiddenGemPotential is the Calculator's quick gem heuristic in [0,1]. It is
// intentionally looser than the Detector's formula; the generator uses the
// Detector for the hidden-gems category, this one exists for ad-hoc queries
// and cross-checks.
func (c *Calculator) HiddenGemPotential(repo *schema.Repository) float64 {
	if repo.Stars > c.criteria.MaxStars {
		return 0.0
	}
	quality := c.QualityScore(repo)
	if quality < c.criteria.MinQualityScore {
		return 0.0
	}

	now := c.now().UTC()
	var bonus float64

	// Recent creation with good documentation.
	if schema.DaysBetween(repo.CreatedAt, now) < 365 && repo.ReadmeLength > 300 {
		bonus += 0.3
	}

	// Contributor-to-star ratio above 5% signals an engaged community.
	if repo.ContributorsCount > 0 {
		ratio := float64(repo.ContributorsCount) / float64(max(repo.Stars, 1))
		if ratio > 0.05 {
			bonus += 0.2
		}
	}

	switch daysSincePush := schema.DaysBetween(repo.PushedAt, now); {
	case daysSincePush <= 7:
		bonus += 0.2
	case daysSincePush <= 30:
		bonus += 0.1
	}

	// At least two curated AI topic tags.
	matches := 0
	for _, t := range repo.Topics {
		if slices.Contains(schema.AITopics, t) {
			matches++
		}
	}
	if matches >= 2 {
		bonus += 0.15
	}

	if repo.HasTests && repo.HasCI {
		bonus += 0.15
	}

	return math.Min(quality*bonus, 1.0)
}

// Metrics packages the normalized sub-scores plus the flat composite final
// score for one repository.
func (c *Calculator) Metrics(repo *schema.Repository) schema.RepositoryMetrics {
	momentum := c.MomentumScore(repo)
	quality := c.QualityScore(repo)

	const (
		wMomentum = 0.4
		wQuality  = 0.4
		wStars    = 0.2
	)
	final := momentum*wMomentum + quality*wQuality + (float64(repo.Stars)/10000.0)*wStars
	final = math.Min(final, maxMomentum)

	var testCoverage float64
	if repo.HasTests {
		testCoverage = 0.8
	}

	return schema.RepositoryMetrics{
		RepoID:             repo.ID,
		FullName:           repo.FullName,
		TestCoverageScore:  testCoverage,
		DocumentationScore: math.Min(float64(repo.ReadmeLength)/1000.0, 1.0),
		CodeQualityScore:   quality,
		ContributorScore:   math.Min(float64(repo.ContributorsCount)/50.0, 1.0),
		FinalScore:         final,
		CalculatedAt:       c.now().UTC(),
	}
}

// CompositeScore folds the five configured weight knobs over normalized
// [0,1] signals and returns a [0,1] composite. This is the score that weight
// experiments tune; the momentum and quality formulas carry their own
// published per-term constants.
func (c *Calculator) CompositeScore(repo *schema.Repository) float64 {
	nStars := schema.Clamp01(math.Log1p(float64(repo.Stars)) / math.Log1p(maxStarsNorm))
	activity := pushRecencyFactor(schema.DaysBetween(repo.PushedAt, c.now().UTC()))
	nContrib := schema.Clamp01(float64(repo.ContributorsCount) / 50.0)

	w := c.weights
	raw := w.Star*nStars +
		w.RecentActivity*activity +
		w.ContributorDiversity*nContrib +
		w.CodeQuality*codeSignal(repo) +
		w.Documentation*documentationSignal(repo)
	return schema.Clamp01(raw)
}

// scoreRepository validates a repository and computes its full score set.
// The generic Final here is a category-independent baseline; the generator
// overwrites it with the per-category composite.
func (c *Calculator) scoreRepository(repo *schema.Repository) (schema.ScoreSet, error) {
	if repo.CreatedAt.IsZero() || repo.UpdatedAt.IsZero() || repo.PushedAt.IsZero() {
		return schema.ScoreSet{}, fmt.Errorf("repository %s has missing timestamps", repo.FullName)
	}

	momentum := c.MomentumScore(repo)
	quality := c.QualityScore(repo)
	return schema.ScoreSet{
		Momentum: momentum,
		Quality:  quality,
		Final:    (momentum*0.5 + quality*5.0) / 2,
	}, nil
}

// ScoreAll computes scores and metrics for every repository using a worker
// pool. Workers only read repository fields; results are written back onto
// the repositories by the calling goroutine after all workers finish, so no
// repository is mutated concurrently. Repositories that fail to score are
// logged and skipped, never fatal to the batch.
func (c *Calculator) ScoreAll(repos []schema.Repository, workers int) map[int64]schema.RepositoryMetrics {
	if workers <= 0 {
		workers = 1
	}

	type scoreResult struct {
		idx     int
		scores  schema.ScoreSet
		metrics schema.RepositoryMetrics
		err     error
	}

	idxCh := make(chan int, len(repos))
	resultCh := make(chan scoreResult, len(repos))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for i := range idxCh {
				repo := &repos[i]
				scores, err := c.scoreRepository(repo)
				if err != nil {
					resultCh <- scoreResult{idx: i, err: err}
					continue
				}
				resultCh <- scoreResult{idx: i, scores: scores, metrics: c.Metrics(repo)}
			}
		})
	}

	for i := range repos {
		idxCh <- i
	}
	close(idxCh)

	wg.Wait()
	close(resultCh)

	metricsMap := make(map[int64]schema.RepositoryMetrics, len(repos))
	for r := range resultCh {
		if r.err != nil {
			contract.LogWarn("Skipping repository during scoring", r.err)
			continue
		}
		scores := r.scores
		repos[r.idx].Scores = &scores
		metricsMap[repos[r.idx].ID] = r.metrics
	}
	return metricsMap
}

// pushRecencyFactor buckets days since last push into an activity factor.
func pushRecencyFactor(daysSincePush int) float64 {
	switch {
	case daysSincePush <= 7:
		return 1.0
	case daysSincePush <= 30:
		return 0.8
	case daysSincePush <= 90:
		return 0.6
	default:
		return 0.3
	}
}

// documentationSignal scores README length, the documentation flag and the
// description, capped to [0,1].
func documentationSignal(repo *schema.Repository) float64 {
	var doc float64
	if repo.ReadmeLength > 0 {
		switch {
		case repo.ReadmeLength > 500:
			doc += 0.4
		case repo.ReadmeLength > 200:
			doc += 0.3
		default:
			doc += 0.2
		}
	}
	if repo.HasDocumentation {
		doc += 0.3
	}
	if len(repo.Description) > 20 {
		doc += 0.2
	}
	return math.Min(doc, 1.0)
}

// codeSignal scores tests, CI, license and topic coverage, capped to [0,1].
func codeSignal(repo *schema.Repository) float64 {
	var code float64
	if repo.HasTests {
		code += 0.4
	}
	if repo.HasCI {
		code += 0.3
	}
	if repo.LicenseName != "" {
		code += 0.2
	}
	if len(repo.Topics) >= 3 {
		code += 0.1
	}
	return math.Min(code, 1.0)
}

// contributorDiversity buckets a contributor count into [0,1].
func contributorDiversity(count int) float64 {
	switch {
	case count >= 50:
		return 1.0
	case count >= 20:
		return 0.8
	case count >= 10:
		return 0.6
	case count >= 5:
		return 0.4
	case count >= 2:
		return 0.2
	case count >= 1:
		return 0.1
	default:
		return 0.0
	}
}
