package core

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// Detector applies strict multi-gate eligibility and an innovation-weighted
// scoring formula to find low-visibility, high-quality repositories. It is
// deliberately richer than Calculator.HiddenGemPotential and the two can
// disagree; the generator uses the Detector for the hidden-gems category.
type Detector struct {
	criteria schema.GemCriteria
	groups   schema.GemGroupWeights
	now      func() time.Time
}

// NewDetector returns a Detector with the given eligibility gates and the
// standard component-group weighting.
func NewDetector(criteria schema.GemCriteria) *Detector {
	return &Detector{
		criteria: criteria,
		groups:   schema.DefaultGemGroupWeights(),
		now:      time.Now,
	}
}

// Score computes the hidden-gem score in [0,1] along with the per-group
// breakdown. Repositories failing any eligibility gate score exactly 0.
func (d *Detector) Score(repo *schema.Repository) (float64, schema.GemBreakdown) {
	if !d.eligible(repo) {
		return 0.0, schema.GemBreakdown{}
	}

	codeQuality := d.codeQualityIndicators(repo)
	community := d.communityEngagement(repo)
	innovation := d.innovationPotential(repo)
	maintenance := d.maintenanceQuality(repo)

	score := mapMean(codeQuality)*d.groups.CodeQuality +
		mapMean(community)*d.groups.Community +
		mapMean(innovation)*d.groups.Innovation +
		mapMean(maintenance)*d.groups.Maintenance

	// Reward lower star counts with up to a 20% multiplier.
	starPenalty := math.Min(float64(repo.Stars)/float64(d.criteria.MaxStars), 1.0)
	score *= 1.0 - starPenalty*0.2
	score = math.Min(score, 1.0)

	return score, schema.GemBreakdown{
		CodeQuality: codeQuality,
		Community:   community,
		Innovation:  innovation,
		Maintenance: maintenance,
		Overall:     score,
	}
}

// Detect scores every candidate, retains those at or above the configured
// minimum, and returns the top k sorted descending by score. Errors scoring
// an individual repository are logged and that repository skipped.
func (d *Detector) Detect(repos []schema.Repository, topK int) []schema.GemResult {
	gems := make([]schema.GemResult, 0)
	for i := range repos {
		repo := &repos[i]
		if repo.CreatedAt.IsZero() || repo.UpdatedAt.IsZero() || repo.PushedAt.IsZero() {
			contract.LogWarn("Skipping hidden-gem candidate",
				fmt.Errorf("repository %s has missing timestamps", repo.FullName))
			continue
		}

		score, breakdown := d.Score(repo)
		if score >= d.criteria.MinQualityScore {
			gems = append(gems, schema.GemResult{
				Repository: *repo,
				Score:      score,
				Breakdown:  breakdown,
			})
		}
	}

	sort.SliceStable(gems, func(i, j int) bool { return gems[i].Score > gems[j].Score })
	if len(gems) > topK {
		gems = gems[:topK]
	}
	return gems
}

// Insights aggregates a detected gem set into distributions and common
// characteristics for downstream display.
func (d *Detector) Insights(gems []schema.GemResult) schema.GemInsights {
	if len(gems) == 0 {
		return schema.GemInsights{}
	}

	scores := make([]float64, 0, len(gems))
	languages := make([]string, 0, len(gems))
	topics := make([]string, 0)
	ageBuckets := map[string]int{"<3 months": 0, "3-6 months": 0, "6-12 months": 0, "1-2 years": 0}

	now := d.now().UTC()
	var withTests, withCI, withDocs, withLicense int
	var sumContrib, sumReadme int

	for _, gem := range gems {
		repo := gem.Repository
		scores = append(scores, gem.Score)
		languages = append(languages, repo.Language)
		topics = append(topics, repo.Topics...)

		switch ageDays := schema.DaysBetween(repo.CreatedAt, now); {
		case ageDays < 90:
			ageBuckets["<3 months"]++
		case ageDays < 180:
			ageBuckets["3-6 months"]++
		case ageDays < 365:
			ageBuckets["6-12 months"]++
		default:
			ageBuckets["1-2 years"]++
		}

		if repo.HasTests {
			withTests++
		}
		if repo.HasCI {
			withCI++
		}
		if repo.HasDocumentation {
			withDocs++
		}
		if repo.LicenseName != "" {
			withLicense++
		}
		sumContrib += repo.ContributorsCount
		sumReadme += repo.ReadmeLength
	}

	n := float64(len(gems))
	minScore, maxScore, median, stddev := scoreDistribution(scores)

	return schema.GemInsights{
		TotalFound:      len(gems),
		AverageScore:    sum(scores) / n,
		MinScore:        minScore,
		MaxScore:        maxScore,
		MedianScore:     median,
		ScoreStdDev:     stddev,
		TopLanguages:    schema.TopFrequencies(languages, 5),
		TopTopics:       schema.TopFrequencies(topics, 10),
		AgeBuckets:      ageBuckets,
		WithTestsPct:    float64(withTests) / n * 100,
		WithCIPct:       float64(withCI) / n * 100,
		WithDocsPct:     float64(withDocs) / n * 100,
		WithLicensePct:  float64(withLicense) / n * 100,
		AvgContributors: float64(sumContrib) / n,
		AvgReadmeLength: float64(sumReadme) / n,
	}
}

// eligible checks every hidden-gem gate. All must pass.
func (d *Detector) eligible(repo *schema.Repository) bool {
	if repo.Stars > d.criteria.MaxStars {
		return false
	}

	now := d.now().UTC()
	if schema.DaysBetween(repo.CreatedAt, now) > d.criteria.MaxAgeDays {
		return false
	}
	if repo.ContributorsCount < d.criteria.MinContributors {
		return false
	}
	if repo.ReadmeLength < d.criteria.MinReadmeLength {
		return false
	}
	if d.criteria.RequireActiveMaintenance &&
		schema.DaysBetween(repo.PushedAt, now) > d.criteria.MaxDaysSincePush {
		return false
	}
	return true
}

// codeQualityIndicators scores testing, CI/CD, documentation completeness
// and organizational maturity, each capped to [0,1].
func (d *Detector) codeQualityIndicators(repo *schema.Repository) map[schema.BreakdownKey]float64 {
	indicators := make(map[schema.BreakdownKey]float64)
	topicText := schema.TopicText(repo.Topics)

	var testing float64
	if repo.HasTests {
		testing += 0.6
	}
	if schema.ContainsAnyKeyword(topicText, schema.TestKeywords) {
		testing += 0.2
	}
	if schema.ContainsAnyKeyword(repo.Description, schema.TestKeywords) {
		testing += 0.2
	}
	indicators[schema.BreakdownTesting] = math.Min(testing, 1.0)

	var ci float64
	if repo.HasCI {
		ci = 0.8
	}
	indicators[schema.BreakdownCICD] = ci

	var doc float64
	switch {
	case repo.ReadmeLength >= 1000:
		doc += 0.4
	case repo.ReadmeLength >= 500:
		doc += 0.3
	case repo.ReadmeLength >= 200:
		doc += 0.2
	}
	if repo.HasDocumentation {
		doc += 0.3
	}
	if len(repo.Description) > 30 {
		doc += 0.2
	}
	if schema.ContainsAnyKeyword(topicText, schema.DocKeywords) {
		doc += 0.1
	}
	indicators[schema.BreakdownDocumentation] = math.Min(doc, 1.0)

	var org float64
	if repo.LicenseName != "" {
		org += 0.3
	}
	if len(repo.Topics) >= 3 {
		org += 0.2
	}
	if schema.ContainsAnyKeyword(topicText, schema.StructureKeywords) {
		org += 0.2
	}
	// Size sanity band: 100KB to 50MB suggests deliberate structure.
	if repo.SizeKB >= 100 && repo.SizeKB <= 50000 {
		org += 0.3
	}
	indicators[schema.BreakdownOrganization] = math.Min(org, 1.0)

	return indicators
}

// communityEngagement scores contributor diversity and the contributor,
// issue and fork ratios relative to stars, each capped to [0,1].
func (d *Detector) communityEngagement(repo *schema.Repository) map[schema.BreakdownKey]float64 {
	engagement := make(map[schema.BreakdownKey]float64)

	var contrib float64
	switch {
	case repo.ContributorsCount >= 10:
		contrib = 1.0
	case repo.ContributorsCount >= 5:
		contrib = 0.8
	case repo.ContributorsCount >= 3:
		contrib = 0.6
	case repo.ContributorsCount >= 2:
		contrib = 0.4
	default:
		contrib = 0.1
	}
	engagement[schema.BreakdownContribDiversity] = contrib

	var activityRatio float64
	if repo.Stars > 0 {
		// Higher contributor-per-star ratio means a more active community
		// relative to popularity.
		activityRatio = math.Min(float64(repo.ContributorsCount)/float64(repo.Stars)*20, 1.0)
	}
	engagement[schema.BreakdownActivityRatio] = activityRatio

	var issueEngagement float64
	if repo.Stars > 0 && repo.OpenIssues > 0 {
		issueEngagement = math.Min(float64(repo.OpenIssues)/float64(repo.Stars)*10, 1.0)
	}
	engagement[schema.BreakdownIssueEngagement] = issueEngagement

	var forkEngagement float64
	if repo.Stars > 0 {
		forkRatio := float64(repo.Forks) / float64(max(repo.Stars, 1))
		forkEngagement = math.Min(forkRatio*5, 1.0)
	}
	engagement[schema.BreakdownForkEngagement] = forkEngagement

	return engagement
}

// innovationPotential scores novelty against cutting-edge AI topics and
// research orientation against a research-keyword list.
func (d *Detector) innovationPotential(repo *schema.Repository) map[schema.BreakdownKey]float64 {
	innovation := make(map[schema.BreakdownKey]float64)
	topicText := schema.TopicText(repo.Topics)

	var novelty float64
	if len(repo.Topics) > 0 {
		matches := schema.CountKeywordMatches(topicText, schema.CuttingEdgeTopics)
		novelty += math.Min(float64(matches)*0.2, 0.8)
	}
	if repo.Description != "" {
		matches := schema.CountKeywordMatches(repo.Description, schema.InnovationKeywords)
		novelty += math.Min(float64(matches)*0.1, 0.2)
	}
	innovation[schema.BreakdownNovelty] = math.Min(novelty, 1.0)

	var research float64
	if len(repo.Topics) > 0 {
		matches := schema.CountKeywordMatches(topicText, schema.ResearchKeywords)
		research += math.Min(float64(matches)*0.15, 0.6)
	}
	if repo.Description != "" {
		matches := schema.CountKeywordMatches(repo.Description, schema.ResearchKeywords)
		research += math.Min(float64(matches)*0.1, 0.4)
	}
	innovation[schema.BreakdownResearch] = math.Min(research, 1.0)

	return innovation
}

// maintenanceQuality scores push recency, update consistency and the
// maturity sweet spot (30-365 days old scores highest).
func (d *Detector) maintenanceQuality(repo *schema.Repository) map[schema.BreakdownKey]float64 {
	maintenance := make(map[schema.BreakdownKey]float64)
	now := d.now().UTC()

	daysSincePush := schema.DaysBetween(repo.PushedAt, now)
	var activity float64
	switch {
	case daysSincePush <= 7:
		activity = 1.0
	case daysSincePush <= 30:
		activity = 0.8
	case daysSincePush <= 90:
		activity = 0.6
	case daysSincePush <= 180:
		activity = 0.4
	default:
		activity = 0.2
	}
	maintenance[schema.BreakdownRecentActivity] = activity

	// The metadata-update timestamp should not lag far behind the push
	// timestamp on a consistently maintained project.
	daysSinceUpdate := schema.DaysBetween(repo.UpdatedAt, now)
	var consistency float64
	switch {
	case daysSinceUpdate <= daysSincePush+1:
		consistency = 1.0
	case daysSinceUpdate <= 30:
		consistency = 0.8
	default:
		consistency = 0.5
	}
	maintenance[schema.BreakdownUpdateConsistency] = consistency

	ageDays := schema.DaysBetween(repo.CreatedAt, now)
	var maturity float64
	switch {
	case ageDays >= 30 && ageDays <= 365:
		maturity = 1.0
	case ageDays <= 730:
		maturity = 0.8
	default:
		maturity = 0.4
	}
	maintenance[schema.BreakdownMaturityBalance] = maturity

	return maintenance
}

// mapMean returns the unweighted mean of map values, 0 for an empty map.
func mapMean(m map[schema.BreakdownKey]float64) float64 {
	if len(m) == 0 {
		return 0.0
	}
	var total float64
	for _, v := range m {
		total += v
	}
	return total / float64(len(m))
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// scoreDistribution returns min, max, median and population standard
// deviation of a non-empty score slice.
func scoreDistribution(scores []float64) (minScore, maxScore, median, stddev float64) {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	minScore = sorted[0]
	maxScore = sorted[len(sorted)-1]

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		median = sorted[mid]
	}

	mean := sum(sorted) / float64(len(sorted))
	var variance float64
	for _, v := range sorted {
		variance += (v - mean) * (v - mean)
	}
	stddev = math.Sqrt(variance / float64(len(sorted)))
	return minScore, maxScore, median, stddev
}
