package schema

// ScoringWeights is the flat weight configuration shared by the scoring
// components. It replaces a module-global settings object: an immutable copy
// is handed to each component at construction so weight experiments need no
// global state. The weights feed the flat composite score (see
// core.Calculator.CompositeScore); the momentum and quality formulas carry
// their own published per-term constants.
type ScoringWeights struct {
	Star                 float64 `mapstructure:"star"`
	RecentActivity       float64 `mapstructure:"recent_activity"`
	ContributorDiversity float64 `mapstructure:"contributor_diversity"`
	CodeQuality          float64 `mapstructure:"code_quality"`
	Documentation        float64 `mapstructure:"documentation"`
}

// DefaultScoringWeights returns the standard weight configuration.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Star:                 0.3,
		RecentActivity:       0.25,
		ContributorDiversity: 0.2,
		CodeQuality:          0.15,
		Documentation:        0.1,
	}
}

// GemCriteria are the eligibility gates and score threshold applied by the
// hidden-gem detector. A repository failing any gate scores exactly 0.
type GemCriteria struct {
	MaxStars                 int     `mapstructure:"max_stars"`
	MinQualityScore          float64 `mapstructure:"min_quality_score"`
	MinContributors          int     `mapstructure:"min_contributors"`
	MaxAgeDays               int     `mapstructure:"max_age_days"`
	MinReadmeLength          int     `mapstructure:"min_readme_length"`
	RequireActiveMaintenance bool    `mapstructure:"require_active_maintenance"`
	MaxDaysSincePush         int     `mapstructure:"max_days_since_push"`
}

// DefaultGemCriteria returns the standard hidden-gem gates.
func DefaultGemCriteria() GemCriteria {
	return GemCriteria{
		MaxStars:                 1000,
		MinQualityScore:          0.7,
		MinContributors:          2,
		MaxAgeDays:               730, // 2 years
		MinReadmeLength:          200,
		RequireActiveMaintenance: true,
		MaxDaysSincePush:         90,
	}
}

// GemGroupWeights are the weights applied to the detector's four
// component-group means.
type GemGroupWeights struct {
	CodeQuality float64
	Community   float64
	Innovation  float64
	Maintenance float64
}

// DefaultGemGroupWeights returns the standard group weighting.
func DefaultGemGroupWeights() GemGroupWeights {
	return GemGroupWeights{
		CodeQuality: 0.3,
		Community:   0.25,
		Innovation:  0.25,
		Maintenance: 0.2,
	}
}
