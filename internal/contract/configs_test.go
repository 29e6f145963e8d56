package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		InputPathStr: "repos.json",
		Workers:      4,
		Output:       "text",
		Precision:    2,
		Policy:       "non-exclusive",
		CacheBackend: "sqlite",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid minimal config",
			mutate: func(in *ConfigRawInput) {},
		},
		{
			name:        "zero workers",
			mutate:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: "workers must be greater than 0",
		},
		{
			name:        "invalid output format",
			mutate:      func(in *ConfigRawInput) { in.Output = "yaml" },
			expectError: "invalid output format",
		},
		{
			name:        "precision out of range",
			mutate:      func(in *ConfigRawInput) { in.Precision = 7 },
			expectError: "precision must be between 1 and 4",
		},
		{
			name:        "negative cluster count",
			mutate:      func(in *ConfigRawInput) { in.ClusterCount = -1 },
			expectError: "cluster-count cannot be negative",
		},
		{
			name:        "invalid overlap policy",
			mutate:      func(in *ConfigRawInput) { in.Policy = "winner-takes-all" },
			expectError: "invalid overlap policy",
		},
		{
			name:        "similar limit over cap",
			mutate:      func(in *ConfigRawInput) { in.SimilarLimit = 500 },
			expectError: "similar-limit cannot exceed",
		},
		{
			name:        "invalid cache backend",
			mutate:      func(in *ConfigRawInput) { in.CacheBackend = "redis" },
			expectError: "invalid cache backend",
		},
		{
			name: "mysql backend requires connection string",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "mysql"
			},
			expectError: "cache-db-connect is required",
		},
		{
			name: "invalid history backend",
			mutate: func(in *ConfigRawInput) {
				in.HistoryBackend = "cassandra"
			},
			expectError: "invalid history backend",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRawInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, validRawInput())
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultEmbedURL, cfg.EmbedURL)
	assert.Equal(t, DefaultEmbedBatchSize, cfg.EmbedBatchSize)
	assert.Equal(t, DefaultSimilarLimit, cfg.SimilarLimit)
	assert.Equal(t, DefaultCronSpec, cfg.CronSpec)
	assert.Equal(t, schema.NonExclusiveOverlap, cfg.Policy)
	assert.True(t, cfg.UseColors)

	// Empty history backend means history tracking stays off.
	assert.Empty(t, cfg.HistoryBackend)

	// Scoring defaults come through untouched when no overrides are set.
	assert.Equal(t, schema.DefaultScoringWeights(), cfg.Weights)
	assert.Equal(t, schema.DefaultGemCriteria(), cfg.Criteria)
}

func TestProcessAndValidateScoringOverrides(t *testing.T) {
	input := validRawInput()
	star := 0.5
	maxStars := 2000
	input.Weights.Star = &star
	input.Criteria.MaxStars = &maxStars

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, 0.5, cfg.Weights.Star)
	assert.Equal(t, 2000, cfg.Criteria.MaxStars)

	// Untouched fields keep their defaults.
	defaults := schema.DefaultScoringWeights()
	assert.Equal(t, defaults.CodeQuality, cfg.Weights.CodeQuality)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite ignores connection string", schema.SQLiteBackend, "", false},
		{"none ignores connection string", schema.NoneBackend, "", false},
		{"valid mysql", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/airank", false},
		{"malformed mysql", schema.MySQLBackend, "root:pw@localhost/airank", true},
		{"valid postgres key-value", schema.PostgreSQLBackend, "host=localhost port=5432 user=postgres", false},
		{"valid postgres url", schema.PostgreSQLBackend, "postgres://postgres@localhost/airank", false},
		{"malformed postgres", schema.PostgreSQLBackend, "localhost:5432", true},
		{"unsupported backend", schema.DatabaseBackend("redis"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Workers: 8, InputPath: "repos.json"}
	clone := cfg.Clone()
	clone.Workers = 2

	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "repos.json", clone.InputPath)
}

func TestLoadRepositories(t *testing.T) {
	dir := t.TempDir()

	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("empty path", func(t *testing.T) {
		_, err := LoadRepositories("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "input path is required")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRepositories(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read input file")
	})

	t.Run("malformed json", func(t *testing.T) {
		path := writeFile("bad.json", "{not json")
		_, err := LoadRepositories(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse input file")
	})

	t.Run("empty array", func(t *testing.T) {
		path := writeFile("empty.json", "[]")
		_, err := LoadRepositories(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contains no repositories")
	})

	t.Run("valid array normalizes timestamps", func(t *testing.T) {
		path := writeFile("ok.json", `[
			{
				"id": 1,
				"full_name": "acme/torch-serve-lite",
				"stargazers_count": 2400,
				"created_at": "2024-09-10T12:00:00+02:00",
				"updated_at": "2026-08-20T09:30:00Z",
				"pushed_at": "2026-08-25T16:45:00Z"
			}
		]`)
		repos, err := LoadRepositories(path)
		require.NoError(t, err)
		require.Len(t, repos, 1)
		assert.Equal(t, int64(1), repos[0].ID)
		assert.Equal(t, "acme/torch-serve-lite", repos[0].FullName)
		assert.Equal(t, "UTC", repos[0].CreatedAt.Location().String())
	})
}
