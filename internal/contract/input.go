package contract

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// LoadRepositories reads the scraper's enriched repository file, a JSON array
// of repository objects. Timestamps are normalized to UTC on load so every
// downstream date computation works on a single zone.
func LoadRepositories(path string) ([]schema.Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("input path is required (pass the scraper output file)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	var repos []schema.Repository
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("failed to parse input file %s: %w", path, err)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("input file %s contains no repositories", path)
	}

	for i := range repos {
		repos[i].NormalizeTimes()
	}
	return repos, nil
}
