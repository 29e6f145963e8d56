package iocache

import (
	"fmt"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// PrintCacheStatus prints embedding cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	if status.Backend == schema.NoneBackend {
		return
	}
	fmt.Printf("Total Entries: %d\n", status.Entries)
	if status.Entries > 0 {
		fmt.Printf("Newest Entry: %s\n", time.Unix(status.NewestUnix, 0).UTC().Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Entry: %s\n", time.Unix(status.OldestUnix, 0).UTC().Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.SizeBytes)
}

// PrintRunHistory prints run records, newest first.
func PrintRunHistory(records []schema.RunRecord) {
	if len(records) == 0 {
		fmt.Println("No runs recorded.")
		return
	}
	fmt.Printf("Total Runs: %d\n", len(records))
	for _, record := range records {
		fmt.Printf("Run %s\n", record.ID)
		fmt.Printf("  Started: %s\n", record.StartedAt.Format("2006-01-02 15:04:05"))
		if record.FinishedAt != nil {
			fmt.Printf("  Finished: %s\n", record.FinishedAt.Format("2006-01-02 15:04:05"))
		}
		if record.DurationMs != nil {
			fmt.Printf("  Duration: %dms\n", *record.DurationMs)
		}
		fmt.Printf("  Analyzed: %d repos (trending %d, established %d, gems %d, clusters %d)\n",
			record.ReposAnalyzed, record.Trending, record.Established, record.HiddenGems, record.Clusters)
		fmt.Printf("  Status: %s\n", record.Status)
	}
}
