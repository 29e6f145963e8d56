package schema

import (
	"sort"
	"strings"
	"time"
)

// DaysBetween returns the number of whole days from earlier to later.
func DaysBetween(earlier, later time.Time) int {
	d := later.Sub(earlier)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// Clamp01 clamps v to the [0,1] interval.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ContainsAnyKeyword reports whether text contains at least one of the
// keywords. Matching is case-insensitive substring matching.
func ContainsAnyKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// CountKeywordMatches returns how many of the keywords occur in text.
// Matching is case-insensitive substring matching.
func CountKeywordMatches(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			count++
		}
	}
	return count
}

// TopicText joins a repository's topics into one lowercase string for
// keyword matching.
func TopicText(topics []string) string {
	return strings.ToLower(strings.Join(topics, " "))
}

// TopFrequencies tallies the given values and returns the top n name/count
// pairs sorted by descending count, ties broken alphabetically so output is
// deterministic.
func TopFrequencies(values []string, n int) []FrequencyCount {
	counts := make(map[string]int)
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}

	out := make([]FrequencyCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, FrequencyCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
