// Package main provides a performance benchmarking tool for the airank CLI.
// It measures execution times across different input-set sizes and command
// types, running each test multiple times, treating the first successful run
// as cold and averaging the rest as warm, generating CSV output for
// performance analysis and documentation.
//
// Prerequisites:
// - airank binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory for generated input files and snapshots
package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset  string
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Workers      int
	Runs         int
	DatasetSizes map[string]int
}

// benchRepo mirrors the scraper's enriched repository JSON shape.
type benchRepo struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	FullName          string    `json:"full_name"`
	Description       string    `json:"description"`
	HTMLURL           string    `json:"html_url"`
	Stars             int       `json:"stargazers_count"`
	Forks             int       `json:"forks_count"`
	OpenIssues        int       `json:"open_issues_count"`
	SizeKB            int64     `json:"size"`
	Language          string    `json:"language"`
	Topics            []string  `json:"topics"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	PushedAt          time.Time `json:"pushed_at"`
	ContributorsCount int       `json:"contributors_count"`
	ReadmeLength      int       `json:"readme_length"`
	HasCI             bool      `json:"has_ci"`
	HasTests          bool      `json:"has_tests"`
	HasDocumentation  bool      `json:"has_documentation"`
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir: workDir,
		Timeout: 5 * time.Minute,
		Workers: 8,
		Runs:    4,
		DatasetSizes: map[string]int{
			"small":  100,
			"medium": 1000,
			"large":  10000,
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the airank binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if airank is available
	if _, err := exec.LookPath("airank"); err != nil {
		return fmt.Errorf("airank binary not found in PATH")
	}

	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work dir %s: %w", config.WorkDir, err)
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured dataset sizes
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, %d runs each\n",
		len(config.DatasetSizes), config.Timeout, config.Workers, config.Runs)

	for _, name := range []string{"small", "medium", "large"} {
		size := config.DatasetSizes[name]
		fmt.Printf("Benchmarking %s (%d repositories)\n", name, size)

		inputPath := filepath.Join(config.WorkDir, fmt.Sprintf("repos_%s.json", name))
		if err := writeDataset(inputPath, size); err != nil {
			fmt.Printf("Failed to write dataset %s: %v\n", name, err)
			continue
		}

		// Full leaderboard generation
		results = append(results, runBenchmarkSuite(config, name, "generate", inputPath))

		// Hidden-gem detection only
		results = append(results, runBenchmarkSuite(config, name, "gems", inputPath))
	}

	return results
}

// writeDataset generates a synthetic scraper output file of the given size.
// Star counts, ages and activity spread across all three category bands so
// each command has real work to do.
func writeDataset(path string, size int) error {
	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC()
	languages := []string{"Python", "Rust", "Go", "C++", "TypeScript"}
	topicSets := [][]string{
		{"machine-learning", "pytorch"},
		{"llm", "rag", "nlp"},
		{"deep-learning", "compiler"},
		{"computer-vision", "diffusion-models"},
	}

	repos := make([]benchRepo, 0, size)
	for i := range size {
		created := now.Add(-time.Duration(30+rng.Intn(2000)) * 24 * time.Hour)
		pushed := now.Add(-time.Duration(rng.Intn(200)) * 24 * time.Hour)
		repos = append(repos, benchRepo{
			ID:                int64(i + 1),
			Name:              fmt.Sprintf("repo-%d", i+1),
			FullName:          fmt.Sprintf("bench/repo-%d", i+1),
			Description:       "A novel framework for efficient model training and inference",
			HTMLURL:           fmt.Sprintf("https://github.com/bench/repo-%d", i+1),
			Stars:             rng.Intn(30000),
			Forks:             rng.Intn(2000),
			OpenIssues:        rng.Intn(300),
			SizeKB:            int64(500 + rng.Intn(100000)),
			Language:          languages[rng.Intn(len(languages))],
			Topics:            topicSets[rng.Intn(len(topicSets))],
			CreatedAt:         created,
			UpdatedAt:         pushed,
			PushedAt:          pushed,
			ContributorsCount: 1 + rng.Intn(150),
			ReadmeLength:      rng.Intn(6000),
			HasCI:             rng.Intn(2) == 0,
			HasTests:          rng.Intn(2) == 0,
			HasDocumentation:  rng.Intn(2) == 0,
		})
	}

	data, err := json.Marshal(repos)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// runBenchmarkSuite runs repeated benchmarks for a command against one dataset
func runBenchmarkSuite(config BenchmarkConfig, dataset, command, inputPath string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, dataset)

	cold, times := runBenchmark(config, command, inputPath)

	coldStr := "TIMEOUT"
	if cold > 0 {
		coldStr = fmt.Sprintf("%.3fs", cold)
	}

	warmStr := "TIMEOUT"
	if len(times) > 0 {
		var sum float64
		for _, t := range times {
			sum += t
		}
		warmStr = fmt.Sprintf("%.3fs", sum/float64(len(times)))
	}

	fmt.Printf("  Cold time: %s, Warm average: %s\n", coldStr, warmStr)

	return BenchmarkResult{
		Dataset:  dataset,
		Command:  command,
		ColdTime: coldStr,
		WarmTime: warmStr,
	}
}

// runBenchmark executes an airank command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command, inputPath string) (coldTime float64, warmTimes []float64) {
	args := []string{
		command, inputPath,
		"--workers", fmt.Sprintf("%d", config.Workers),
		"--data-dir", filepath.Join(config.WorkDir, "data"),
		"--cache-backend", "none",
	}

	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("airank", args...)
		cmd.Dir = config.WorkDir

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	var completionPhrase string
	if command == "gems" {
		completionPhrase = "Detection completed in"
	} else {
		completionPhrase = "Generation completed in"
	}

	return strings.Contains(outputStr, completionPhrase) &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/airank_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "generate", "Leaderboard Generation:")
	printCommandSummary(results, "gems", "Hidden-Gem Detection:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-8s: Cold: %s, Warm: %s\n", result.Dataset, result.ColdTime, result.WarmTime)
		}
	}
}
