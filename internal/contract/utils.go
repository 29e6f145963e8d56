package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Scoring label constants.
const (
	ExceptionalValue = "Exceptional" // Exceptional value
	StrongValue      = "Strong"      // Strong value
	PromisingValue   = "Promising"   // Promising value
	EmergingValue    = "Emerging"    // Emerging value
)

// Color variables for console output.
var (
	ExceptionalColor = color.New(color.FgGreen, color.Bold) // top-tier entries
	StrongColor      = color.New(color.FgCyan, color.Bold)  // solid entries
	PromisingColor   = color.New(color.FgYellow)            // mid-tier entries
	EmergingColor    = color.New(color.FgWhite)             // everything else
)

// GetPlainLabel returns a plain text label indicating the tier of a
// normalized [0,1] score. This is the core logic used for CSV, JSON, and
// table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 0.85:
		return ExceptionalValue
	case score >= 0.7:
		return StrongValue
	case score >= 0.5:
		return PromisingValue
	default:
		return EmergingValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case ExceptionalValue:
		return ExceptionalColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case PromisingValue:
		return PromisingColor.Sprint(text)
	default: // "Emerging"
		return EmergingColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr so it never mixes with
// machine-readable output on stdout.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for embedding
// cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".airank_cache.db"
	}
	return filepath.Join(homeDir, ".airank_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run
// history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".airank_history.db"
	}
	return filepath.Join(homeDir, ".airank_history.db")
}
