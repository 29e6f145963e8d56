package iocache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Dark-Matter98/ai-repository-leaderboard/internal/contract"
	"github.com/Dark-Matter98/ai-repository-leaderboard/schema"
)

// snapshotTimeLayout names snapshot files by generation time, so a plain
// directory listing sorts chronologically.
const snapshotTimeLayout = "20060102_150405"

// FileSnapshotStore persists leaderboards as JSON files in a data directory.
// The newest snapshot serves as the baseline for rank-delta computation on
// the next run.
type FileSnapshotStore struct {
	dataDir string
}

var _ contract.SnapshotStore = &FileSnapshotStore{} // Compile-time check

// NewFileSnapshotStore creates the data directory if needed and returns the
// store.
func NewFileSnapshotStore(dataDir string) (*FileSnapshotStore, error) {
	if dataDir == "" {
		dataDir = contract.DefaultDataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory %q: %w", dataDir, err)
	}
	return &FileSnapshotStore{dataDir: dataDir}, nil
}

// Save writes the leaderboard as a timestamped JSON file and returns the
// snapshot name.
func (fs *FileSnapshotStore) Save(board *schema.Leaderboard) (string, error) {
	name := fmt.Sprintf("leaderboard_%s.json", board.GeneratedAt.UTC().Format(snapshotTimeLayout))
	path := filepath.Join(fs.dataDir, name)

	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write snapshot %q: %w", path, err)
	}
	return name, nil
}

// Load reads one snapshot by name. The name may be given with or without
// the .json extension.
func (fs *FileSnapshotStore) Load(name string) (*schema.Leaderboard, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	// Reject path traversal in user-supplied snapshot names.
	if filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid snapshot name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(fs.dataDir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %q: %w", name, err)
	}

	var board schema.Leaderboard
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %q: %w", name, err)
	}
	return &board, nil
}

// LoadLatest returns the most recent snapshot by file modification time, or
// (nil, nil) when no snapshot exists yet.
func (fs *FileSnapshotStore) LoadLatest() (*schema.Leaderboard, error) {
	names, err := fs.List()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	return fs.Load(names[0])
}

// List returns snapshot names, newest first.
func (fs *FileSnapshotStore) List() ([]string, error) {
	entries, err := os.ReadDir(fs.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot directory %q: %w", fs.dataDir, err)
	}

	type candidate struct {
		name  string
		mtime time.Time
	}
	candidates := make([]candidate, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "leaderboard_") || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{name: entry.Name(), mtime: info.ModTime()})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].mtime.After(candidates[j].mtime) })
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}
	return names, nil
}
