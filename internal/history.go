package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one processed video
type HistoryEntry struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Path      string     `json:"path"`
	Status    TaskStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

// StatusLabel returns the status for display. An active status in a
// persisted entry means the run never finished.
func (e HistoryEntry) StatusLabel() string {
	if e.Status.IsActive() {
		return e.Status.String() + " (interrupted)"
	}
	return e.Status.String()
}

// HistoryStore persists recent download history as JSON, newest first,
// deduplicated by URL and capped at a fixed number of entries
type HistoryStore struct {
	path  string
	limit int
}

// NewHistoryStore creates a history store backed by the given file
func NewHistoryStore(path string, limit int) *HistoryStore {
	if limit <= 0 {
		limit = HistoryLimit
	}
	return &HistoryStore{path: path, limit: limit}
}

// Load reads all history entries. A missing file yields an empty history.
func (hs *HistoryStore) Load() ([]HistoryEntry, error) {
	data, err := os.ReadFile(hs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading history file: %w", err)
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt history file is not worth failing the pipeline over;
		// start over with an empty history
		fmt.Fprintf(os.Stderr, "Warning: history file %s is corrupt, resetting: %v\n", hs.path, err)
		return nil, nil
	}

	return entries, nil
}

// Add records an entry at the front of the history, replacing any older
// entry for the same URL
func (hs *HistoryStore) Add(url, title, path string, status TaskStatus) (*HistoryEntry, error) {
	entries, err := hs.Load()
	if err != nil {
		return nil, err
	}

	entry := HistoryEntry{
		ID:        uuid.NewString(),
		URL:       url,
		Title:     title,
		Path:      path,
		Status:    status,
		Timestamp: time.Now(),
	}

	deduped := make([]HistoryEntry, 0, len(entries)+1)
	deduped = append(deduped, entry)
	for _, existing := range entries {
		if existing.URL != url {
			deduped = append(deduped, existing)
		}
	}

	if len(deduped) > hs.limit {
		deduped = deduped[:hs.limit]
	}

	if err := hs.save(deduped); err != nil {
		return nil, err
	}

	return &entry, nil
}

// Clear removes all history entries
func (hs *HistoryStore) Clear() error {
	if err := os.Remove(hs.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func (hs *HistoryStore) save(entries []HistoryEntry) error {
	if err := EnsureDirs(filepath.Dir(hs.path)); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}

	if err := os.WriteFile(hs.path, data, 0o644); err != nil {
		return fmt.Errorf("writing history file: %w", err)
	}

	return nil
}
