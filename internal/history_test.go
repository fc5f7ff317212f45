package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T, limit int) *HistoryStore {
	t.Helper()
	return NewHistoryStore(filepath.Join(t.TempDir(), "history.json"), limit)
}

func TestHistoryStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t, 20)

	entries, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Load() returned %d entries, expected 0", len(entries))
	}
}

func TestHistoryStoreAdd(t *testing.T) {
	store := newTestStore(t, 20)

	entry, err := store.Add("https://youtu.be/abc", "First Video", "/tmp/first", TaskStatusCompleted)
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if entry.ID == "" {
		t.Error("Add() returned entry without ID")
	}
	if entry.Timestamp.IsZero() {
		t.Error("Add() returned entry without timestamp")
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Load() returned %d entries, expected 1", len(entries))
	}
	if entries[0].Title != "First Video" {
		t.Errorf("entry title = %q", entries[0].Title)
	}
	if entries[0].Status != TaskStatusCompleted {
		t.Errorf("entry status = %q", entries[0].Status)
	}
}

func TestHistoryStoreNewestFirst(t *testing.T) {
	store := newTestStore(t, 20)

	if _, err := store.Add("https://youtu.be/a", "Old", "", TaskStatusCompleted); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add("https://youtu.be/b", "New", "", TaskStatusCompleted); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("Load() returned %d entries, expected 2", len(entries))
	}
	if entries[0].Title != "New" {
		t.Errorf("newest entry first, got %q", entries[0].Title)
	}
}

func TestHistoryStoreDedupeByURL(t *testing.T) {
	store := newTestStore(t, 20)

	if _, err := store.Add("https://youtu.be/a", "First Attempt", "", TaskStatusError); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add("https://youtu.be/b", "Other", "", TaskStatusCompleted); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add("https://youtu.be/a", "Second Attempt", "", TaskStatusCompleted); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("Load() returned %d entries, expected 2 after dedupe", len(entries))
	}
	if entries[0].Title != "Second Attempt" {
		t.Errorf("deduped entry should be newest, got %q", entries[0].Title)
	}
	if entries[0].Status != TaskStatusCompleted {
		t.Errorf("deduped entry status = %q", entries[0].Status)
	}
}

func TestHistoryStoreLimit(t *testing.T) {
	store := newTestStore(t, 3)

	urls := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, url := range urls {
		if _, err := store.Add("https://youtu.be/"+url, url, "", TaskStatusCompleted); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("Load() returned %d entries, expected limit of 3", len(entries))
	}
	if entries[0].Title != "u5" || entries[2].Title != "u3" {
		t.Errorf("unexpected retained entries: %q ... %q", entries[0].Title, entries[2].Title)
	}
}

func TestHistoryStoreCorruptFileResets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewHistoryStore(path, 20)

	entries, err := store.Load()
	if err != nil {
		t.Fatalf("Load() on corrupt file error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Load() on corrupt file returned %d entries, expected 0", len(entries))
	}

	// Recording still works and replaces the corrupt file
	if _, err := store.Add("https://youtu.be/a", "Video", "", TaskStatusCompleted); err != nil {
		t.Fatalf("Add() after corrupt file error: %v", err)
	}
	entries, err = store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Load() after reset returned %d entries, expected 1", len(entries))
	}
}

func TestHistoryStoreStatusTransitions(t *testing.T) {
	store := newTestStore(t, 20)
	url := "https://youtu.be/abc"

	if _, err := store.Add(url, "", "", TaskStatusDownloading); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Status != TaskStatusDownloading {
		t.Fatalf("in-progress entry not recorded: %+v", entries)
	}
	if entries[0].StatusLabel() != "downloading (interrupted)" {
		t.Errorf("StatusLabel() = %q", entries[0].StatusLabel())
	}

	if _, err := store.Add(url, "Video", "/tmp/session", TaskStatusCompleted); err != nil {
		t.Fatal(err)
	}

	entries, err = store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("status transition duplicated the entry: %d entries", len(entries))
	}
	if entries[0].Status != TaskStatusCompleted {
		t.Errorf("final status = %q", entries[0].Status)
	}
	if entries[0].StatusLabel() != "completed" {
		t.Errorf("StatusLabel() = %q", entries[0].StatusLabel())
	}
}

func TestHistoryStoreClear(t *testing.T) {
	store := newTestStore(t, 20)

	if _, err := store.Add("https://youtu.be/a", "Video", "", TaskStatusCompleted); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Load() after Clear() returned %d entries", len(entries))
	}

	// Clearing an already empty history should not fail
	if err := store.Clear(); err != nil {
		t.Errorf("Clear() on empty history error: %v", err)
	}
}
