package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "journal")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndListOrder(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, kind := range []string{EventSeminarCreated, EventMemberJoined, EventMemberDropped} {
		err := store.Append(Entry{
			Kind:       kind,
			SeminarID:  "s1",
			ActorID:    "u1",
			RecordedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append %s: %v", kind, err)
		}
	}

	entries, err := store.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].RecordedAt.Before(entries[i-1].RecordedAt) {
			t.Fatalf("entries out of recording order: %v", entries)
		}
	}
	if entries[0].ID == "" {
		t.Fatalf("entry id should be assigned on append")
	}

	size, err := store.Size()
	if err != nil || size != 3 {
		t.Fatalf("size=%d err=%v, want 3", size, err)
	}
}

func TestCleanupRemovesAgedEntries(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		err := store.Append(Entry{
			Kind:       EventMemberJoined,
			SeminarID:  "s1",
			ActorID:    "u1",
			RecordedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := store.Cleanup(base.Add(2 * time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	entries, err := store.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 surviving entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.RecordedAt.Before(base.Add(2 * time.Hour)) {
			t.Fatalf("aged entry survived cleanup: %v", entry.RecordedAt)
		}
	}
}
