package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/journal"
)

func openTestJournal(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), "divergences")
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewJournalSweeper_RejectsBadSchedule(t *testing.T) {
	store := openTestJournal(t)

	if _, err := NewJournalSweeper(store, nil, SweeperConfig{Schedule: "every full moon"}); err == nil {
		t.Fatal("expected error for unparsable schedule")
	}
}

func TestNewJournalSweeper_Defaults(t *testing.T) {
	store := openTestJournal(t)

	s, err := NewJournalSweeper(store, nil, SweeperConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.cfg.Schedule != "@daily" {
		t.Errorf("schedule = %q, want @daily", s.cfg.Schedule)
	}
	if s.cfg.Retention != 720*time.Hour {
		t.Errorf("retention = %v, want 720h", s.cfg.Retention)
	}
}

func TestSweep_PrunesExpiredEntries(t *testing.T) {
	store := openTestJournal(t)

	old := journal.Entry{UserID: "u1", Kind: journal.KindProfileMismatch, At: time.Now().Add(-48 * time.Hour)}
	fresh := journal.Entry{UserID: "u2", Kind: journal.KindProfileMismatch, At: time.Now()}
	if err := store.Record(old); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.Record(fresh); err != nil {
		t.Fatalf("record: %v", err)
	}

	s, err := NewJournalSweeper(store, nil, SweeperConfig{Retention: 24 * time.Hour})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.sweep()

	entries, err := store.List(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != "u2" {
		t.Errorf("expected only the fresh entry to survive, got %+v", entries)
	}
}
