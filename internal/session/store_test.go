package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAssignsIdentity(t *testing.T) {
	s := testStore(t)
	saved, err := s.Save(context.Background(), Record{
		Query:      "What is AAPL's PE ratio?",
		Answer:     "About 29.",
		Model:      "test-model",
		Iterations: 1,
		Duration:   1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == "" || saved.CreatedAt.IsZero() {
		t.Fatalf("identity not assigned: %+v", saved)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i, q := range []string{"first", "second", "third"} {
		if _, err := s.Save(ctx, Record{
			Query:     q,
			Answer:    "a",
			Model:     "m",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	records, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Query != "third" || records[1].Query != "second" {
		t.Fatalf("order = [%s, %s], want newest first", records[0].Query, records[1].Query)
	}
	if records[0].Duration != 0 {
		t.Fatalf("duration = %s", records[0].Duration)
	}
}
