package tickers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchLoadsAndReloadsOverrides(t *testing.T) {
	dir := mustDirectory(t)
	path := filepath.Join(t.TempDir(), "overrides.json")
	if err := os.WriteFile(path, []byte(`{"acme robotics": "ACME"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := Watch(ctx, dir, path, nil); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if got, ok := dir.Lookup("acme robotics"); !ok || got != "ACME" {
		t.Fatalf("initial overrides not loaded: %q, %t", got, ok)
	}

	if err := os.WriteFile(path, []byte(`{"acme robotics": "ACMX"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := dir.Lookup("acme robotics"); got == "ACMX" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("override change never observed")
}

func TestWatchMissingFile(t *testing.T) {
	dir := mustDirectory(t)
	err := Watch(context.Background(), dir, filepath.Join(t.TempDir(), "absent.json"), nil)
	if err == nil {
		t.Fatal("expected error for missing overrides file")
	}
}
