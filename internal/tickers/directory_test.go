package tickers

import "testing"

func mustDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := NewDirectory()
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	return d
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Apple Inc.", "apple"},
		{"  NVIDIA  Corp ", "nvidia"},
		{"Johnson & Johnson", "johnson & johnson"},
		{"Shell plc", "shell"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLookupExact(t *testing.T) {
	d := mustDirectory(t)
	cases := []struct {
		in   string
		want string
	}{
		{"Apple", "AAPL"},
		{"apple inc.", "AAPL"},
		{"NVIDIA Corporation", "NVDA"},
	}
	for _, tc := range cases {
		got, ok := d.Lookup(tc.in)
		if !ok || got != tc.want {
			t.Errorf("Lookup(%q) = %q, %t; want %q", tc.in, got, ok, tc.want)
		}
	}
}

func TestLookupUniqueRegionEntry(t *testing.T) {
	d := mustDirectory(t)
	got, ok := d.Lookup("Toyota")
	if !ok || got != "TM" {
		t.Fatalf("Lookup(Toyota) = %q, %t; want TM", got, ok)
	}
}

func TestLookupAmbiguousRegionRefused(t *testing.T) {
	d := mustDirectory(t)
	if err := d.Merge(map[string]string{
		"region:de:acme": "ACDE",
		"region:fr:acme": "ACFR",
	}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got, ok := d.Lookup("acme"); ok {
		t.Fatalf("ambiguous name resolved to %q, want refusal", got)
	}
}

func TestLookupRegion(t *testing.T) {
	d := mustDirectory(t)
	got, ok := d.LookupRegion("jp", "Sony")
	if !ok || got != "SONY" {
		t.Fatalf("LookupRegion(jp, Sony) = %q, %t", got, ok)
	}
	if _, ok := d.LookupRegion("de", "Sony"); ok {
		t.Fatal("wrong region should not resolve")
	}
}

func TestLookupFuzzyFallback(t *testing.T) {
	d := mustDirectory(t)
	got, ok := d.Lookup("microsft")
	if !ok || got != "MSFT" {
		t.Fatalf("fuzzy Lookup(microsft) = %q, %t; want MSFT", got, ok)
	}
}

func TestLookupUnknown(t *testing.T) {
	d := mustDirectory(t)
	if got, ok := d.Lookup("zzz nonexistent holdings"); ok {
		t.Fatalf("unknown name resolved to %q", got)
	}
	if _, ok := d.Lookup(""); ok {
		t.Fatal("empty name resolved")
	}
}

func TestMergeOverrides(t *testing.T) {
	d := mustDirectory(t)
	if err := d.Merge(map[string]string{"Acme Robotics Inc.": "acme"}); err != nil {
		t.Fatalf("Merge: %v", err)
	}
	got, ok := d.Lookup("acme robotics")
	if !ok || got != "ACME" {
		t.Fatalf("Lookup(acme robotics) = %q, %t; want ACME", got, ok)
	}
}
