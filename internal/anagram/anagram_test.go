package anagram

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "ana.txt")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadAndAdmissibleSet(t *testing.T) {
	// "short" (5 chars) is in band, "hi" (2 chars) is not.
	content := "123~short#horts\n456~hi\n789~correction#corection\n"
	p := writeTemp(t, content)
	buckets, stats, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", stats.Skipped)
	}
	if len(buckets[123].Words) != 2 {
		t.Errorf("bucket 123 words = %v", buckets[123].Words)
	}
	keys, skipped := AdmissibleSet(buckets, 5, 35)
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1 (the 2-char bucket)", skipped)
	}
	want := map[Key]bool{123: true, 789: true}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v", keys)
	}
	for _, k := range keys {
		if !want[k] {
			t.Errorf("unexpected key %d in admissible set", k)
		}
	}
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatal("AdmissibleSet must be sorted ascending")
		}
	}
}

func TestLoadSkipsMalformedLines(t *testing.T) {
	content := "notanumber~word\n123~\nvalidbutshort\n"
	p := writeTemp(t, content)
	_, stats, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Skipped != 3 {
		t.Errorf("Skipped = %d, want 3", stats.Skipped)
	}
}
