package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFrequenciesAggregation(t *testing.T) {
	// "Huis" and "huis" both lower to "huis"; artifreq=100.
	// First contribution (freq=150>=100) sets LowFreq["huis"]=150.
	// Second contribution (freq=120>=100) adds 120-100=20 -> 170.
	content := "Huis 150\nhuis 120\nbad-line\nhuys 5\n"
	p := writeTemp(t, "clean.txt", content)
	f, err := LoadFrequencies(p, 100)
	if err != nil {
		t.Fatal(err)
	}
	if f.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", f.Skipped)
	}
	if f.LowFreq["huis"] != 170 {
		t.Errorf("LowFreq[huis] = %d, want 170", f.LowFreq["huis"])
	}
	if f.LowFreq["huys"] != 5 {
		t.Errorf("LowFreq[huys] = %d, want 5", f.LowFreq["huys"])
	}
	if f.Freq["Huis"] != 150 || f.Freq["huis"] != 120 {
		t.Errorf("exact freq table wrong: %+v", f.Freq)
	}
}

func TestLoadFrequenciesBelowThresholdAddsInFull(t *testing.T) {
	content := "Foo 3\nfoo 4\n"
	p := writeTemp(t, "clean.txt", content)
	f, err := LoadFrequencies(p, 100)
	if err != nil {
		t.Fatal(err)
	}
	if f.LowFreq["foo"] != 7 {
		t.Errorf("LowFreq[foo] = %d, want 7", f.LowFreq["foo"])
	}
}

func TestLoadFrequenciesBelowThresholdContributionBeforeFirstAboveThreshold(t *testing.T) {
	// Word1 (30, below artifreq=50) is accumulated first; WORD1 (100,
	// above) must still add to that accumulation rather than overwrite
	// it, since LowFreq["word1"] already holds mass by the time it's seen.
	content := "Word1 30\nWORD1 100\n"
	p := writeTemp(t, "clean.txt", content)
	f, err := LoadFrequencies(p, 50)
	if err != nil {
		t.Fatal(err)
	}
	if f.LowFreq["word1"] != 80 {
		t.Errorf("LowFreq[word1] = %d, want 80 (30 + (100-50))", f.LowFreq["word1"])
	}
}

func TestLoadAlphabetAndClean(t *testing.T) {
	content := "a freq1 freq2\nb freq1 freq2\n"
	p := writeTemp(t, "alph.txt", content)
	alph, err := LoadAlphabet(p)
	if err != nil {
		t.Fatal(err)
	}
	if !Clean("ab", alph) {
		t.Error("expected 'ab' to be clean")
	}
	if Clean("abc", alph) {
		t.Error("expected 'abc' to be dirty")
	}
}

func TestCleanEmptyAlphabetIsUnrestricted(t *testing.T) {
	if !Clean("anything", Alphabet{}) {
		t.Error("empty alphabet should mean unrestricted")
	}
}
