package confusion

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "conf.txt")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadSortedAscendingAndDeduped(t *testing.T) {
	content := "12#f~s\n4#a~b\n8#x~y\n4#a~b\n"
	p := writeTemp(t, content)
	keys, err := LoadSorted(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []Key{4, 8, 12}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %d, want %d", i, keys[i], want[i])
		}
	}
}

func TestLoadSortedFailsOnMalformed(t *testing.T) {
	p := writeTemp(t, "notanumber#x\n")
	if _, err := LoadSorted(p); err == nil {
		t.Fatal("expected error for malformed confusion line")
	}
}

func TestLoadFlagSetTolerates2Or3Fields(t *testing.T) {
	content := "10331739614#f~s\n20#e~é#extra\n30\n40#a#b#c\n"
	p := writeTemp(t, content)
	set, err := LoadFlagSet(p)
	if err != nil {
		t.Fatal(err)
	}
	want := map[Key]bool{10331739614: true, 20: true}
	if len(set) != len(want) {
		t.Fatalf("set = %v, want %v", set, want)
	}
}

func TestLoadFoci(t *testing.T) {
	p := writeTemp(t, "10\n14\n22\n\n")
	foci, err := LoadFoci(p)
	if err != nil {
		t.Fatal(err)
	}
	if !foci[10] || !foci[14] || !foci[22] || len(foci) != 3 {
		t.Errorf("foci = %v", foci)
	}
}
