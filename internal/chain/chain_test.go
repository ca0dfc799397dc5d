package chain

import (
	"errors"
	"testing"
)

func mustFill(t *testing.T, c *Chainer, line string) {
	ok, err := c.Fill(line)
	if err != nil {
		t.Fatalf("Fill(%q): %v", line, err)
	}
	if !ok {
		t.Fatalf("Fill(%q): expected ok=true", line)
	}
}

func TestFillRejectsWrongFieldCount(t *testing.T) {
	c := New(false)
	ok, err := c.Fill("word#1#candidate#2#1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("expected ok=false for a line with only 5 fields")
	}
}

func TestFillNewHeadAndExistingHead(t *testing.T) {
	c := New(false)
	mustFill(t, c, "huys#3#huis#200#1#C")
	mustFill(t, c, "huus#1#huis#200#2#C")

	out := c.Output()
	if len(out) != 2 {
		t.Fatalf("expected 2 chained lines, got %d: %v", len(out), out)
	}
}

// A word that later joins a chain through its candidate's already-known
// head attaches directly to that head, rather than to the intermediate
// candidate.
func TestFillFollowsCandidatesOwnHead(t *testing.T) {
	c := New(false)
	mustFill(t, c, "huus#5#huis#200#2#C")
	mustFill(t, c, "huys#3#huus#5#1#C")
	mustFill(t, c, "huyss#1#huys#3#1#C")

	out := c.Output()
	if len(out) != 3 {
		t.Fatalf("expected 3 chained lines, got %d: %v", len(out), out)
	}
	for _, line := range out {
		if !contains(line, "#huis#200#") {
			t.Errorf("expected every variant to chain directly to head huis, got %q", line)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestOutputOrdersByDescendingHeadFrequencyThenAscendingTieBreak(t *testing.T) {
	c := New(false)
	mustFill(t, c, "a1#1#zebra#50#1#C")
	mustFill(t, c, "a2#1#apple#50#1#C")
	mustFill(t, c, "a3#1#mango#999#1#C")

	out := c.Output()
	if len(out) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(out))
	}
	if !contains(out[0], "#mango#999#") {
		t.Errorf("expected the highest-frequency head first, got %q", out[0])
	}
	if !contains(out[1], "#apple#50#") || !contains(out[2], "#zebra#50#") {
		t.Errorf("expected tied heads broken ascending by head string: got %q then %q", out[1], out[2])
	}
}

func TestFillDetectsInvariantViolation(t *testing.T) {
	c := New(false)
	c.heads["ghost"] = "head-without-table-entry"
	_, err := c.Fill("ghost#1#somecandidate#2#1#C")
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
}

func TestDebugInfoListsMembersAscending(t *testing.T) {
	c := New(false)
	mustFill(t, c, "huys#3#huis#200#1#C")
	mustFill(t, c, "huus#1#huis#200#2#C")
	info := c.DebugInfo()
	if len(info) != 1 {
		t.Fatalf("expected 1 head's worth of debug info, got %d: %v", len(info), info)
	}
	if !contains(info[0], "200 huis huus huys") {
		t.Errorf("expected members sorted ascending, got %q", info[0])
	}
}
