package levenshtein

import "testing"

func TestDistanceBasics(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"huis", "huis", 0},
		{"huis", "huys", 1},
		{"kitten", "sitting", 3},
		{"", "abc", 3},
		{"abc", "", 3},
	}
	for _, c := range cases {
		got := DistanceString(c.a, c.b)
		if got != c.want {
			t.Errorf("Distance(%q,%q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"noodlyk", "noorderlyke"},
		{"het_huys", "het_huis"},
		{"café", "cafe"},
	}
	for _, p := range pairs {
		d1 := DistanceString(p[0], p[1])
		d2 := DistanceString(p[1], p[0])
		if d1 != d2 {
			t.Errorf("Distance not symmetric for %q,%q: %d vs %d", p[0], p[1], d1, d2)
		}
	}
}

func TestDistanceBoundedByMaxLen(t *testing.T) {
	a, b := "aaaaaaaaaa", "bbbbbbbbbbbbbbb"
	d := DistanceString(a, b)
	maxLen := len(b)
	if d > maxLen {
		t.Errorf("Distance %d exceeds max length %d", d, maxLen)
	}
}

func TestCalculatorCaches(t *testing.T) {
	calc := NewCalculator(WithCache(8))
	d1 := calc.Distance("huis", "huys")
	d2 := calc.Distance("huis", "huys")
	if d1 != 1 || d2 != 1 {
		t.Errorf("got d1=%d d2=%d, want both 1", d1, d2)
	}
}

func TestCalculatorWithoutCache(t *testing.T) {
	calc := NewCalculator()
	if calc.cache != nil {
		t.Fatal("expected no cache when WithCache is not used")
	}
	if calc.Distance("a", "b") != 1 {
		t.Error("expected distance 1")
	}
}
