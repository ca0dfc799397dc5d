package index

import (
	"reflect"
	"testing"

	"anacorrect/internal/anagram"
	"anacorrect/internal/confusion"
)

func keys(vals ...int64) []anagram.Key {
	out := make([]anagram.Key, len(vals))
	for i, v := range vals {
		out[i] = anagram.Key(v)
	}
	return out
}

func confKeys(vals ...int64) []confusion.Key {
	out := make([]confusion.Key, len(vals))
	for i, v := range vals {
		out[i] = confusion.Key(v)
	}
	return out
}

func TestJoinScenarioA_NoFoci(t *testing.T) {
	// admissible = [10,14,22,30]; two-pointer sweep per shift:
	//   shift=4:  10+4=14 matches, 14+4=18 no, 22+4=26 no, 30+4=34 no  -> [10]
	//   shift=8:  14+8=22 matches, 22+8=30 matches                    -> [14,22]
	//   shift=12: 10+12=22 matches                                    -> [10]
	a := keys(10, 14, 22, 30)
	c := confKeys(4, 8, 12)
	got := Join(a, c, nil, 1)
	if !reflect.DeepEqual(got[confusion.Key(4)], keys(10)) {
		t.Errorf("c=4: got %v, want [10]", got[confusion.Key(4)])
	}
	if !reflect.DeepEqual(got[confusion.Key(8)], keys(14, 22)) {
		t.Errorf("c=8: got %v, want [14,22]", got[confusion.Key(8)])
	}
	if !reflect.DeepEqual(got[confusion.Key(12)], keys(10)) {
		t.Errorf("c=12: got %v, want [10]", got[confusion.Key(12)])
	}
	for c, list := range got {
		if len(list) == 0 {
			t.Errorf("confusion %d has an empty emitted list, must be omitted", c)
		}
	}
}

func TestJoinScenarioA_WithFoci(t *testing.T) {
	// Same pairs as the no-foci case, but a pair only survives if one of
	// its two members is in foci (here, 22).
	//   shift=4:  pair (10,14), neither is 22 -> dropped, confusion omitted
	//   shift=8:  pairs (14,22) and (22,30), both touch 22             -> [14,22]
	//   shift=12: pair (10,22), touches 22                             -> [10]
	a := keys(10, 14, 22, 30)
	c := confKeys(4, 8, 12)
	foci := map[int64]bool{22: true}
	got := Join(a, c, foci, 1)
	if list, ok := got[confusion.Key(4)]; ok {
		t.Errorf("c=4 with foci: expected omission (no pair touches foci), got %v", list)
	}
	if !reflect.DeepEqual(got[confusion.Key(8)], keys(14, 22)) {
		t.Errorf("c=8 with foci: got %v, want [14,22]", got[confusion.Key(8)])
	}
	if !reflect.DeepEqual(got[confusion.Key(12)], keys(10)) {
		t.Errorf("c=12 with foci: got %v, want [10]", got[confusion.Key(12)])
	}
}

func TestJoinCompletenessMatchesPureIntersection(t *testing.T) {
	a := keys(1, 2, 5, 9, 20, 21, 25, 40)
	c := confKeys(1, 4, 19)
	got := Join(a, c, nil, 3)
	set := make(map[anagram.Key]bool)
	for _, k := range a {
		set[k] = true
	}
	for _, ck := range c {
		var want []anagram.Key
		for _, k := range a {
			if set[anagram.Key(int64(k)+int64(ck))] {
				want = append(want, k)
			}
		}
		if len(want) == 0 {
			if _, ok := got[ck]; ok {
				t.Errorf("confusion %d: expected omission, got %v", ck, got[ck])
			}
			continue
		}
		if !reflect.DeepEqual(got[ck], want) {
			t.Errorf("confusion %d: got %v, want %v", ck, got[ck], want)
		}
	}
}

func TestJoinParallelMatchesSerial(t *testing.T) {
	a := keys(10, 14, 22, 30, 44, 51, 60, 77, 88, 91)
	c := confKeys(4, 8, 12, 17, 30, 61)
	serial := Join(a, c, nil, 1)
	parallel := Join(a, c, nil, 4)
	if !reflect.DeepEqual(serial, parallel) {
		t.Errorf("serial and parallel joins diverge:\nserial=%v\nparallel=%v", serial, parallel)
	}
}
