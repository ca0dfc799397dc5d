// Package chainclean prunes a chained-correction file: short multi-token
// variants are dropped outright, and longer multi-token variants whose
// unknown part is already explained by a resolved single-token
// correction are discarded as redundant.
package chainclean

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"anacorrect/internal/fileio"
	"anacorrect/internal/textnorm"
)

// Record is one parsed line of a chained-correction file:
// `variant#v_freq#cc#cc_freq#ld#tag`.
type Record struct {
	Variant string
	VFreq   string
	CC      string
	CCFreq  string
	LD      string
	Deleted bool

	vParts   []string
	vdhParts []string
	ccParts  []string
}

// String renders r back to the chained-file line format, with its tag
// reflecting whether it survived cleaning.
func (r *Record) String() string {
	tag := "C"
	if r.Deleted {
		tag = "D"
	}
	return fmt.Sprintf("%s#%s#%s#%s#%s#%s", r.Variant, r.VFreq, r.CC, r.CCFreq, r.LD, tag)
}

// ErrMalformedRecord is returned by ParseRecord/LoadRecords when a line
// doesn't split into exactly 6 '#'-delimited fields.
var ErrMalformedRecord = errors.New("chainclean: chained line must have 6 '#'-delimited fields")

// ParseRecord parses one chained-file line.
func ParseRecord(line string) (*Record, error) {
	fields := strings.Split(line, "#")
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: got %d in %q", ErrMalformedRecord, len(fields), line)
	}
	return &Record{Variant: fields[0], VFreq: fields[1], CC: fields[2], CCFreq: fields[3], LD: fields[4]}, nil
}

// LoadRecords reads every line of a chained file into Records. The
// first malformed line aborts the whole load, matching the strictness
// of the upstream format: this file is machine-generated, so a
// malformed line means something upstream broke, not a data quirk to
// tolerate.
func LoadRecords(path string) ([]*Record, error) {
	var records []*Record
	err := fileio.ForEachLine(path, func(line string) error {
		r, err := ParseRecord(line)
		if err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// splitAt splits s on every occurrence of sep, dropping empty tokens.
func splitAt(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitAtAnyOf splits s at any rune in chars, treating runs of
// separators as one and dropping empty tokens.
func splitAtAnyOf(s, chars string) []string {
	var out []string
	var cur strings.Builder
	for _, r := range s {
		if strings.ContainsRune(chars, r) {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func (r *Record) splitParts() {
	r.vParts = splitAt(r.Variant, "_")
	r.vdhParts = splitAtAnyOf(r.Variant, "_-")
	r.ccParts = splitAt(r.CC, "_")
}

// errBelowArtifreq signals LoadLexicon stopped early because the
// lexicon file (expected sorted descending by frequency) reached a word
// below the artifreq threshold.
var errBelowArtifreq = errors.New("chainclean: lexicon frequency below threshold")

// LoadLexicon reads a frequency-sorted-descending validated lexicon
// (`word freq` per line, '#'-prefixed lines and blanks skipped) and
// returns the lowercased forms of every word at or above artifreq. It
// stops reading as soon as it meets a word below the threshold, trusting
// the descending sort rather than scanning the whole file.
func LoadLexicon(path string, artifreq uint64) (map[string]bool, error) {
	valid := make(map[string]bool)
	err := fileio.ForEachLine(path, func(line string) error {
		if line == "" || strings.HasPrefix(line, "#") {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return fmt.Errorf("chainclean: invalid lexicon line %q", line)
		}
		freq, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("chainclean: invalid frequency in %q: %w", line, err)
		}
		if freq < artifreq {
			return errBelowArtifreq
		}
		valid[textnorm.Lower(fields[0])] = true
		return nil
	})
	if err != nil && !errors.Is(err, errBelowArtifreq) {
		return nil, err
	}
	return valid, nil
}

// Engine holds the validated lexicon and tuning knobs Clean runs with.
type Engine struct {
	validWords  map[string]bool
	lowLimit    int
	followWords map[string]bool
	Trace       func(format string, args ...interface{})
}

// NewEngine builds a cleaning Engine. followWords may be nil; its
// members get their matching logged through Trace even when verbosity
// is otherwise silent.
func NewEngine(validWords map[string]bool, lowLimit int, followWords map[string]bool) *Engine {
	return &Engine{validWords: validWords, lowLimit: lowLimit, followWords: followWords}
}

func (e *Engine) trace(format string, args ...interface{}) {
	if e.Trace != nil {
		e.Trace(format, args...)
	}
}

func (e *Engine) followed(part string) bool {
	return e.followWords != nil && e.followWords[part]
}

func sortedDescByFreqThenKey(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool { return m[keys[i]] > m[keys[j]] })
	return keys
}

func sortedDescByFreqThenOrder(freqs map[string]int, order []string) []string {
	out := append([]string(nil), order...)
	sort.SliceStable(out, func(i, j int) bool { return freqs[out[i]] > freqs[out[j]] })
	return out
}

func runeLen(s string) int { return len([]rune(s)) }

// Clean runs the full pruning pass over records, splitting them into
// the ones that survive and the ones marked deleted. records is mutated
// in place (Deleted flags are set on the shared Record values); the two
// returned slices partition it.
func (e *Engine) Clean(records []*Record) (kept, deleted []*Record) {
	for _, r := range records {
		r.splitParts()
	}

	partsFreq := make(map[string]int)
	for _, r := range records {
		if len(r.vParts) == 1 {
			continue
		}
		for _, p := range r.vParts {
			key := textnorm.Lower(p)
			if !e.validWords[key] {
				partsFreq[key]++
			}
		}
	}
	e.trace("found %d unknown parts", len(partsFreq))
	descParts := sortedDescByFreqThenKey(partsFreq)

	for _, r := range records {
		if len(r.vParts) > 1 {
			var joined strings.Builder
			for _, p := range r.vParts {
				joined.WriteString(p)
			}
			if runeLen(joined.String()) <= e.lowLimit {
				r.Deleted = true
			}
		}
	}

	doneRecords := make(map[*Record]bool)
	done := make(map[string]string)

	for _, unkPart := range descParts {
		show := e.followed(unkPart)
		if show {
			e.trace("loop for part: %s", unkPart)
		}
		ccFreqs := make(map[string]int)
		var ccOrder []string
		seenCC := make(map[string]bool)
		for _, r := range records {
			match := false
			for _, p := range r.vdhParts {
				if textnorm.Lower(p) == unkPart {
					match = true
					break
				}
			}
			if !match {
				continue
			}
			for _, cp := range splitAtAnyOf(r.CC, "_-") {
				cPart := textnorm.Lower(cp)
				if !seenCC[cPart] {
					seenCC[cPart] = true
					ccOrder = append(ccOrder, cPart)
				}
				ccFreqs[cPart]++
			}
		}
		descCC := sortedDescByFreqThenOrder(ccFreqs, ccOrder)

		for _, candCor := range descCC {
			uniq := make(map[string]int)
			for _, r := range records {
				if r.Deleted || doneRecords[r] {
					continue
				}
				if len(r.vParts) == 1 {
					e.resolveUnigram(r, unkPart, candCor, uniq, done, doneRecords)
					continue
				}
				e.resolveNgram(r, unkPart, candCor, uniq, done, doneRecords, show)
			}
		}
	}

	for _, r := range records {
		if r.Deleted {
			deleted = append(deleted, r)
		} else {
			kept = append(kept, r)
		}
	}
	return kept, deleted
}

func (e *Engine) resolveUnigram(r *Record, unkPart, candCor string, uniq map[string]int, done map[string]string, doneRecords map[*Record]bool) {
	vari := textnorm.Lower(r.Variant)
	corr := textnorm.Lower(r.CC)
	if vari != unkPart || !strings.Contains(corr, candCor) {
		return
	}
	done[corr] = vari
	doneRecords[r] = true
	if len(r.ccParts) == 1 {
		uniq[vari]++
	}
}

func (e *Engine) resolveNgram(r *Record, unkPart, candCor string, uniq map[string]int, done map[string]string, doneRecords map[*Record]bool, show bool) {
	for _, vp := range r.vParts {
		if _, ok := uniq[vp]; ok {
			r.Deleted = true
			if show {
				e.trace("remove (ngram part %s already resolved as a unigram): %s", vp, r)
			}
			return
		}
	}
	for _, cp := range r.ccParts {
		corPart := textnorm.Lower(cp)
		if candCor != corPart {
			continue
		}
		matched := false
		for _, p := range r.vParts {
			if textnorm.Lower(p) == unkPart {
				matched = true
				break
			}
		}
		if matched {
			lvar := textnorm.Lower(r.Variant)
			if v, ok := done[corPart]; ok {
				switch {
				case func() bool { _, ok := uniq[unkPart]; return ok }():
					r.Deleted = true
				case strings.Contains(lvar, v):
					r.Deleted = true
				default:
					done[corPart] = lvar
					doneRecords[r] = true
				}
			} else {
				done[corPart] = lvar
				doneRecords[r] = true
			}
		}
		break
	}
}
