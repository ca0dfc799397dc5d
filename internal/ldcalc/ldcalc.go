// Package ldcalc compares the word sets an anagram/confusion index pairs
// up and emits one scored candidate-correction record per pair that
// survives the edit-distance and frequency gates.
package ldcalc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"anacorrect/internal/anagram"
	"anacorrect/internal/corpus"
	"anacorrect/internal/fileio"
	"anacorrect/internal/textnorm"
	"anacorrect/pkg/levenshtein"
)

// maxMalformedLines bounds how many unparsable index lines an index-file
// run tolerates: the malformed line that takes the count past it aborts
// the run.
const maxMalformedLines = 10

// ErrTooManyMalformedLines is returned by ProcessIndexFile once more than
// maxMalformedLines lines failed to parse.
var ErrTooManyMalformedLines = fmt.Errorf("ldcalc: too many malformed lines in index file")

// separator splits a disambiguation n-gram into its constituent tokens.
const separator = "_"

// splitTokens splits s on sep and drops empty tokens, so a leading,
// trailing, or doubled separator doesn't introduce a spurious token.
func splitTokens(s, sep string) []string {
	raw := strings.Split(s, sep)
	out := raw[:0:0]
	for _, t := range raw {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HashSets turns loaded anagram buckets into the deduplicated,
// ascending-sorted word lists that set comparison and transposition
// scanning iterate over.
func HashSets(buckets anagram.BucketSet) map[int64][]string {
	out := make(map[int64][]string, len(buckets))
	for k, b := range buckets {
		seen := make(map[string]bool, len(b.Words))
		words := make([]string, 0, len(b.Words))
		for _, w := range b.Words {
			if !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}
		sort.Strings(words)
		out[int64(k)] = words
	}
	return out
}

// Config bounds the edit-distance comparison and frequency filtering
// performed for every confusion.
type Config struct {
	LD       int    // maximum accepted edit distance; the set-comparison gate
	ArtiFreq uint64 // frequency threshold separating "known" from "candidate" forms
	NoKHCLD  bool   // when true, historical confusions bypass the LD gate entirely
	Workers  int    // concurrent keys processed per index line; < 1 means 1
}

func (c Config) workers() int {
	if c.Workers < 1 {
		return 1
	}
	return c.Workers
}

// Record is one 14-field scored candidate-correction line.
type Record struct {
	Str1       string
	Freq1      uint64
	LowFreq1   uint64
	Str2       string
	Freq2      uint64
	LowFreq2   uint64
	Confusion  string // the confusion key, or "0" for a transposition-class record
	LD         int
	Class      int
	Canon      string // "1" if the canonical (higher-frequency) form clears ArtiFreq
	FLOverlap  string // "1" if both lowercased forms share a first code point
	LLOverlap  string // "1" if both lowercased forms share their last two code points
	KHC        string // "1" if this confusion is flagged historical
	NgramPoint int

	// IsTransposition marks a record produced by the transposition scan
	// rather than the main set comparison. Such records carry an extra
	// empty field ahead of Confusion in the rendered line, matching the
	// doubled "~0~" the transposition branch emits upstream.
	IsTransposition bool
}

// Format renders a Record as its ~-delimited output line. A
// transposition-class record gets one extra leading empty field before
// Confusion, mirroring the doubled "~0~" the transposition scan writes.
func (r Record) Format() string {
	fields := []string{
		r.Str1,
		strconv.FormatUint(r.Freq1, 10),
		strconv.FormatUint(r.LowFreq1, 10),
		r.Str2,
		strconv.FormatUint(r.Freq2, 10),
		strconv.FormatUint(r.LowFreq2, 10),
	}
	if r.IsTransposition {
		fields = append(fields, "")
	}
	fields = append(fields,
		r.Confusion,
		strconv.Itoa(r.LD),
		strconv.Itoa(r.Class),
		r.Canon,
		r.FLOverlap,
		r.LLOverlap,
		r.KHC,
		strconv.Itoa(r.NgramPoint),
	)
	return strings.Join(fields, "~")
}

// Engine holds the loaded corpora and produces Records for one
// index file's worth of confusions.
type Engine struct {
	cfg      Config
	hash     map[int64][]string
	freq     map[string]uint64
	lowFreq  map[string]uint64
	alphabet corpus.Alphabet
	hist     map[int64]bool
	diac     map[int64]bool
	calc     *levenshtein.Calculator

	emit func(Record)

	transMu      sync.Mutex
	handledTrans map[int64]bool

	disMu    sync.Mutex
	disPairs map[string]map[string]bool
	disCount map[string]int
}

// NewEngine builds an Engine. emit is called once per produced Record,
// from potentially many goroutines; it must be safe to call concurrently
// or must do its own locking.
func NewEngine(cfg Config, emit func(Record), hash map[int64][]string, freq, lowFreq map[string]uint64, alphabet corpus.Alphabet, hist, diac map[int64]bool) *Engine {
	return &Engine{
		cfg:          cfg,
		hash:         hash,
		freq:         freq,
		lowFreq:      lowFreq,
		alphabet:     alphabet,
		hist:         hist,
		diac:         diac,
		calc:         levenshtein.NewCalculator(levenshtein.WithCache(1 << 16)),
		emit:         emit,
		handledTrans: make(map[int64]bool),
		disPairs:     make(map[string]map[string]bool),
		disCount:     make(map[string]int),
	}
}

// MalformedLine is returned by ProcessLine when line could not be parsed
// into a main key and a comma-separated list of confusion keys.
var MalformedLine = fmt.Errorf("ldcalc: malformed index line")

// ProcessLine parses one `mainKey#key1,key2,...` index line and compares
// every listed key's word set against the main key's shifted word set,
// running the list concurrently bounded by cfg.Workers.
func (e *Engine) ProcessLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := strings.SplitN(line, "#", 2)
	if len(parts) != 2 {
		return MalformedLine
	}
	mainKeyS := parts[0]
	mainKey, err := strconv.ParseInt(mainKeyS, 10, 64)
	if err != nil {
		return MalformedLine
	}
	keyParts := strings.Split(parts[1], ",")
	if len(keyParts) == 0 || (len(keyParts) == 1 && keyParts[0] == "") {
		return MalformedLine
	}

	isKHC := e.hist[mainKey]
	isDIAC := e.diac[mainKey]

	sem := make(chan struct{}, e.cfg.workers())
	var wg sync.WaitGroup
	for _, keyS := range keyParts {
		keyS := keyS
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			e.processKey(mainKey, mainKeyS, keyS, isKHC, isDIAC)
		}()
	}
	wg.Wait()
	return nil
}

func (e *Engine) processKey(mainKey int64, mainKeyS, keyS string, isKHC, isDIAC bool) {
	key, err := strconv.ParseInt(strings.TrimSpace(keyS), 10, 64)
	if err != nil {
		return
	}
	set1, ok := e.hash[key]
	if !ok {
		return
	}
	if len(set1) > 0 && e.cfg.LD >= 2 {
		doTrans := false
		e.transMu.Lock()
		if !e.handledTrans[key] {
			e.handledTrans[key] = true
			doTrans = true
		}
		e.transMu.Unlock()
		if doTrans {
			e.handleTranspositions(set1, isKHC, isDIAC)
		}
	}
	set2, ok := e.hash[mainKey+key]
	if !ok {
		return
	}
	e.compareSets(mainKeyS, set1, set2, isKHC, isDIAC)
}

func runeLen(s string) int { return len([]rune(s)) }

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastTwoOverlap(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) <= 1 || len(rb) <= 1 {
		return false
	}
	return ra[len(ra)-1] == rb[len(rb)-1] && ra[len(ra)-2] == rb[len(rb)-2]
}

func digit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// handleTranspositions scores every pair drawn from one anagram key's
// own word set: the candidates a transposition (rather than a generic
// edit) would relate.
func (e *Engine) handleTranspositions(set []string, isKHC, isDIAC bool) {
	for i := 0; i < len(set); i++ {
		str1 := set[i]
		freq1, ok := e.freq[str1]
		if !ok {
			continue
		}
		ls1 := textnorm.Lower(str1)
		lowFreq1 := e.lowFreq[ls1]
		for j := i + 1; j < len(set); j++ {
			str2 := set[j]
			freq2, ok := e.freq[str2]
			if !ok {
				continue
			}
			ls2 := textnorm.Lower(str2)
			lowFreq2 := e.lowFreq[ls2]

			if lowFreq1 >= e.cfg.ArtiFreq && lowFreq2 >= e.cfg.ArtiFreq && !isDIAC {
				continue
			}
			if lowFreq1 >= lowFreq2 {
				if lowFreq1 < e.cfg.ArtiFreq {
					continue
				}
			} else if lowFreq2 < e.cfg.ArtiFreq {
				continue
			}

			var canonFreq, outFreq1, outLowFreq1, outFreq2, outLowFreq2 uint64
			var outStr1, outStr2, candidate string
			swapped := false
			if lowFreq1 > lowFreq2 {
				canonFreq = lowFreq1
				outFreq1, outLowFreq1 = freq2, lowFreq2
				outFreq2, outLowFreq2 = freq1, lowFreq1
				outStr1, outStr2 = str2, str1
				candidate = ls1
				swapped = true
			} else {
				canonFreq = lowFreq2
				outFreq1, outLowFreq1 = freq1, lowFreq1
				outFreq2, outLowFreq2 = freq2, lowFreq2
				outStr1, outStr2 = str1, str2
				candidate = ls2
			}
			if !corpus.Clean(candidate, e.alphabet) {
				continue
			}

			var ngramPoint int
			if swapped {
				ngramPoint = e.analyzeNgrams(str2, str1)
			} else {
				ngramPoint = e.analyzeNgrams(str1, str2)
			}

			ld := e.calc.Distance(ls1, ls2)
			if ld != 2 && !(isKHC && e.cfg.NoKHCLD) {
				continue
			}

			cls := maxInt(runeLen(ls1), runeLen(ls2)) - ld
			e.emit(Record{
				Str1: outStr1, Freq1: outFreq1, LowFreq1: outLowFreq1,
				Str2: outStr2, Freq2: outFreq2, LowFreq2: outLowFreq2,
				Confusion:       "0",
				LD:              ld,
				Class:           cls,
				Canon:           digit(canonFreq >= e.cfg.ArtiFreq),
				FLOverlap:       digit(firstRune(ls1) == firstRune(ls2)),
				LLOverlap:       digit(lastTwoOverlap(ls1, ls2)),
				KHC:             digit(isKHC),
				NgramPoint:      ngramPoint,
				IsTransposition: true,
			})
		}
	}
}

// compareSets scores every cross-product pair between a confusion key's
// two shifted word sets: this is the main, non-transposition comparison.
func (e *Engine) compareSets(confusionKey string, s1, s2 []string, isKHC, isDIAC bool) {
	for _, str1 := range s1 {
		freq1, ok := e.freq[str1]
		if !ok {
			continue
		}
		ls1 := textnorm.Lower(str1)
		for _, str2 := range s2 {
			freq2, ok := e.freq[str2]
			if !ok {
				continue
			}
			ls2 := textnorm.Lower(str2)

			ld := e.calc.Distance(ls1, ls2)
			if ld > e.cfg.LD && !(isKHC && e.cfg.NoKHCLD) {
				continue
			}

			lowFreq1 := e.lowFreq[ls1]
			lowFreq2 := e.lowFreq[ls2]
			if lowFreq1 >= e.cfg.ArtiFreq && lowFreq2 >= e.cfg.ArtiFreq && !isDIAC {
				continue
			}
			var canonFreq, outFreq1, outLowFreq1, outFreq2, outLowFreq2 uint64
			var outStr1, outStr2, candidate string
			swapped := false
			if lowFreq1 > lowFreq2 {
				canonFreq = lowFreq1
				outFreq1, outLowFreq1 = freq2, lowFreq2
				outFreq2, outLowFreq2 = freq1, lowFreq1
				outStr1, outStr2 = str2, str1
				candidate = ls1
				swapped = true
			} else {
				canonFreq = lowFreq2
				outFreq1, outLowFreq1 = freq1, lowFreq1
				outFreq2, outLowFreq2 = freq2, lowFreq2
				outStr1, outStr2 = str1, str2
				candidate = ls2
			}
			if !corpus.Clean(candidate, e.alphabet) {
				continue
			}
			if outLowFreq1 >= e.cfg.ArtiFreq && !isDIAC {
				continue
			}

			var ngramPoint int
			if swapped {
				ngramPoint = e.analyzeNgrams(str2, str1)
			} else {
				ngramPoint = e.analyzeNgrams(str1, str2)
			}

			cls := maxInt(runeLen(ls1), runeLen(ls2)) - ld
			e.emit(Record{
				Str1: outStr1, Freq1: outFreq1, LowFreq1: outLowFreq1,
				Str2: outStr2, Freq2: outFreq2, LowFreq2: outLowFreq2,
				Confusion:  confusionKey,
				LD:         ld,
				Class:      cls,
				Canon:      digit(canonFreq >= e.cfg.ArtiFreq),
				FLOverlap:  digit(firstRune(ls1) == firstRune(ls2)),
				LLOverlap:  digit(lastTwoOverlap(ls1, ls2)),
				KHC:        digit(isKHC),
				NgramPoint: ngramPoint,
			})
		}
	}
}

// analyzeNgrams inspects a pair of underscore-joined n-grams that agree
// everywhere but one token position. When the differing token is short
// and not already a well-known word, it is recorded as an ambiguous
// short-word candidate pending disambiguation; analyzeNgrams returns 1
// whenever it found exactly one differing token position worth
// examining, 0 otherwise.
func (e *Engine) analyzeNgrams(us1, us2 string) int {
	parts1 := splitTokens(us1, separator)
	parts2 := splitTokens(us2, separator)
	if len(parts1) == 1 || len(parts1) != len(parts2) {
		return 0
	}
	var diffPart1, diffPart2 string
	for i := range parts1 {
		if parts1[i] == parts2[i] {
			continue
		}
		if diffPart1 == "" {
			diffPart1 = parts1[i]
			diffPart2 = parts2[i]
			continue
		}
		return 0
	}
	if diffPart1 == "" {
		return 0
	}
	lp1 := textnorm.Lower(diffPart1)
	if freq, ok := e.lowFreq[lp1]; ok && freq >= e.cfg.ArtiFreq {
		return 0
	}
	if runeLen(diffPart1) < 6 {
		disambPair := diffPart1 + "~" + diffPart2
		ngramPair := us1 + "~" + us2
		e.disMu.Lock()
		if e.disPairs[disambPair] == nil {
			e.disPairs[disambPair] = make(map[string]bool)
		}
		e.disPairs[disambPair][ngramPair] = true
		e.disCount[disambPair]++
		e.disMu.Unlock()
	}
	return 1
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// AmbiguitySummary returns one Record per distinct short-word
// disambiguation pair, with ld, class and overlap flags computed as for
// a compared pair, and its NgramPoint set to the number of times
// analyzeNgrams recorded that pair (repeats of the same source n-gram
// pair included).
func (e *Engine) AmbiguitySummary() []Record {
	e.disMu.Lock()
	defer e.disMu.Unlock()
	keys := make([]string, 0, len(e.disCount))
	for k := range e.disCount {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []Record
	for _, k := range keys {
		parts := strings.SplitN(k, "~", 2)
		if len(parts) != 2 {
			continue
		}
		p1, p2 := parts[0], parts[1]
		ld := levenshtein.DistanceString(p1, p2)
		cls := maxInt(runeLen(p1), runeLen(p2)) - ld
		out = append(out, Record{
			Str1: p1, Freq1: e.freq[p1], LowFreq1: e.lowFreq[p1],
			Str2: p2, Freq2: e.freq[p2], LowFreq2: e.lowFreq[p2],
			Confusion:  "0",
			LD:         ld,
			Class:      cls,
			Canon:      "0",
			FLOverlap:  digit(firstRune(p1) == firstRune(p2)),
			LLOverlap:  digit(lastTwoOverlap(p1, p2)),
			KHC:        "0",
			NgramPoint: e.disCount[k],
		})
	}
	return out
}

// ProcessIndexFile streams path's index lines through ProcessLine,
// calling tick after every line for progress reporting. Once the
// malformed-line count exceeds maxMalformedLines, processing aborts
// immediately with ErrTooManyMalformedLines, even mid-file.
func (e *Engine) ProcessIndexFile(path string, tick func()) error {
	errCount := 0
	return fileio.ForEachLine(path, func(line string) error {
		if tick != nil {
			tick()
		}
		if err := e.ProcessLine(line); err != nil {
			errCount++
			if errCount > maxMalformedLines {
				return ErrTooManyMalformedLines
			}
		}
		return nil
	})
}

// WriteAmbiguityFile writes one line per disambiguation pair: the pair
// key followed by every original n-gram pair it was drawn from, each
// terminated by '#' (including the key itself).
func (e *Engine) WriteAmbiguityFile(w func(line string) error) error {
	e.disMu.Lock()
	defer e.disMu.Unlock()
	keys := make([]string, 0, len(e.disPairs))
	for k := range e.disPairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		members := make([]string, 0, len(e.disPairs[k]))
		for m := range e.disPairs[k] {
			members = append(members, m)
		}
		sort.Strings(members)
		var b strings.Builder
		b.WriteString(k)
		b.WriteByte('#')
		for _, m := range members {
			b.WriteString(m)
			b.WriteByte('#')
		}
		if err := w(b.String()); err != nil {
			return err
		}
	}
	return nil
}
