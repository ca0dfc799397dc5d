// Package corpus loads the frequency tables and alphabet used throughout
// the lexical-distance comparison stage.
package corpus

import (
	"fmt"
	"strconv"
	"strings"

	"anacorrect/internal/fileio"
	"anacorrect/internal/textnorm"
)

// Frequencies holds the exact-form and lowercase-aggregated frequency
// tables derived from one clean-corpus file.
type Frequencies struct {
	Freq    map[string]uint64 // exact UTF-8 word string -> count
	LowFreq map[string]uint64 // lowercased code-point sequence -> aggregated count
	Skipped int                // lines that didn't split into exactly two fields
}

// LoadFrequencies reads a clean (frequency) file: `word\sfrequency` per
// line. Lines that don't split into exactly two whitespace-separated
// fields are silently skipped and counted. LowFreq aggregates by
// lowercased form: a contribution at/above artifreq sets LowFreq[L] to
// its own freq while LowFreq[L] is still zero, and otherwise adds
// freq-artifreq (the synthetic mass is counted once); contributions
// below artifreq add in full. Mass from a below-threshold contribution
// read earlier is therefore kept, not overwritten.
func LoadFrequencies(path string, artifreq uint64) (*Frequencies, error) {
	f := &Frequencies{
		Freq:    make(map[string]uint64),
		LowFreq: make(map[string]uint64),
	}
	err := fileio.ForEachLine(path, func(line string) error {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			f.Skipped++
			return nil
		}
		word := fields[0]
		freq, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			f.Skipped++
			return nil
		}
		f.Freq[word] = freq
		low := textnorm.Lower(word)
		if freq >= artifreq {
			// Make sure the synthetic artifreq mass is counted only once:
			// the first contribution to accumulate any mass at all sets
			// LowFreq[low] outright, every later one adds freq-artifreq.
			if f.LowFreq[low] == 0 {
				f.LowFreq[low] = freq
			} else {
				f.LowFreq[low] += freq - artifreq
			}
		} else {
			f.LowFreq[low] += freq
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("corpus: loading frequencies %s: %w", path, err)
	}
	return f, nil
}

// Alphabet is the set of admissible code points. An empty Alphabet means
// unrestricted.
type Alphabet map[rune]bool

// LoadAlphabet reads `codepoint\sfield2\sfield3` lines, using only the
// first code point of the first field.
func LoadAlphabet(path string) (Alphabet, error) {
	alph := make(Alphabet)
	err := fileio.ForEachLine(path, func(line string) error {
		if line == "" || strings.HasPrefix(line, "#") {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return fmt.Errorf("corpus: invalid alphabet line %q", line)
		}
		r := []rune(fields[0])
		if len(r) == 0 {
			return fmt.Errorf("corpus: empty alphabet field in line %q", line)
		}
		alph[r[0]] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return alph, nil
}

// Clean reports whether every code point of s lies in alphabet. An empty
// alphabet means unrestricted, so everything is clean.
func Clean(s string, alphabet Alphabet) bool {
	if len(alphabet) == 0 {
		return true
	}
	for _, r := range s {
		if !alphabet[r] {
			return false
		}
	}
	return true
}
