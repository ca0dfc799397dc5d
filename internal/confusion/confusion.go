// Package confusion loads confusion-key files and the historical,
// diacritic and foci flag sets used to restrict which confusions apply.
package confusion

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"anacorrect/internal/fileio"
)

// Key is a signed 64-bit confusion hash, additively composable with
// anagram keys.
type Key int64

// LoadSorted reads a character-confusion file (`key#pattern`) and
// returns its keys in ascending order, deduplicated.
func LoadSorted(path string) ([]Key, error) {
	set := make(map[Key]bool)
	err := fileio.ForEachLine(path, func(line string) error {
		if line == "" {
			return nil
		}
		parts := strings.SplitN(line, "#", 2)
		if len(parts) == 0 || parts[0] == "" {
			return fmt.Errorf("confusion: malformed line %q", line)
		}
		v, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return fmt.Errorf("confusion: malformed line %q: %w", line, err)
		}
		set[Key(v)] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	keys := make([]Key, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, nil
}

// LoadFlagSet reads a historical- or diacritic-confusion file: lines of
// `key#pattern[#optional]`, 2-3 '#'-separated fields required. Lines that
// don't split into 2 or 3 fields are silently skipped.
func LoadFlagSet(path string) (map[Key]bool, error) {
	set := make(map[Key]bool)
	err := fileio.ForEachLine(path, func(line string) error {
		parts := strings.Split(line, "#")
		if len(parts) < 2 || len(parts) > 3 {
			return nil
		}
		v, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil
		}
		set[Key(v)] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("confusion: loading flag set %s: %w", path, err)
	}
	return set, nil
}

// LoadFoci reads one decimal integer per line into a membership set used
// to restrict the indexer join to a focus word list. Values are anagram
// keys; callers cast as needed.
func LoadFoci(path string) (map[int64]bool, error) {
	set := make(map[int64]bool)
	err := fileio.ForEachLine(path, func(line string) error {
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return fmt.Errorf("confusion: malformed foci line %q: %w", line, err)
		}
		set[v] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}
