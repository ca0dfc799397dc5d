// Package anagram loads anagram-hash files and derives the admissible
// key set used by the indexer join.
package anagram

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"anacorrect/internal/fileio"
)

// Key is a signed 64-bit anagram hash: two words share a key exactly
// when they are character-anagrams.
type Key int64

// Bucket holds every corpus word string that hashes to one anagram key.
// Buckets are immutable once loaded.
type Bucket struct {
	Words []string
}

// BucketSet maps an anagram key to its bucket.
type BucketSet map[Key]Bucket

// LoadStats reports how many lines were skipped while loading buckets,
// e.g. malformed lines that had no '#'-separated word list.
type LoadStats struct {
	Skipped int
}

// Load reads an anagram-hash file: each line `key~w1#w2#…#wn`.
func Load(path string) (BucketSet, LoadStats, error) {
	buckets := make(BucketSet)
	var stats LoadStats
	err := fileio.ForEachLine(path, func(line string) error {
		parts := strings.SplitN(line, "~", 2)
		if len(parts) != 2 {
			stats.Skipped++
			return nil
		}
		key, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			stats.Skipped++
			return nil
		}
		words := strings.Split(parts[1], "#")
		if len(words) == 0 || (len(words) == 1 && words[0] == "") {
			stats.Skipped++
			return nil
		}
		b := buckets[Key(key)]
		b.Words = append(b.Words, words...)
		buckets[Key(key)] = b
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("anagram: loading %s: %w", path, err)
	}
	return buckets, stats, nil
}

// AdmissibleSet returns the sorted-ascending keys whose bucket's first
// word has code-point length in [low, high]. skipped counts buckets
// rejected by the length band.
func AdmissibleSet(buckets BucketSet, low, high int) (keys []Key, skipped int) {
	keys = make([]Key, 0, len(buckets))
	for k, b := range buckets {
		if len(b.Words) == 0 {
			skipped++
			continue
		}
		n := len([]rune(b.Words[0]))
		if n < low || n > high {
			skipped++
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys, skipped
}
