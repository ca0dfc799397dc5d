// Package levenshtein computes edit distance over Unicode code-point
// sequences and optionally memoizes it behind a bounded cache.
package levenshtein

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// Distance computes the standard Levenshtein distance between two rune
// sequences using a two-row dynamic-programming sweep.
func Distance(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			curr[j] = min3(del, ins, sub)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// DistanceString is a convenience wrapper over Distance for string
// arguments, decoding both to code points first.
func DistanceString(a, b string) int {
	return Distance([]rune(a), []rune(b))
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

// Options configure a Calculator via the functional-options pattern.
type Options struct {
	CacheSize int
}

// Option mutates Options.
type Option func(*Options)

// WithCache bounds the memoization table to size entries. size <= 0
// disables caching.
func WithCache(size int) Option {
	return func(o *Options) { o.CacheSize = size }
}

// Calculator computes Levenshtein distance, optionally memoizing results
// behind an LRU so that repeated queries for the same pair (common in
// LD-CALC's set comparison and CHAIN's on-demand ld(head,member)) don't
// re-run the DP.
type Calculator struct {
	cache *lru.Cache[string, int]
}

// NewCalculator builds a Calculator from the given options.
func NewCalculator(opts ...Option) *Calculator {
	var o Options
	for _, apply := range opts {
		apply(&o)
	}
	c := &Calculator{}
	if o.CacheSize > 0 {
		cache, err := lru.New[string, int](o.CacheSize)
		if err == nil {
			c.cache = cache
		}
	}
	return c
}

// Distance returns the Levenshtein distance between a and b, consulting
// and populating the cache when one is configured.
func (c *Calculator) Distance(a, b string) int {
	if c.cache == nil {
		return DistanceString(a, b)
	}
	key := a + "\x00" + b
	if v, ok := c.cache.Get(key); ok {
		return v
	}
	d := DistanceString(a, b)
	c.cache.Add(key, d)
	return d
}
