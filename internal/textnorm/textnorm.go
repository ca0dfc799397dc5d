// Package textnorm centralizes code-point-wise case folding so every
// pipeline stage lowercases text the same way.
package textnorm

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.Und)

// Lower returns the code-point-wise lowercased form of s.
func Lower(s string) string {
	return lowerCaser.String(s)
}

// LowerRunes returns the lowercased code-point sequence of s.
func LowerRunes(s string) []rune {
	return []rune(Lower(s))
}
