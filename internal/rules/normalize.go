package rules

import (
	"strings"
	"unicode"
)

// NormalizeName lower-cases an event name and drops everything that is not a letter or digit,
// so "Poem-Recitation", "poem recitation" and "POEM RECITATION!" compare equal.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NameSet is a set of normalized event names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	set := make(NameSet, len(names))
	for _, name := range names {
		if n := NormalizeName(name); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func (s NameSet) Contains(name string) bool {
	n := NormalizeName(name)
	if n == "" {
		return false
	}
	_, ok := s[n]
	return ok
}
