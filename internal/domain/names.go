package domain

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Collapse trims s and folds internal whitespace runs into single spaces.
func Collapse(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// NameKey is the comparison key for market names: collapsed and case-folded.
func NameKey(s string) string {
	return strings.ToLower(Collapse(s))
}

// Decorate prefixes base with the star, StatTrak and Souvenir markers that are requested.
// The star is never doubled when base already carries it.
func Decorate(base string, star, statTrak, souvenir bool) string {
	var b strings.Builder
	if star && !strings.HasPrefix(base, StarMarker) {
		b.WriteString(StarMarker)
		b.WriteByte(' ')
	}
	if souvenir {
		b.WriteString(SouvenirMarker)
		b.WriteByte(' ')
	}
	if statTrak {
		b.WriteString(StatTrakMarker)
		b.WriteByte(' ')
	}
	b.WriteString(base)
	return b.String()
}

// DisplayName decorates the descriptor's own name from its flags.
func (d ItemDescriptor) DisplayName() string {
	return Decorate(d.Name, d.IsKnife || d.IsGloves, d.IsStatTrak(), d.IsSouvenir())
}
