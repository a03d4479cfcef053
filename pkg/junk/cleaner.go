package junk

import (
	"regexp"
	"strings"
)

const titleGroup = "title"

// Leftover separators once junk around them is gone, e.g. "- Song" after removing the artist.
var (
	leadingSeparator  = regexp.MustCompile(`^\s*[-_\|]\s*(?P<title>.*)$`)
	trailingSeparator = regexp.MustCompile(`^(?P<title>.+?)\s*[-_\|]\s*$`)
)

// ReplaceJunk removes the junk matched by each pattern, in order, then trims whitespace and
// one leading and one trailing separator.
//
// Each pattern is searched once. Its captured text is deleted by literal replacement of the
// first occurrence, which is not necessarily the matched position when the same text appears
// earlier in the title.
func ReplaceJunk(title string, patterns ...*Pattern) string {
	cleaned := title

	for _, p := range patterns {
		span, ok := p.Match(cleaned)
		if !ok {
			continue
		}
		cleaned = strings.Replace(cleaned, span.Text(cleaned), "", 1)
	}

	cleaned = strings.TrimSpace(cleaned)

	for _, sep := range []*regexp.Regexp{leadingSeparator, trailingSeparator} {
		if m := sep.FindStringSubmatch(cleaned); m != nil {
			cleaned = m[sep.SubexpIndex(titleGroup)]
		}
	}

	return cleaned
}
