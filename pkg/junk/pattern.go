// Package junk strips promotional noise such as "(Official Audio)" or "[HD]" from track titles.
//
// A title is cleaned by running an ordered list of patterns over it. Each pattern carries a
// single named group, "junk", marking the text to delete. Item-specific patterns (album and
// artist names) go first, followed by the static catalog.
package junk

import (
	"fmt"
	"regexp"
)

// JunkGroup is the capture group every Pattern must define.
const JunkGroup = "junk"

// Span is a byte range inside the text a Pattern was matched against.
type Span struct {
	Start int
	End   int
}

// Text returns the substring of s covered by the span.
func (s Span) Text(text string) string {
	return text[s.Start:s.End]
}

// Pattern is an immutable compiled expression with exactly one "junk" group.
type Pattern struct {
	re    *regexp.Regexp
	group int
}

// MustCompile compiles expr and panics if it is invalid or lacks the junk group.
func MustCompile(expr string) *Pattern {
	re := regexp.MustCompile(expr)
	group := re.SubexpIndex(JunkGroup)
	if group < 0 {
		panic(fmt.Sprintf("junk: pattern %q has no %q group", expr, JunkGroup))
	}
	return &Pattern{re: re, group: group}
}

// Match reports the junk span of the first match in text.
func (p *Pattern) Match(text string) (Span, bool) {
	loc := p.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return Span{}, false
	}
	start, end := loc[2*p.group], loc[2*p.group+1]
	if start < 0 {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}

func (p *Pattern) String() string {
	return p.re.String()
}

// AlbumNamePattern matches the literal album name wrapped in parentheses.
func AlbumNamePattern(album string) *Pattern {
	return MustCompile(`(?i)(?P<junk>\(` + regexp.QuoteMeta(album) + `\))`)
}

// ArtistNamePattern matches the literal artist name, bare or parenthesized.
// Each parenthesis is optional on its own.
func ArtistNamePattern(artist string) *Pattern {
	return MustCompile(`(?i)(?P<junk>\(?` + regexp.QuoteMeta(artist) + `\)?)`)
}
