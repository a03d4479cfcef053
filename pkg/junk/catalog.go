package junk

import "slices"

// bracketed matches any (...), [...] or {...} span whose contents include keyword.
// Openers and closers are not required to pair up.
func bracketed(keyword string) *Pattern {
	return MustCompile(`(?i)(?P<junk>[\(\[\{].*?(?:` + keyword + `).*?[\)\]\}])`)
}

// Order matters: each pattern removes at most one span, tried in sequence.
var catalog = []*Pattern{
	bracketed(`Explicit|Clean|Parental\sAdvisory`),
	bracketed(`HQ|HD|CDQ`),
	bracketed(`Audio`),
	bracketed(`Album`),
	bracketed(`Song`),
	bracketed(`Video`),
	bracketed(`Lyric`),
	bracketed(`Visualizer`),
	bracketed(`iTunes`),
	bracketed(`Official`),
	bracketed(`Original`),
	bracketed(`Version`),
	bracketed(`Prod(?:uced|\.)?\sBy`),
}

// Catalog returns the generic video-site junk patterns in application order.
func Catalog() []*Pattern {
	return slices.Clone(catalog)
}
