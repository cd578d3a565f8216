package router

import (
	"regexp"
	"strings"
)

// paramSeg matches any non-empty run of characters that cannot cross a
// segment or boundary character.
const paramSeg = `[^/?#]+`

// matchPattern tests a route pattern against the current location path.
//
// In absolute mode the pattern must cover the whole path (query string and
// hash fragment excluded): an exact match, the pattern plus a trailing
// slash, or the pattern with every $name segment substituted, anchored at
// the end.
//
// In prefix mode (the default) only the final segment's parameter is
// substituted, and the path must start with the pattern followed by a
// segment boundary: "/", "?", "#", or end of string.
func matchPattern(pattern, path string, absolute bool) bool {
	pattern = EnsureOnlyLeadingSlash(pattern)
	if absolute {
		path = stripQueryHash(path)
	}
	if pattern == "/" {
		// The root pattern is an exact match in absolute mode and a
		// universal prefix otherwise.
		if absolute {
			return path == "/" || path == ""
		}
		return strings.HasPrefix(path, "/")
	}
	segs := strings.Split(strings.TrimPrefix(pattern, "/"), "/")

	var b strings.Builder
	b.WriteString("^")
	for i, seg := range segs {
		b.WriteString("/")
		substitute := strings.HasPrefix(seg, "$") && (absolute || i == len(segs)-1)
		if substitute {
			b.WriteString(paramSeg)
		} else {
			b.WriteString(regexp.QuoteMeta(seg))
		}
	}
	if absolute {
		b.WriteString("/?$")
	} else {
		b.WriteString("([/?#].*)?$")
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return false
	}
	return re.MatchString(path)
}

// extractParams zips a pattern's segments against the current route's
// segments positionally. A pattern segment starting with "$" captures the
// same-index segment of the route, keyed by the name after the "$".
//
// The matching gate is the primary guard against shape mismatches; indices
// the route does not have are skipped rather than read.
func extractParams(pattern, currentRoute string) Params {
	params := make(Params)
	patSegs := strings.Split(stripQueryHash(pattern), "/")
	curSegs := strings.Split(stripQueryHash(currentRoute), "/")
	for i, seg := range patSegs {
		if strings.HasPrefix(seg, "$") && i < len(curSegs) {
			params[seg[1:]] = curSegs[i]
		}
	}
	return params
}
