package router

import "strings"

// EnsureOnlyLeadingSlash normalizes s to exactly one leading slash and no
// trailing slash, unless the whole result is "/". It is idempotent.
func EnsureOnlyLeadingSlash(s string) string {
	return "/" + strings.Trim(s, "/")
}

// makePath builds the absolute path for a route relative to a root path.
// A root of "/" contributes nothing.
func makePath(root, route string) string {
	root = EnsureOnlyLeadingSlash(root)
	if root == "/" {
		return EnsureOnlyLeadingSlash(route)
	}
	return EnsureOnlyLeadingSlash(root + EnsureOnlyLeadingSlash(route))
}

// stripQueryHash removes the query string and hash fragment from a path.
func stripQueryHash(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		return s[:i]
	}
	return s
}

// hashFragment returns the hash fragment of a path, without the "#",
// and whether one was present.
func hashFragment(s string) (string, bool) {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[i+1:], true
	}
	return "", false
}
