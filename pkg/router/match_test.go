package router

import "testing"

func TestMatchPatternAbsolute(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/a/$id", "/a/123", true},
		{"/a/$id", "/a/123/", true},
		{"/a/$id", "/a/123/extra", false},
		{"/a/$id", "/a", false},
		{"/a/$id/b", "/a/1/b", true},
		{"/a/$id/b", "/a/1/c", false},
		{"/users", "/users", true},
		{"/users", "/users/", true},
		{"/users", "/users/5", false},
		// Query strings and hash fragments never count against the match.
		{"/users", "/users?tab=2", true},
		{"/users", "/users#top", true},
		{"/users", "/users?tab=2#top", true},
		{"/a/$id", "/a/123#frag", true},
		{"/a/$id", "/a/123?x=1", true},
		{"/", "/", true},
		{"/", "/?x=1", true},
		{"/", "/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			if got := matchPattern(tt.pattern, tt.path, true); got != tt.want {
				t.Errorf("matchPattern(%q, %q, absolute) = %v, want %v",
					tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchPatternPrefix(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/a", "/a", true},
		{"/a", "/a/b", true},
		{"/a", "/a?x=1", true},
		{"/a", "/a#frag", true},
		{"/a", "/ab", false},
		{"/a", "/b/a", false},
		// Only the final segment's parameter is substituted.
		{"/users/$id", "/users/42", true},
		{"/users/$id", "/users/42/posts", true},
		{"/$section/detail", "/users/detail", false},
		{"/", "/", true},
		{"/", "/anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" vs "+tt.path, func(t *testing.T) {
			if got := matchPattern(tt.pattern, tt.path, false); got != tt.want {
				t.Errorf("matchPattern(%q, %q, prefix) = %v, want %v",
					tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}

func TestMatchPatternParamSegmentBoundaries(t *testing.T) {
	// A parameter never crosses "/", "?", or "#".
	if matchPattern("/a/$id", "/a/1/2", true) {
		t.Error("parameter crossed a segment boundary")
	}
	if !matchPattern("/a/$id", "/a/1?x=2", false) {
		t.Error("query after a matched parameter should not break the match")
	}
	if matchPattern("/a/$id", "/a/", true) {
		t.Error("parameter matched the empty segment")
	}
}

func TestExtractParams(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		route   string
		want    Params
	}{
		{"single", "/a/$id", "/a/42", Params{"id": "42"}},
		{"multiple", "/$section/$id", "/users/7", Params{"section": "users", "id": "7"}},
		{"none", "/a/b", "/a/b", Params{}},
		{"query ignored", "/a/$id", "/a/42?x=1", Params{"id": "42"}},
		{"short route", "/a/$id/$sub", "/a/42", Params{"id": "42"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractParams(tt.pattern, tt.route)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("param %q: got %q, want %q", k, got[k], v)
				}
			}
		})
	}
}
