// Package browser abstracts the pieces of the host environment the router
// depends on: the current location, the history stack, popstate delivery, a
// zero-delay deferred scheduler, and scrolling.
//
// Two implementations exist: Memory, an in-process window with a real
// history stack and a deterministic deferred-task queue, and (under
// js/wasm build tags) a binding to the real browser window.
package browser

import "github.com/tiller-ui/tiller/pkg/dom"

// Location describes the window's current address.
type Location struct {
	// Origin is the scheme and authority, e.g. "https://app.example.com".
	Origin string

	// Path is the path portion, possibly carrying a query string and a
	// hash fragment.
	Path string
}

// Window is the host environment contract consumed by the router.
type Window interface {
	// Location returns the current address.
	Location() Location

	// PushState appends a history entry for path without navigating.
	PushState(path string)

	// ReplaceState rewrites the current history entry to path.
	ReplaceState(path string)

	// OnPopState registers a handler for history back/forward transitions
	// and returns its removal func.
	OnPopState(fn func()) (remove func())

	// Defer schedules fn to run on the next turn of the event loop.
	Defer(fn func())

	// ScrollTo scrolls the viewport to the given coordinates.
	ScrollTo(x, y int)

	// Document returns the element tree this window presents.
	Document() *dom.Document
}
