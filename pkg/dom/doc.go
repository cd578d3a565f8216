// Package dom provides a browser-like mutable element tree.
//
// Unlike a virtual DOM, nodes in this package are live: the reactive layer
// mutates them in place (replacing children, toggling attributes, rewriting
// text) and the rendered representation follows. There is no diffing; a
// subtree that needs to change is torn down and rebuilt.
//
// Elements are constructed with H or one of the tag helpers:
//
//	dom.Div(
//	    dom.Attrs{"class": "card"},
//	    dom.H1("Hello"),
//	    dom.P("Welcome back."),
//	)
//
// Construction arguments may be attributes (Attr, []Attr, Attrs), child
// nodes, strings (rendered as text), zero-argument functions (invoked and
// rendered), or nil (ignored, which allows conditional children).
package dom
