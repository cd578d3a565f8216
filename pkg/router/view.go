package router

import (
	"github.com/tiller-ui/tiller/internal/errors"
	"github.com/tiller-ui/tiller/pkg/dom"
	"github.com/tiller-ui/tiller/pkg/state"
)

// Route creates an element shown while the window's current path matches
// its route pattern.
//
// The args must include a string "path" attribute (the route pattern, which
// may contain $name segments); an "absolute" bool attribute switches from
// prefix to exact matching. The remaining args are the route's content:
// nodes, strings, or zero-argument builder functions. The content subtree is
// torn down and rebuilt on every matching route change, and the router's
// Params container is rebuilt from the pattern on every successful match.
//
// A missing path attribute is a configuration error and panics.
func (r *Router) Route(args ...any) *dom.Element {
	attrs := dom.GetAttrs(args)
	pattern, ok := attrs["path"].(string)
	if !ok || pattern == "" {
		panic(errors.New("E001"))
	}
	absolute, _ := attrs["absolute"].(bool)
	children := contentArgs(args)

	el := dom.Div(attrs)
	sync := func(node *dom.Element, _ ...any) {
		if !r.ShouldDisplay(pattern, absolute) {
			node.ReplaceChildren()
			node.SetHidden(true)
			return
		}
		r.params.Set(r.ExtractParams(pattern))
		node.ReplaceChildren(renderContent(children)...)
		node.SetHidden(false)
	}

	b := state.Bind(state.Sources(r.path), el, state.UpdateFunc(sync))
	r.track(b)
	sync(el)
	return el
}

// RouteSwitch creates an element rendering only the first of its child
// routes whose pattern matches the current path. Children are typically the
// results of Route; any child element without a "path" attribute is
// ignored. With no match the switch renders empty.
func (r *Router) RouteSwitch(args ...any) *dom.Element {
	attrs := dom.GetAttrs(args)

	var routes []*dom.Element
	for _, arg := range args {
		if c, ok := arg.(*dom.Element); ok && c.AttrString("path") != "" {
			routes = append(routes, c)
		}
	}

	el := dom.Div(attrs)
	sync := func(node *dom.Element, _ ...any) {
		for _, c := range routes {
			absolute, _ := c.Attr("absolute")
			if r.ShouldDisplay(c.AttrString("path"), absolute == true) {
				node.ReplaceChildren(c)
				return
			}
		}
		node.ReplaceChildren()
	}

	b := state.Bind(state.Sources(r.path), el, state.UpdateFunc(sync))
	r.track(b)
	sync(el)
	return el
}

// contentArgs filters construction args down to the renderable content,
// dropping attribute arguments.
func contentArgs(args []any) []any {
	var out []any
	for _, arg := range args {
		if arg == nil || dom.IsAttrs(arg) {
			continue
		}
		out = append(out, arg)
	}
	return out
}

// renderContent renders content args into nodes. Builder functions are
// re-invoked on every call, which is what tears down and rebuilds a route's
// subtree.
func renderContent(children []any) []dom.Node {
	nodes := make([]dom.Node, 0, len(children))
	for _, c := range children {
		nodes = append(nodes, dom.Render(c))
	}
	return nodes
}
