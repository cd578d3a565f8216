package state

import (
	"github.com/tiller-ui/tiller/pkg/dom"
)

// UpdateFunc updates a bound element after a watched container changed.
// The values are the current snapshots of every watched source, passed
// positionally in the order the sources were given to Bind.
type UpdateFunc func(node *dom.Element, values ...any)

// Binding ties one rendered element to one or more sources.
//
// The element is computed exactly once, when the binding is created. Every
// later change to any watched source re-invokes the update path against that
// same element. The binding owns its subscriptions; callers tearing down the
// surrounding tree should call Dispose.
type Binding struct {
	node    *dom.Element
	sources []Source
	build   any
	update  UpdateFunc

	// hosted is true when the built value was not itself an element and
	// lives inside a generated host span.
	hosted bool

	cancels []func()
}

// Bind attaches an element to the given sources and returns the binding.
//
// build may be a *dom.Element, a dom.Node, a string or other primitive
// (rendered as text inside a stable host element), or a zero-argument
// function producing any of those. When update is nil, every change re-runs
// the builder and replaces the element's rendered content (children for an
// element result, text otherwise) while the element's identity is
// preserved. When update is non-nil it is called instead, with the current
// snapshot of every source.
//
// Sources read inside the builder but absent from the watch list do not
// trigger updates; watching them is the caller's responsibility.
func Bind(sources []Source, build any, update UpdateFunc) *Binding {
	b := &Binding{
		sources: sources,
		build:   build,
		update:  update,
	}

	rendered := dom.Render(evalBuild(build))
	if el, ok := rendered.(*dom.Element); ok {
		b.node = el
	} else {
		b.node = dom.Span(rendered)
		b.hosted = true
	}

	for _, src := range sources {
		b.cancels = append(b.cancels, src.Subscribe(b.refresh))
	}

	return b
}

// BindNode is Bind for callers that only need the element.
// The binding's subscriptions live as long as the sources do.
func BindNode(sources []Source, build any, update UpdateFunc) *dom.Element {
	return Bind(sources, build, update).Node()
}

// Node returns the bound element. The same element is returned for the
// lifetime of the binding.
func (b *Binding) Node() *dom.Element {
	return b.node
}

// Dispose cancels every subscription held by the binding.
// The element itself is left in place.
func (b *Binding) Dispose() {
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
}

// refresh runs the update path once for one notification.
func (b *Binding) refresh() {
	if b.update != nil {
		values := make([]any, len(b.sources))
		for i, src := range b.sources {
			values[i] = src.Snapshot()
		}
		b.update(b.node, values...)
		return
	}

	rendered := dom.Render(evalBuild(b.build))
	if b.hosted {
		b.node.ReplaceChildren(rendered)
		return
	}
	if el, ok := rendered.(*dom.Element); ok {
		b.node.ReplaceChildren(el.Children()...)
		return
	}
	b.node.ReplaceChildren(rendered)
}

// evalBuild invokes build when it is callable, otherwise returns it as-is.
func evalBuild(build any) any {
	switch f := build.(type) {
	case func() any:
		return f()
	case func() dom.Node:
		return f()
	case func() *dom.Element:
		return f()
	case func() string:
		return f()
	default:
		return build
	}
}
