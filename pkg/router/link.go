package router

import (
	"github.com/tiller-ui/tiller/internal/errors"
	"github.com/tiller-ui/tiller/pkg/dom"
	"github.com/tiller-ui/tiller/pkg/state"
)

// Link creates an anchor that navigates through the router instead of
// reloading the page.
//
// The args must include a string "to" attribute naming the target route;
// a missing one is a configuration error and panics. Recognized optional
// attributes, consumed rather than rendered:
//
//   - "context": payload passed to GoTo via WithContext
//   - "replace": bool, replace the history entry instead of pushing
//   - "activeClass": class toggled on the anchor while the target route
//     matches the current path (prefix semantics)
//
// The anchor's href is the absolute target path, so deep links stay
// copyable; the click itself is intercepted and routed through GoTo.
func (r *Router) Link(args ...any) *dom.Element {
	attrs := dom.GetAttrs(args)
	to, ok := attrs["to"].(string)
	if !ok || to == "" {
		panic(errors.New("E002"))
	}

	el := dom.A(args...)
	el.SetAttr("href", r.MakePath(to))

	var navOpts []NavigateOption
	if ctx, ok := attrs["context"]; ok {
		navOpts = append(navOpts, WithContext(ctx))
		el.DelAttr("context")
	}
	if replace, _ := attrs["replace"].(bool); replace {
		navOpts = append(navOpts, WithReplace())
	}
	el.DelAttr("replace")

	el.On("click", func(e *dom.Event) {
		e.PreventDefault()
		// A cancelled navigation is already logged by the router.
		_ = r.GoTo(to, navOpts...)
	})

	if active, _ := attrs["activeClass"].(string); active != "" {
		el.DelAttr("activeClass")
		sync := func(node *dom.Element, _ ...any) {
			if r.ShouldDisplay(to, false) {
				node.AddClass(active)
			} else {
				node.RemoveClass(active)
			}
		}
		b := state.Bind(state.Sources(r.path), el, state.UpdateFunc(sync))
		r.track(b)
		sync(el)
	}

	return el
}
