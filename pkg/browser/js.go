//go:build js && wasm

package browser

import (
	"strconv"
	"syscall/js"

	"github.com/tiller-ui/tiller/pkg/dom"
)

// JS binds Window to the real browser via syscall/js.
//
// The element tree is mirrored into a mount node: any mutation schedules a
// repaint that rewrites the mount's innerHTML from the tree. Native click
// events are routed back to tree elements through their data-tid delegation
// attribute.
type JS struct {
	doc   *dom.Document
	mount js.Value

	repaintQueued bool

	global   js.Value
	history  js.Value
	location js.Value
}

// NewJS creates a browser-backed window.
func NewJS() *JS {
	global := js.Global()
	return &JS{
		doc:      dom.NewDocument(),
		global:   global,
		history:  global.Get("history"),
		location: global.Get("location"),
	}
}

// Mount attaches the element tree to the DOM node with the given id and
// starts mirroring mutations into it.
func (w *JS) Mount(id string) {
	document := w.global.Get("document")
	w.mount = document.Call("getElementById", id)

	w.doc.OnMutate(w.scheduleRepaint)
	w.repaint()

	// Route native clicks to tree elements via their delegation id.
	onClick := js.FuncOf(func(this js.Value, args []js.Value) any {
		evt := args[0]
		target := evt.Get("target").Call("closest", "[data-tid]")
		if target.IsNull() {
			return nil
		}
		tid, err := strconv.ParseUint(target.Get("dataset").Get("tid").String(), 10, 64)
		if err != nil {
			return nil
		}
		el := w.doc.GetElementByTID(tid)
		if el == nil {
			return nil
		}
		if el.Click().DefaultPrevented() {
			evt.Call("preventDefault")
		}
		return nil
	})
	w.mount.Call("addEventListener", "click", onClick)
}

// Location returns the browser's current address.
func (w *JS) Location() Location {
	return Location{
		Origin: w.location.Get("origin").String(),
		Path: w.location.Get("pathname").String() +
			w.location.Get("search").String() +
			w.location.Get("hash").String(),
	}
}

// PushState appends a browser history entry.
func (w *JS) PushState(path string) {
	w.history.Call("pushState", nil, "", path)
}

// ReplaceState rewrites the current browser history entry.
func (w *JS) ReplaceState(path string) {
	w.history.Call("replaceState", nil, "", path)
}

// OnPopState registers a popstate handler on the browser window.
func (w *JS) OnPopState(fn func()) (remove func()) {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	w.global.Call("addEventListener", "popstate", cb)
	return func() {
		w.global.Call("removeEventListener", "popstate", cb)
		cb.Release()
	}
}

// Defer schedules fn on the next event-loop turn via setTimeout(0).
func (w *JS) Defer(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		defer cb.Release()
		fn()
		return nil
	})
	w.global.Call("setTimeout", cb, 0)
}

// ScrollTo scrolls the browser viewport.
func (w *JS) ScrollTo(x, y int) {
	w.global.Call("scrollTo", x, y)
}

// Document returns the mirrored element tree.
func (w *JS) Document() *dom.Document { return w.doc }

func (w *JS) scheduleRepaint() {
	if w.repaintQueued {
		return
	}
	w.repaintQueued = true
	w.Defer(func() {
		w.repaintQueued = false
		w.repaint()
	})
}

func (w *JS) repaint() {
	if w.mount.Truthy() {
		w.mount.Set("innerHTML", w.doc.Root().InnerHTML())
	}
}
