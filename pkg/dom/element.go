package dom

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// tidCounter is the source of delegation ids for interactive elements.
var tidCounter uint64

// Element is a live element node. Mutations take effect immediately and are
// reported to the owning Document, if any.
type Element struct {
	tag      string
	attrs    Attrs
	children []Node
	parent   *Element
	doc      *Document
	handlers map[string][]handlerEntry
	nextHID  int
	hidden   bool

	// tid is the delegation id, assigned when the first handler registers.
	// It is rendered as a data-tid attribute so host environments can route
	// native events back to this element.
	tid uint64
}

type handlerEntry struct {
	id int
	fn EventHandler
}

// EventHandler handles a dispatched event.
type EventHandler func(*Event)

// Event is a synthetic event dispatched against an element.
type Event struct {
	Type   string
	Target *Element

	defaultPrevented bool
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Tag returns the element's tag name.
func (el *Element) Tag() string { return el.tag }

// Parent returns the element's parent, or nil if detached.
func (el *Element) Parent() *Element { return el.parent }

// Document returns the document this element is attached to, or nil.
func (el *Element) Document() *Document { return el.doc }

// Attr returns the value of an attribute and whether it is set.
func (el *Element) Attr(key string) (any, bool) {
	v, ok := el.attrs[key]
	return v, ok
}

// AttrString returns an attribute's value as a string.
// Non-string values are formatted; a missing attribute returns "".
func (el *Element) AttrString(key string) string {
	v, ok := el.attrs[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SetAttr sets an attribute.
func (el *Element) SetAttr(key string, value any) {
	if el.attrs == nil {
		el.attrs = make(Attrs)
	}
	el.attrs[key] = value
	el.notify()
}

// DelAttr removes an attribute.
func (el *Element) DelAttr(key string) {
	delete(el.attrs, key)
	el.notify()
}

// ID returns the element's id attribute.
func (el *Element) ID() string { return el.AttrString("id") }

// Children returns the element's children. The returned slice is a copy.
func (el *Element) Children() []Node {
	out := make([]Node, len(el.children))
	copy(out, el.children)
	return out
}

// Append attaches nodes as the element's last children.
func (el *Element) Append(nodes ...Node) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		n.setParent(el)
		n.setDocument(el.doc)
		el.children = append(el.children, n)
	}
	el.notify()
}

// ReplaceChildren detaches all current children and attaches the given nodes.
func (el *Element) ReplaceChildren(nodes ...Node) {
	for _, c := range el.children {
		c.setParent(nil)
		c.setDocument(nil)
	}
	el.children = el.children[:0]
	el.Append(nodes...)
}

// SetText replaces the element's children with a single text node.
func (el *Element) SetText(s string) {
	el.ReplaceChildren(NewText(s))
}

// Remove detaches the element from its parent.
func (el *Element) Remove() {
	p := el.parent
	if p == nil {
		return
	}
	for i, c := range p.children {
		if ce, ok := c.(*Element); ok && ce == el {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	el.setParent(nil)
	el.setDocument(nil)
	p.notify()
}

// TextContent returns the concatenated text of the element's subtree.
func (el *Element) TextContent() string {
	var b strings.Builder
	for _, c := range el.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Classes returns the element's class attribute split on whitespace.
func (el *Element) Classes() []string {
	return strings.Fields(el.AttrString("class"))
}

// HasClass reports whether the element carries the given class.
func (el *Element) HasClass(name string) bool {
	for _, c := range el.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds a class to the element's class attribute.
func (el *Element) AddClass(name string) {
	if name == "" || el.HasClass(name) {
		return
	}
	classes := append(el.Classes(), name)
	el.SetAttr("class", strings.Join(classes, " "))
}

// RemoveClass removes a class from the element's class attribute.
func (el *Element) RemoveClass(name string) {
	if !el.HasClass(name) {
		return
	}
	var kept []string
	for _, c := range el.Classes() {
		if c != name {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		el.DelAttr("class")
		return
	}
	el.SetAttr("class", strings.Join(kept, " "))
}

// SetHidden toggles the element's hidden state.
func (el *Element) SetHidden(hidden bool) {
	if el.hidden == hidden {
		return
	}
	el.hidden = hidden
	el.notify()
}

// Hidden reports whether the element is hidden.
func (el *Element) Hidden() bool { return el.hidden }

// TID returns the element's delegation id, or 0 if it has no handlers.
func (el *Element) TID() uint64 { return el.tid }

// On registers a handler for an event type and returns a removal func.
func (el *Element) On(event string, fn EventHandler) (remove func()) {
	if el.handlers == nil {
		el.handlers = make(map[string][]handlerEntry)
	}
	if el.tid == 0 {
		el.tid = atomic.AddUint64(&tidCounter, 1)
	}
	el.nextHID++
	id := el.nextHID
	el.handlers[event] = append(el.handlers[event], handlerEntry{id: id, fn: fn})
	return func() {
		hs := el.handlers[event]
		for i, h := range hs {
			if h.id == id {
				el.handlers[event] = append(hs[:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch delivers an event to this element's handlers.
// It returns the event so callers can inspect DefaultPrevented.
func (el *Element) Dispatch(evt *Event) *Event {
	if evt.Target == nil {
		evt.Target = el
	}
	for _, h := range el.handlers[evt.Type] {
		h.fn(evt)
	}
	return evt
}

// Click dispatches a click event against the element.
func (el *Element) Click() *Event {
	return el.Dispatch(&Event{Type: "click"})
}

// ScrollIntoView asks the owning document to bring this element into view.
// Detached elements ignore the call.
func (el *Element) ScrollIntoView() {
	if el.doc != nil {
		el.doc.scrolled(el)
	}
}

// HTML renders the element's subtree as escaped HTML.
func (el *Element) HTML() string {
	var b strings.Builder
	el.writeHTML(&b)
	return b.String()
}

// InnerHTML renders only the element's children.
func (el *Element) InnerHTML() string {
	var b strings.Builder
	el.writeChildren(&b)
	return b.String()
}

// String implements fmt.Stringer.
func (el *Element) String() string { return el.HTML() }

func (el *Element) writeHTML(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(el.tag)
	keys := make([]string, 0, len(el.attrs))
	for k := range el.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(fmt.Sprint(el.attrs[k])))
		b.WriteByte('"')
	}
	if el.tid != 0 {
		b.WriteString(` data-tid="`)
		b.WriteString(strconv.FormatUint(el.tid, 10))
		b.WriteByte('"')
	}
	if el.hidden {
		b.WriteString(" hidden")
	}
	b.WriteByte('>')
	if IsVoidElement(el.tag) {
		return
	}
	el.writeChildren(b)
	b.WriteString("</")
	b.WriteString(el.tag)
	b.WriteByte('>')
}

func (el *Element) writeChildren(b *strings.Builder) {
	for _, c := range el.children {
		switch n := c.(type) {
		case *Element:
			n.writeHTML(b)
		case *Text:
			b.WriteString(html.EscapeString(n.data))
		}
	}
}

func (el *Element) setParent(p *Element) { el.parent = p }

func (el *Element) setDocument(d *Document) {
	el.doc = d
	for _, c := range el.children {
		c.setDocument(d)
	}
}

func (el *Element) notify() {
	if el.doc != nil {
		el.doc.mutated()
	}
}
