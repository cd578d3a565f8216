package dom

import "fmt"

// Node is anything that can live in the element tree.
// The two concrete kinds are *Element and *Text.
type Node interface {
	// Parent returns the element this node is attached to, or nil for a
	// detached node.
	Parent() *Element

	// TextContent returns the concatenated text of this node and its
	// descendants.
	TextContent() string

	setParent(*Element)
	setDocument(*Document)
}

// Text is a plain text node.
type Text struct {
	data   string
	parent *Element
	doc    *Document
}

// NewText creates a detached text node.
func NewText(data string) *Text {
	return &Text{data: data}
}

// Data returns the node's text.
func (t *Text) Data() string { return t.data }

// SetData rewrites the node's text.
func (t *Text) SetData(data string) {
	t.data = data
	if t.doc != nil {
		t.doc.mutated()
	}
}

// Parent returns the element this text node is attached to.
func (t *Text) Parent() *Element { return t.parent }

// TextContent returns the node's text.
func (t *Text) TextContent() string { return t.data }

func (t *Text) setParent(p *Element) { t.parent = p }

func (t *Text) setDocument(d *Document) { t.doc = d }

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value any
}

// Attrs is an attribute map, accepted positionally by H and the tag helpers.
type Attrs map[string]any

// Render converts a value into a Node.
// Nodes pass through unchanged. A zero-argument function is invoked and its
// result rendered. Anything else becomes a text node in its string form.
func Render(v any) Node {
	switch x := v.(type) {
	case nil:
		return NewText("")
	case Node:
		return x
	case func() any:
		return Render(x())
	case func() Node:
		return x()
	case string:
		return NewText(x)
	default:
		return NewText(fmt.Sprint(x))
	}
}
