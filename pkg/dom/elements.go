package dom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// H creates an element with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, Attrs, Node, []Node, string,
// a zero-argument function, or any other value (rendered as text).
func H(tag string, args ...any) *Element {
	el := &Element{
		tag:   tag,
		attrs: make(Attrs),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes and children)
			continue

		case Attr:
			if v.Key != "" {
				el.attrs[v.Key] = v.Value
			}

		case []Attr:
			for _, attr := range v {
				if attr.Key != "" {
					el.attrs[attr.Key] = attr.Value
				}
			}

		case Attrs:
			for k, val := range v {
				el.attrs[k] = val
			}

		case *Element:
			if v != nil {
				el.Append(v)
			}

		case *Text:
			if v != nil {
				el.Append(v)
			}

		case Node:
			el.Append(v)

		case []Node:
			for _, n := range v {
				if n != nil {
					el.Append(n)
				}
			}

		case []*Element:
			for _, n := range v {
				if n != nil {
					el.Append(n)
				}
			}

		default:
			el.Append(Render(v))
		}
	}

	return el
}

// GetAttrs extracts the attribute maps from a construction argument list.
// Attr, []Attr, and Attrs entries contribute; everything else is ignored.
func GetAttrs(args []any) Attrs {
	out := make(Attrs)
	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			if v.Key != "" {
				out[v.Key] = v.Value
			}
		case []Attr:
			for _, attr := range v {
				if attr.Key != "" {
					out[attr.Key] = attr.Value
				}
			}
		case Attrs:
			for k, val := range v {
				out[k] = val
			}
		}
	}
	return out
}

// IsAttrs reports whether a construction argument carries attributes.
func IsAttrs(arg any) bool {
	switch arg.(type) {
	case Attr, []Attr, Attrs:
		return true
	}
	return false
}

// Document structure

func Body(args ...any) *Element { return H("body", args...) }
func Main(args ...any) *Element { return H("main", args...) }
func Nav(args ...any) *Element  { return H("nav", args...) }

// Headings

func H1(args ...any) *Element { return H("h1", args...) }
func H2(args ...any) *Element { return H("h2", args...) }
func H3(args ...any) *Element { return H("h3", args...) }

// Text content

func Div(args ...any) *Element    { return H("div", args...) }
func P(args ...any) *Element      { return H("p", args...) }
func Span(args ...any) *Element   { return H("span", args...) }
func Ul(args ...any) *Element     { return H("ul", args...) }
func Li(args ...any) *Element     { return H("li", args...) }
func Strong(args ...any) *Element { return H("strong", args...) }
func Br(args ...any) *Element     { return H("br", args...) }

// Links and forms

func A(args ...any) *Element      { return H("a", args...) }
func Form(args ...any) *Element   { return H("form", args...) }
func Label(args ...any) *Element  { return H("label", args...) }
func Input(args ...any) *Element  { return H("input", args...) }
func Button(args ...any) *Element { return H("button", args...) }
