package dom

// Document owns a root element and observes mutations anywhere in its tree.
// The browser bindings use the mutation callback to keep the real DOM in
// step; tests use it to assert that updates happened.
type Document struct {
	root *Element

	// onMutate is invoked after any mutation to an attached node.
	onMutate func()

	// lastScrolled is the most recent ScrollIntoView target.
	lastScrolled *Element
}

// NewDocument creates a document with a body root element.
func NewDocument() *Document {
	d := &Document{}
	d.root = Body()
	d.root.setDocument(d)
	return d
}

// Root returns the document's root element.
func (d *Document) Root() *Element { return d.root }

// OnMutate registers a callback invoked after every tree mutation.
func (d *Document) OnMutate(fn func()) { d.onMutate = fn }

// GetElementByID finds the first element in the tree with the given id.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return findByID(d.root, id)
}

// LastScrolled returns the most recent ScrollIntoView target, or nil.
func (d *Document) LastScrolled() *Element { return d.lastScrolled }

func (d *Document) mutated() {
	if d.onMutate != nil {
		d.onMutate()
	}
}

func (d *Document) scrolled(el *Element) {
	d.lastScrolled = el
}

// GetElementByTID finds the element carrying the given delegation id.
func (d *Document) GetElementByTID(tid uint64) *Element {
	if tid == 0 {
		return nil
	}
	return findByTID(d.root, tid)
}

func findByTID(el *Element, tid uint64) *Element {
	if el.tid == tid {
		return el
	}
	for _, c := range el.children {
		if ce, ok := c.(*Element); ok {
			if found := findByTID(ce, tid); found != nil {
				return found
			}
		}
	}
	return nil
}

func findByID(el *Element, id string) *Element {
	if el.ID() == id {
		return el
	}
	for _, c := range el.children {
		if ce, ok := c.(*Element); ok {
			if found := findByID(ce, id); found != nil {
				return found
			}
		}
	}
	return nil
}
