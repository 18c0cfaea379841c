// Package memhost is the reference element backend: a plain in-memory
// element tree with deterministic text serialization. Tests assert
// against it, demos print it, and the inspection server serves it.
//
// Serialized form (line-oriented, diff-friendly):
//
//	node <kind>
//	  attr <k>=<v>
//	  node <child-kind>
//	    ...
package memhost

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eswat2/sudoku-juris/ui/render"
)

// Element is an in-memory render.Element.
type Element struct {
	kind     string
	attrs    map[string]any
	children []*Element
	parent   *Element
}

// Host materializes memhost elements. The kind vocabulary is open
// unless restricted with NewHost.
type Host struct {
	kinds map[string]bool // nil: accept everything
}

// NewHost creates a host. With no arguments every kind is accepted;
// otherwise only the listed kinds materialize and anything else fails.
func NewHost(kinds ...string) *Host {
	h := &Host{}
	if len(kinds) > 0 {
		h.kinds = make(map[string]bool, len(kinds))
		for _, k := range kinds {
			h.kinds[k] = true
		}
	}
	return h
}

// Create materializes an element of the given kind.
func (h *Host) Create(kind string) (render.Element, error) {
	if h.kinds != nil && !h.kinds[kind] {
		return nil, fmt.Errorf("memhost: unknown kind %q", kind)
	}
	return &Element{kind: kind, attrs: make(map[string]any)}, nil
}

// NewRoot creates a detached root element to render under.
func NewRoot() *Element {
	return &Element{kind: "root", attrs: make(map[string]any)}
}

func (e *Element) Kind() string { return e.kind }

// Attr returns the current attribute value.
func (e *Element) Attr(name string) any { return e.attrs[name] }

// SetAttr applies or, for nil values, removes an attribute.
func (e *Element) SetAttr(name string, value any) {
	if value == nil {
		delete(e.attrs, name)
		return
	}
	e.attrs[name] = value
}

// Children returns the ordered live children.
func (e *Element) Children() []*Element {
	return e.children
}

// InsertChild places child at index, moving it if already attached.
func (e *Element) InsertChild(child render.Element, index int) {
	c := child.(*Element)
	if c.parent != nil {
		c.parent.detach(c)
	}
	if index < 0 {
		index = 0
	}
	if index > len(e.children) {
		index = len(e.children)
	}
	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = c
	c.parent = e
}

// RemoveChild detaches child. Removing an element that is not attached
// here is a no-op.
func (e *Element) RemoveChild(child render.Element) {
	c := child.(*Element)
	if c.parent != e {
		return
	}
	e.detach(c)
}

func (e *Element) detach(c *Element) {
	for i, x := range e.children {
		if x == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

// Serialize renders the subtree as indented text. Attribute order is
// sorted; function-valued attributes print as "fn" so output stays
// deterministic.
func Serialize(e *Element) string {
	var b strings.Builder
	writeNode(&b, e, 0)
	return b.String()
}

func writeNode(b *strings.Builder, e *Element, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%snode %s\n", indent, e.kind)
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(b, "%s  attr %s=%s\n", indent, k, attrText(e.attrs[k]))
	}
	for _, c := range e.children {
		writeNode(b, c, depth+1)
	}
}

func attrText(v any) string {
	switch v.(type) {
	case func():
		return "fn"
	}
	return fmt.Sprintf("%v", v)
}
