// Package view provides the declarative descriptor trees the renderer
// consumes, and the component registry that maps names to descriptor-
// producing functions.
//
// A descriptor node is pure data: a kind tag, an attribute map, and
// child descriptors. Attribute values are either static values or
// Reactive functions; Reactive is a distinct type so the renderer can
// tell the two apart at descriptor-construction time. Components
// return a fresh descriptor tree on every invocation.
package view

import (
	"github.com/eswat2/sudoku-juris/ui/state"
)

// Reactive is a tracked attribute function. It is evaluated under the
// store's dependency collector; the paths it reads become the
// attribute's subscription set.
type Reactive func(r state.Reader) (any, error)

// ChildrenAttr is the reserved attribute name for dynamic child lists.
// Its Reactive must produce []*Node.
const ChildrenAttr = "children"

// Node is one descriptor: a prospective UI element, or a component
// reference when the kind names a registered component.
type Node struct {
	Kind     string
	Key      string // reconciliation identity, optional
	Attrs    map[string]any
	Children []*Node

	// IsComponent forces kind resolution through the registry. Nodes
	// built with Use set it; for plain nodes the renderer still treats
	// a registered kind as a component.
	IsComponent bool
}

// N creates a node of the given kind.
func N(kind string) *Node {
	return &Node{Kind: kind, Attrs: make(map[string]any)}
}

// Attr sets a static attribute and returns the node for chaining.
func (n *Node) Attr(k string, v any) *Node {
	n.Attrs[k] = v
	return n
}

// Bind sets a reactive attribute.
func (n *Node) Bind(k string, fn Reactive) *Node {
	n.Attrs[k] = fn
	return n
}

// Items sets a reactive dynamic child list. The function must return
// []*Node.
func (n *Node) Items(fn Reactive) *Node {
	n.Attrs[ChildrenAttr] = fn
	return n
}

// WithKey sets the reconciliation key.
func (n *Node) WithKey(key string) *Node {
	n.Key = key
	return n
}

// Child appends static child nodes and returns the parent.
func (n *Node) Child(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// --- Convenience constructors ---

// Container creates a generic container node.
func Container(children ...*Node) *Node {
	return N("container").Child(children...)
}

// Text creates a text node with static content.
func Text(s string) *Node {
	return N("text").Attr("text", s)
}

// TextFn creates a text node with reactive content.
func TextFn(fn Reactive) *Node {
	return N("text").Bind("text", fn)
}

// Button creates a button node. The handler is carried as a static
// attribute; the element backend decides how to invoke it.
func Button(label string, onClick func()) *Node {
	return N("button").Attr("label", label).Attr("onclick", onClick)
}

// Input creates a text input node.
func Input() *Node {
	return N("input")
}

// Use creates a component reference. The name must be registered by
// render time; otherwise the subtree renders empty and the failure is
// reported as ErrComponentNotFound.
func Use(name string) *Node {
	n := N(name)
	n.IsComponent = true
	return n
}
