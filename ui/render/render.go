// Package render walks descriptor trees, materializes live elements
// through a Host, evaluates reactive attributes under the store's
// dependency tracker, and patches the smallest affected subtree when
// a subscribed path changes.
//
// Every render node is an isolation boundary: a failing attribute or
// component evaluation keeps its previous applied value, reports one
// diagnostic, and never aborts sibling or ancestor evaluation.
package render

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/eswat2/sudoku-juris/ui/diag"
	"github.com/eswat2/sudoku-juris/ui/state"
	"github.com/eswat2/sudoku-juris/ui/view"
)

// EvalError wraps a failed reactive attribute or component evaluation.
type EvalError struct {
	NodeID string
	Attr   string // attribute name, or "component" for expansions
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("eval %s on node %s: %v", e.Attr, e.NodeID, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// Renderer owns the live render tree for one host surface.
type Renderer struct {
	store *state.Store
	reg   *view.Registry
	host  Host
	sink  diag.Sink
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSink routes diagnostics to the given sink instead of glog.
func WithSink(s diag.Sink) Option {
	return func(r *Renderer) { r.sink = s }
}

// New creates a renderer over the given store, registry, and host.
func New(store *state.Store, reg *view.Registry, host Host, opts ...Option) *Renderer {
	r := &Renderer{store: store, reg: reg, host: host, sink: diag.Glog{}}
	for _, o := range opts {
		o(r)
	}
	return r
}

// RenderNode is the live counterpart of a descriptor node. It owns the
// realized element (or the expanded subtree, for components) and the
// subscriptions of its reactive attributes.
type RenderNode struct {
	ID string

	r      *Renderer
	desc   *view.Node
	parent Element // attachment point
	index  int     // position under parent

	// Element nodes.
	elem    Element
	attrFns map[string]view.Reactive
	prev    map[string]any // last applied value per attribute
	subs    map[string]*state.Subscription
	kids    []*RenderNode

	// Component nodes.
	comp    view.Component
	inner   *RenderNode
	compSub *state.Subscription

	mounted bool
}

// Render mounts the descriptor tree under the given host element and
// returns the root render node. Failures inside the tree are isolated
// and reported to the diagnostics sink; Render itself always returns
// a node so the caller can unmount later.
func (r *Renderer) Render(d *view.Node, under Element) *RenderNode {
	return r.mount(d, under, 0)
}

func (r *Renderer) mount(d *view.Node, parent Element, index int) *RenderNode {
	n := &RenderNode{
		ID:      ulid.Make().String(),
		r:       r,
		desc:    d,
		parent:  parent,
		index:   index,
		attrFns: make(map[string]view.Reactive),
		prev:    make(map[string]any),
		subs:    make(map[string]*state.Subscription),
	}
	n.mounted = true

	if comp, ok := r.lookup(d); ok {
		n.comp = comp
		n.expand()
		return n
	}
	if d.IsComponent {
		// Resolve already failed; subtree renders empty.
		_, err := r.reg.Resolve(d.Kind)
		r.sink.Error(n.ID, "component "+d.Kind, err)
		return n
	}

	elem, err := r.host.Create(d.Kind)
	if err != nil {
		r.sink.Error(n.ID, "materialize "+d.Kind, err)
		return n
	}
	n.elem = elem
	parent.InsertChild(elem, index)

	for _, name := range attrNames(d.Attrs) {
		v := d.Attrs[name]
		if name == view.ChildrenAttr {
			continue
		}
		if fn, ok := v.(view.Reactive); ok {
			n.attrFns[name] = fn
			n.evalAttr(name)
			continue
		}
		elem.SetAttr(name, v)
		n.prev[name] = v
	}

	if fn, ok := d.Attrs[view.ChildrenAttr].(view.Reactive); ok {
		n.attrFns[view.ChildrenAttr] = fn
		n.evalChildren()
	} else {
		for i, cd := range d.Children {
			n.kids = append(n.kids, r.mount(cd, elem, i))
		}
	}
	return n
}

// lookup resolves a descriptor to a component function. Components are
// transparent: a kind that matches a registered name expands instead
// of materializing an element.
func (r *Renderer) lookup(d *view.Node) (view.Component, bool) {
	if !d.IsComponent && !r.reg.Has(d.Kind) {
		return nil, false
	}
	comp, err := r.reg.Resolve(d.Kind)
	if err != nil {
		return nil, false
	}
	return comp, true
}

// evalAttr evaluates one reactive attribute under tracking, applies
// the value if it changed, and replaces the attribute's subscription
// path set with the paths actually read this time.
func (n *RenderNode) evalAttr(name string) {
	if !n.mounted {
		return
	}
	fn := n.attrFns[name]
	val, paths, err := n.r.store.Track(func(rd state.Reader) (any, error) {
		return fn(rd)
	})
	if err != nil {
		n.fail(name, err)
		return
	}
	if prev, had := n.prev[name]; !had || !reflect.DeepEqual(prev, val) {
		n.elem.SetAttr(name, val)
	}
	n.prev[name] = val
	n.resub(name, paths, func() { n.evalAttr(name) })
}

// evalChildren evaluates the reactive child list and reconciles it
// against the live children.
func (n *RenderNode) evalChildren() {
	if !n.mounted {
		return
	}
	fn := n.attrFns[view.ChildrenAttr]
	val, paths, err := n.r.store.Track(func(rd state.Reader) (any, error) {
		return fn(rd)
	})
	if err != nil {
		n.fail(view.ChildrenAttr, err)
		return
	}
	var descs []*view.Node
	switch v := val.(type) {
	case nil:
	case []*view.Node:
		descs = v
	default:
		n.fail(view.ChildrenAttr, fmt.Errorf("children function returned %T, want []*view.Node", val))
		return
	}
	n.kids = n.r.reconcile(n.elem, n.kids, descs)
	n.resub(view.ChildrenAttr, paths, func() { n.evalChildren() })
}

// expand runs the component function under tracking and patches the
// produced subtree against the previous one. Reactive prop values are
// resolved inside the same tracked evaluation so their reads bind to
// the component's subscription.
func (n *RenderNode) expand() {
	if !n.mounted {
		return
	}
	d := n.desc
	val, paths, err := n.r.store.Track(func(rd state.Reader) (any, error) {
		props, err := resolveProps(d.Attrs, rd)
		if err != nil {
			return nil, err
		}
		return n.comp(props, view.NewContext(rd))
	})
	if err != nil {
		n.fail("component", err)
		return
	}
	var produced *view.Node
	if val != nil {
		p, ok := val.(*view.Node)
		if !ok {
			n.fail("component", fmt.Errorf("component %s returned %T, want *view.Node", d.Kind, val))
			return
		}
		produced = p
	}

	switch {
	case produced == nil:
		if n.inner != nil {
			n.inner.Unmount()
			n.inner = nil
		}
	case n.inner != nil && sameIdentity(n.inner.desc, produced):
		n.r.update(n.inner, produced)
		n.inner.place(n.index)
	default:
		if n.inner != nil {
			n.inner.Unmount()
		}
		n.inner = n.r.mount(produced, n.parent, n.index)
	}

	if n.compSub != nil {
		if len(paths) == 0 {
			n.compSub.Cancel()
			n.compSub = nil
		} else {
			n.compSub.Update(paths)
		}
	} else if len(paths) > 0 {
		n.compSub = n.r.store.Subscribe(paths, func() { n.expand() })
	}
}

// fail reports one diagnostic for a failed evaluation and discards the
// subscription from the failed attempt. The previously applied value
// stays; the attribute stops re-evaluating until an ancestor remounts.
func (n *RenderNode) fail(attr string, err error) {
	n.r.sink.Error(n.ID, attr, &EvalError{NodeID: n.ID, Attr: attr, Err: err})
	key := attr
	if attr == "component" {
		if n.compSub != nil {
			n.compSub.Cancel()
			n.compSub = nil
		}
		return
	}
	if sub := n.subs[key]; sub != nil {
		sub.Cancel()
		delete(n.subs, key)
	}
}

// resub replaces the attribute's subscription path set. A zero-path
// evaluation is valid: the attribute was applied once and will simply
// never re-evaluate.
func (n *RenderNode) resub(name string, paths []string, notify func()) {
	if sub := n.subs[name]; sub != nil {
		if len(paths) == 0 {
			sub.Cancel()
			delete(n.subs, name)
			return
		}
		sub.Update(paths)
		return
	}
	if len(paths) > 0 {
		n.subs[name] = n.r.store.Subscribe(paths, notify)
	}
}

// Unmount releases every subscription owned by this node and its
// descendants and detaches the element. Idempotent.
func (n *RenderNode) Unmount() {
	if n == nil || !n.mounted {
		return
	}
	n.mounted = false
	for _, sub := range n.subs {
		sub.Cancel()
	}
	n.subs = make(map[string]*state.Subscription)
	if n.compSub != nil {
		n.compSub.Cancel()
		n.compSub = nil
	}
	for _, c := range n.kids {
		c.Unmount()
	}
	n.inner.Unmount()
	if n.elem != nil && n.parent != nil {
		n.parent.RemoveChild(n.elem)
	}
}

// Element returns the live element realized for this node. For
// component nodes it is the expanded subtree's element; nil when the
// subtree rendered empty.
func (n *RenderNode) Element() Element {
	if n == nil {
		return nil
	}
	if n.elem != nil {
		return n.elem
	}
	return n.inner.Element()
}

// Children returns the live child render nodes.
func (n *RenderNode) Children() []*RenderNode {
	return n.kids
}

// Mounted reports whether the node is live.
func (n *RenderNode) Mounted() bool {
	return n.mounted
}

// place moves the node's element to the given index under its parent.
func (n *RenderNode) place(index int) {
	n.index = index
	if n.elem != nil {
		n.parent.InsertChild(n.elem, index)
		return
	}
	if n.inner != nil {
		n.inner.place(index)
	}
}

// resolveProps copies attrs into component props, evaluating Reactive
// values through the tracked reader.
func resolveProps(attrs map[string]any, rd state.Reader) (view.Props, error) {
	props := make(view.Props, len(attrs))
	for _, k := range attrNames(attrs) {
		v := attrs[k]
		if fn, ok := v.(view.Reactive); ok {
			rv, err := fn(rd)
			if err != nil {
				return nil, fmt.Errorf("prop %s: %w", k, err)
			}
			props[k] = rv
			continue
		}
		props[k] = v
	}
	return props, nil
}

func attrNames(attrs map[string]any) []string {
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// sameIdentity reports whether a live descriptor can be updated in
// place from a new one.
func sameIdentity(old, new *view.Node) bool {
	return old.Kind == new.Kind && old.Key == new.Key
}
