package render

import (
	"reflect"

	"github.com/eswat2/sudoku-juris/ui/view"
)

// reconcile patches a live child list against a new descriptor list.
// Nodes are matched by key when provided, otherwise by position and
// kind. Matched nodes are updated in place, preserving their element
// identity; unmatched old nodes are unmounted; unmatched descriptors
// are mounted fresh. The surviving elements are re-placed so the host
// order follows the descriptor order.
func (r *Renderer) reconcile(parent Element, olds []*RenderNode, descs []*view.Node) []*RenderNode {
	byKey := make(map[string]*RenderNode)
	for _, o := range olds {
		if o.desc.Key != "" {
			byKey[o.desc.Key] = o
		}
	}

	claimed := make(map[*RenderNode]bool)
	out := make([]*RenderNode, 0, len(descs))
	for i, d := range descs {
		var old *RenderNode
		if d.Key != "" {
			if o := byKey[d.Key]; o != nil && o.desc.Kind == d.Kind && !claimed[o] {
				old = o
			}
		} else if i < len(olds) {
			if o := olds[i]; o.desc.Key == "" && o.desc.Kind == d.Kind && !claimed[o] {
				old = o
			}
		}
		if old != nil {
			claimed[old] = true
			r.update(old, d)
			out = append(out, old)
			continue
		}
		out = append(out, r.mount(d, parent, i))
	}

	for _, o := range olds {
		if !claimed[o] {
			o.Unmount()
		}
	}
	for i, c := range out {
		c.place(i)
	}
	return out
}

// update rebinds a live node to a new descriptor of the same identity.
// A component node re-expands only when its props changed; an element
// node re-applies changed static attributes and re-evaluates reactive
// ones (their closures may capture new props), then reconciles
// children.
func (r *Renderer) update(n *RenderNode, d *view.Node) {
	if !n.mounted {
		return
	}
	old := n.desc
	n.desc = d

	if n.comp != nil {
		if staticPropsEqual(old.Attrs, d.Attrs) {
			return
		}
		n.expand()
		return
	}
	if n.elem == nil {
		// Materialization failed at mount; nothing to update until an
		// ancestor remounts the subtree.
		return
	}

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
		if wasFn := n.attrFns[name]; wasFn != nil {
			delete(n.attrFns, name)
			if sub := n.subs[name]; sub != nil {
				sub.Cancel()
				delete(n.subs, name)
			}
		}
		if prev, had := n.prev[name]; !had || !reflect.DeepEqual(prev, v) {
			n.elem.SetAttr(name, v)
			n.prev[name] = v
		}
	}

	// Attributes dropped by the new descriptor.
	for _, name := range attrNames(old.Attrs) {
		if name == view.ChildrenAttr {
			continue
		}
		if _, still := d.Attrs[name]; still {
			continue
		}
		if sub := n.subs[name]; sub != nil {
			sub.Cancel()
			delete(n.subs, name)
		}
		delete(n.attrFns, name)
		delete(n.prev, name)
		n.elem.SetAttr(name, nil)
	}

	if fn, ok := d.Attrs[view.ChildrenAttr].(view.Reactive); ok {
		n.attrFns[view.ChildrenAttr] = fn
		n.evalChildren()
	} else {
		if sub := n.subs[view.ChildrenAttr]; sub != nil {
			sub.Cancel()
			delete(n.subs, view.ChildrenAttr)
			delete(n.attrFns, view.ChildrenAttr)
		}
		n.kids = r.reconcile(n.elem, n.kids, d.Children)
	}
}

// staticPropsEqual reports whether two prop sets are identical without
// evaluating anything. Any reactive prop counts as changed, since its
// closure may capture different values.
func staticPropsEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if _, fn := av.(view.Reactive); fn {
			return false
		}
		if _, fn := bv.(view.Reactive); fn {
			return false
		}
		if !reflect.DeepEqual(av, bv) {
			return false
		}
	}
	return true
}
