package render_test

import (
	"testing"

	"github.com/eswat2/sudoku-juris/ui/state"
	"github.com/eswat2/sudoku-juris/ui/view"
)

// itemList builds a container whose children derive reactively from
// the string slice at the "list" path.
func itemList() *view.Node {
	return view.N("list").Items(func(r state.Reader) (any, error) {
		keys, _ := r.Get("list").([]string)
		var out []*view.Node
		for _, k := range keys {
			out = append(out, view.N("item").WithKey(k).Attr("label", k))
		}
		return out, nil
	})
}

func TestListReconciliationStability(t *testing.T) {
	h := newHarness(map[string]any{"list": []string{"A", "B", "C"}})
	h.r.Render(itemList(), h.root)

	list := h.root.Children()[0]
	if len(list.Children()) != 3 {
		t.Fatalf("children = %d, want 3", len(list.Children()))
	}
	elemA, elemB, elemC := list.Children()[0], list.Children()[1], list.Children()[2]

	h.store.Set("list", []string{"A", "C", "D"})

	kids := list.Children()
	if len(kids) != 3 {
		t.Fatalf("children after reconcile = %d, want 3", len(kids))
	}
	// A and C are updated in place: same live elements.
	if kids[0] != elemA {
		t.Error("A was remounted")
	}
	if kids[1] != elemC {
		t.Error("C was remounted")
	}
	// D is new, B is gone.
	if kids[2].Attr("label") != "D" {
		t.Errorf("third child = %v, want D", kids[2].Attr("label"))
	}
	for _, k := range kids {
		if k == elemB {
			t.Error("B still attached")
		}
	}
}

func TestReconcileUnmountReleasesSubscriptions(t *testing.T) {
	h := newHarness(map[string]any{
		"list":  []string{"A", "B"},
		"label": "x",
	})

	var evals int
	d := view.N("list").Items(func(r state.Reader) (any, error) {
		keys, _ := r.Get("list").([]string)
		var out []*view.Node
		for _, k := range keys {
			k := k
			out = append(out, view.N("item").WithKey(k).
				Bind("label", func(r state.Reader) (any, error) {
					evals++
					return r.Get("label"), nil
				}))
		}
		return out, nil
	})
	h.r.Render(d, h.root)
	if evals != 2 {
		t.Fatalf("mount evals = %d, want 2", evals)
	}

	// Dropping B must release B's label subscription: a later label
	// write evaluates only A.
	h.store.Set("list", []string{"A"})
	evals = 0
	h.store.Set("label", "y")
	if evals != 1 {
		t.Errorf("evals after unmount = %d, want 1", evals)
	}
}

func TestReconcileUpdatesChangedProps(t *testing.T) {
	h := newHarness(map[string]any{"list": []string{"A"}, "suffix": "!"})

	h.reg.Register("item", func(props view.Props, ctx *view.Context) (*view.Node, error) {
		return view.Text(props.String("label", "") + ctx.Get("suffix").(string)), nil
	})

	d := view.N("list").Items(func(r state.Reader) (any, error) {
		keys, _ := r.Get("list").([]string)
		var out []*view.Node
		for _, k := range keys {
			out = append(out, view.Use("item").WithKey(k).Attr("label", k))
		}
		return out, nil
	})
	h.r.Render(d, h.root)

	list := h.root.Children()[0]
	if got := list.Children()[0].Attr("text"); got != "A!" {
		t.Fatalf("text = %v, want A!", got)
	}

	// Same key, same props: the component must not re-expand, but its
	// own subscriptions still work.
	h.store.Set("list", []string{"A"})
	h.store.Set("suffix", "?")
	if got := list.Children()[0].Attr("text"); got != "A?" {
		t.Errorf("text = %v, want A?", got)
	}
}

func TestReorder(t *testing.T) {
	h := newHarness(map[string]any{"list": []string{"A", "B"}})
	h.r.Render(itemList(), h.root)
	list := h.root.Children()[0]
	elemA, elemB := list.Children()[0], list.Children()[1]

	h.store.Set("list", []string{"B", "A"})

	kids := list.Children()
	if kids[0] != elemB || kids[1] != elemA {
		t.Errorf("reorder lost element identity: %v %v",
			kids[0].Attr("label"), kids[1].Attr("label"))
	}
}

func TestStaticChildrenReconcileOnUpdate(t *testing.T) {
	h := newHarness(map[string]any{"n": 1})

	// A keyed child whose descriptor changes shape across parent
	// re-evaluations.
	d := view.N("list").Items(func(r state.Reader) (any, error) {
		n, _ := r.Get("n").(int)
		item := view.N("item").WithKey("only").Attr("count", n)
		if n > 1 {
			item.Child(view.Text("extra"))
		}
		return []*view.Node{item}, nil
	})
	h.r.Render(d, h.root)
	list := h.root.Children()[0]
	item := list.Children()[0]

	h.store.Set("n", 2)
	if list.Children()[0] != item {
		t.Fatal("item remounted")
	}
	if item.Attr("count") != 2 {
		t.Errorf("count = %v, want 2", item.Attr("count"))
	}
	if len(item.Children()) != 1 || item.Children()[0].Attr("text") != "extra" {
		t.Errorf("static child not reconciled in: %+v", item.Children())
	}
}

func TestChildrenFnBadType(t *testing.T) {
	h := newHarness(map[string]any{"x": 1})

	d := view.N("list").Items(func(r state.Reader) (any, error) {
		return r.Get("x"), nil // not a []*view.Node
	})
	h.r.Render(d, h.root)

	if len(h.sink.Entries) != 1 {
		t.Errorf("diagnostics = %d, want 1", len(h.sink.Entries))
	}
	if kids := h.root.Children()[0].Children(); len(kids) != 0 {
		t.Errorf("children = %d, want 0", len(kids))
	}
}
