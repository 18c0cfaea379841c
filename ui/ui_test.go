package ui

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eswat2/sudoku-juris/ui/diag"
	"github.com/eswat2/sudoku-juris/ui/memhost"
	"github.com/eswat2/sudoku-juris/ui/state"
	"github.com/eswat2/sudoku-juris/ui/view"
)

func TestEngineEndToEnd(t *testing.T) {
	root := memhost.NewRoot()
	sink := &diag.Record{}
	eng := New(memhost.NewHost(),
		WithInitialState(map[string]any{"count": 0}),
		WithPolicy(state.NotifyOnChange),
		WithSink(sink))
	defer eng.Close()

	eng.Register("counter", func(props view.Props, ctx *view.Context) (*view.Node, error) {
		n, _ := ctx.Get("count").(int)
		return view.Text(labelFor(props.String("name", "count"), n)), nil
	})

	eng.Render(view.Container(view.Use("counter").Attr("name", "clicks")), root)

	textOf := func() any {
		return root.Children()[0].Children()[0].Attr("text")
	}
	if got := textOf(); got != "clicks: 0" {
		t.Fatalf("initial text = %v", got)
	}

	eng.Set("count", 3)
	if got := textOf(); got != "clicks: 3" {
		t.Errorf("after set, text = %v", got)
	}

	// No-op write under NotifyOnChange: nothing re-renders, so the
	// element is untouched.
	elem := root.Children()[0].Children()[0]
	eng.Set("count", 3)
	if root.Children()[0].Children()[0] != elem {
		t.Error("no-op write remounted the element")
	}

	if got := eng.Get("count"); got != 3 {
		t.Errorf("Get = %v", got)
	}
	if v, ok := eng.GetState("count"); !ok || v != 3 {
		t.Errorf("GetState = %v %v", v, ok)
	}
	eng.SetState("count", 4)
	if got := textOf(); got != "clicks: 4" {
		t.Errorf("after SetState, text = %v", got)
	}

	if diff := cmp.Diff([]string{"count"}, eng.StatePaths()); diff != "" {
		t.Errorf("StatePaths (-want +got):\n%s", diff)
	}

	if len(sink.Entries) != 0 {
		t.Errorf("unexpected diagnostics: %+v", sink.Entries)
	}
}

func TestEngineCloseIdempotent(t *testing.T) {
	root := memhost.NewRoot()
	eng := New(memhost.NewHost())
	eng.Render(view.Text("bye"), root)

	eng.Close()
	if len(root.Children()) != 0 {
		t.Error("element still attached after Close")
	}
	eng.Close() // second Close is harmless
}

func TestEngineCloseBeforeRender(t *testing.T) {
	eng := New(memhost.NewHost())
	eng.Close() // no root yet
}

func labelFor(name string, n int) string {
	return fmt.Sprintf("%s: %d", name, n)
}
