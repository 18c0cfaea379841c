package memhost

import (
	"testing"
)

func TestCreate(t *testing.T) {
	h := NewHost()
	e, err := h.Create("anything")
	if err != nil {
		t.Fatal(err)
	}
	if e.Kind() != "anything" {
		t.Errorf("kind = %q", e.Kind())
	}

	restricted := NewHost("text")
	if _, err := restricted.Create("widget"); err == nil {
		t.Error("restricted host created unknown kind")
	}
}

func TestAttrs(t *testing.T) {
	e := &Element{kind: "text", attrs: map[string]any{}}
	e.SetAttr("text", "hi")
	if e.Attr("text") != "hi" {
		t.Errorf("attr = %v", e.Attr("text"))
	}
	e.SetAttr("text", nil)
	if e.Attr("text") != nil {
		t.Error("nil SetAttr did not remove attr")
	}
}

func TestInsertRemove(t *testing.T) {
	parent := NewRoot()
	a := &Element{kind: "a", attrs: map[string]any{}}
	b := &Element{kind: "b", attrs: map[string]any{}}
	c := &Element{kind: "c", attrs: map[string]any{}}

	parent.InsertChild(a, 0)
	parent.InsertChild(b, 1)
	parent.InsertChild(c, 99) // clamped
	if got := kinds(parent); got != "a b c" {
		t.Errorf("children = %q", got)
	}

	// Insert of an attached child moves it.
	parent.InsertChild(c, 0)
	if got := kinds(parent); got != "c a b" {
		t.Errorf("after move = %q", got)
	}

	parent.RemoveChild(a)
	if got := kinds(parent); got != "c b" {
		t.Errorf("after remove = %q", got)
	}
	// Removing a detached child is a no-op.
	parent.RemoveChild(a)
	if got := kinds(parent); got != "c b" {
		t.Errorf("after second remove = %q", got)
	}
}

func TestReparent(t *testing.T) {
	p1, p2 := NewRoot(), NewRoot()
	a := &Element{kind: "a", attrs: map[string]any{}}
	p1.InsertChild(a, 0)
	p2.InsertChild(a, 0)
	if len(p1.Children()) != 0 || len(p2.Children()) != 1 {
		t.Errorf("reparent failed: %d %d", len(p1.Children()), len(p2.Children()))
	}
}

func TestSerialize(t *testing.T) {
	root := NewRoot()
	box := &Element{kind: "container", attrs: map[string]any{"pad": 4}}
	txt := &Element{kind: "text", attrs: map[string]any{"text": "hi", "onclick": func() {}}}
	root.InsertChild(box, 0)
	box.InsertChild(txt, 0)

	want := "node root\n" +
		"  node container\n" +
		"    attr pad=4\n" +
		"    node text\n" +
		"      attr onclick=fn\n" +
		"      attr text=hi\n"
	if got := Serialize(root); got != want {
		t.Errorf("serialize:\n%s\nwant:\n%s", got, want)
	}
}

func kinds(e *Element) string {
	out := ""
	for i, c := range e.Children() {
		if i > 0 {
			out += " "
		}
		out += c.Kind()
	}
	return out
}
