package graph

import "testing"

func TestGraph_SetAttrJSON(t *testing.T) {
	g := New()
	n := NewNode(0, 0)
	_ = g.AddNode(n)

	err := g.SetAttrJSON(n, []byte(`{"label":"origin","weight":2}`))
	if err != nil {
		t.Fatalf("SetAttrJSON() error = %v", err)
	}

	if got := g.Attr(n, "label").String(); got != "origin" {
		t.Errorf("Attr(label) = %q, want %q", got, "origin")
	}
	if got := g.Attr(n, "weight").Int(); got != 2 {
		t.Errorf("Attr(weight) = %d, want 2", got)
	}
}

func TestGraph_SetAttrJSONMissingNode(t *testing.T) {
	g := New()

	err := g.SetAttrJSON(NewNode(0, 0), []byte(`{}`))
	if err != ErrNodeNotFound {
		t.Errorf("SetAttrJSON() error = %v, want ErrNodeNotFound", err)
	}
}

func TestGraph_SetAttrJSONInvalid(t *testing.T) {
	g := New()
	n := NewNode(0, 0)
	_ = g.AddNode(n)

	err := g.SetAttrJSON(n, []byte(`{not json`))
	if err != ErrInvalidAttr {
		t.Errorf("SetAttrJSON() error = %v, want ErrInvalidAttr", err)
	}
}

func TestGraph_SetAttrJSONClear(t *testing.T) {
	g := New()
	n := NewNode(0, 0)
	_ = g.AddNode(n)
	_ = g.SetAttrJSON(n, []byte(`{"k":1}`))

	if err := g.SetAttrJSON(n, nil); err != nil {
		t.Fatalf("SetAttrJSON(nil) error = %v", err)
	}
	if g.HasAttrs(n) {
		t.Error("HasAttrs() = true after clearing")
	}
	if g.AttrJSON(n) != nil {
		t.Errorf("AttrJSON() = %q, want nil", g.AttrJSON(n))
	}
}

func TestGraph_AttrJSONCopies(t *testing.T) {
	g := New()
	n := NewNode(0, 0)
	_ = g.AddNode(n)
	_ = g.SetAttrJSON(n, []byte(`{"k":1}`))

	doc := g.AttrJSON(n)
	doc[0] = 'X'

	// The stored document is unaffected by mutating the returned copy
	if got := g.Attr(n, "k").Int(); got != 1 {
		t.Errorf("Attr(k) = %d after mutating copy, want 1", got)
	}
}

func TestGraph_AttrNestedPath(t *testing.T) {
	g := New()
	n := NewNode(3, 4)
	_ = g.AddNode(n)
	_ = g.SetAttrJSON(n, []byte(`{"style":{"color":"red","sizes":[1,2,3]}}`))

	if got := g.Attr(n, "style.color").String(); got != "red" {
		t.Errorf("Attr(style.color) = %q, want %q", got, "red")
	}
	if got := g.Attr(n, "style.sizes.1").Int(); got != 2 {
		t.Errorf("Attr(style.sizes.1) = %d, want 2", got)
	}
	if g.Attr(n, "missing").Exists() {
		t.Error("Attr(missing).Exists() = true, want false")
	}
}

func TestGraph_RemoveNodeDropsAttrs(t *testing.T) {
	g := New()
	n := NewNode(0, 0)
	_ = g.AddNode(n)
	_ = g.SetAttrJSON(n, []byte(`{"k":1}`))

	_ = g.RemoveNode(n)
	_ = g.AddNode(n)

	if g.HasAttrs(n) {
		t.Error("attributes survived node removal")
	}
}
