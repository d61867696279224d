package graph

import "testing"

func TestNew(t *testing.T) {
	g := New()
	if g == nil {
		t.Fatal("New() returned nil")
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestGraph_AddNode(t *testing.T) {
	g := New()
	node := NewNode(0, 0)

	err := g.AddNode(node)
	if err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}

	if !g.HasNode(node) {
		t.Error("HasNode() = false after AddNode")
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}

	// Adding duplicate should fail
	err = g.AddNode(node)
	if err != ErrNodeExists {
		t.Errorf("AddNode() duplicate error = %v, want ErrNodeExists", err)
	}
}

func TestGraph_RemoveNode(t *testing.T) {
	g := New()
	node := NewNode(1, 2)
	_ = g.AddNode(node)

	err := g.RemoveNode(node)
	if err != nil {
		t.Fatalf("RemoveNode() error = %v", err)
	}

	if g.HasNode(node) {
		t.Error("HasNode() = true after RemoveNode")
	}

	// Remove non-existent node
	err = g.RemoveNode(node)
	if err != ErrNodeNotFound {
		t.Errorf("RemoveNode() nonexistent error = %v, want ErrNodeNotFound", err)
	}
}

func TestGraph_RemoveNodeKeepsEdges(t *testing.T) {
	g := New()
	a := NewNode(0, 0)
	b := NewNode(1, 1)
	_ = g.AddNode(a)
	_ = g.AddNode(b)
	_ = g.AddEdge(NewEdge(a, b))

	if err := g.RemoveNode(a); err != nil {
		t.Fatalf("RemoveNode() error = %v", err)
	}

	// Edges referencing the removed node stay in place
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() after RemoveNode = %d, want 1", g.EdgeCount())
	}
	if !g.HasEdge(NewEdge(a, b)) {
		t.Error("HasEdge() = false after removing an endpoint node")
	}
}

func TestGraph_AddEdge(t *testing.T) {
	g := New()
	edge := NewEdge(NewNode(0, 0), NewNode(1, 1))

	err := g.AddEdge(edge)
	if err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}

	if !g.HasEdge(edge) {
		t.Error("HasEdge() = false after AddEdge")
	}

	// Adding duplicate should fail
	err = g.AddEdge(edge)
	if err != ErrEdgeExists {
		t.Errorf("AddEdge() duplicate error = %v, want ErrEdgeExists", err)
	}
}

func TestGraph_AddEdgeWithoutNodes(t *testing.T) {
	g := New()
	edge := NewEdge(NewNode(5, 5), NewNode(6, 6))

	// Endpoints do not have to exist as nodes
	if err := g.AddEdge(edge); err != nil {
		t.Fatalf("AddEdge() error = %v", err)
	}
	if g.NodeCount() != 0 {
		t.Errorf("NodeCount() = %d, want 0", g.NodeCount())
	}
}

func TestGraph_RemoveEdge(t *testing.T) {
	g := New()
	edge := NewEdge(NewNode(0, 0), NewNode(1, 1))
	_ = g.AddEdge(edge)

	err := g.RemoveEdge(edge)
	if err != nil {
		t.Fatalf("RemoveEdge() error = %v", err)
	}

	if g.HasEdge(edge) {
		t.Error("HasEdge() = true after RemoveEdge")
	}

	err = g.RemoveEdge(edge)
	if err != ErrEdgeNotFound {
		t.Errorf("RemoveEdge() nonexistent error = %v, want ErrEdgeNotFound", err)
	}
}

func TestGraph_DirectedEdges(t *testing.T) {
	g := New()
	a := NewNode(0, 0)
	b := NewNode(1, 1)
	_ = g.AddEdge(NewEdge(a, b))

	// The reverse edge is distinct
	if g.HasEdge(NewEdge(b, a)) {
		t.Error("HasEdge() reverse = true, want false")
	}
	if err := g.AddEdge(NewEdge(b, a)); err != nil {
		t.Fatalf("AddEdge() reverse error = %v", err)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestGraph_NodesSorted(t *testing.T) {
	g := New()
	_ = g.AddNode(NewNode(2, 0))
	_ = g.AddNode(NewNode(0, 1))
	_ = g.AddNode(NewNode(0, 0))

	nodes := g.Nodes()
	want := []Node{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 2, Y: 0}}
	if len(nodes) != len(want) {
		t.Fatalf("Nodes() returned %d nodes, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n != want[i] {
			t.Errorf("Nodes()[%d] = %v, want %v", i, n, want[i])
		}
	}
}

func TestGraph_EdgesSorted(t *testing.T) {
	g := New()
	_ = g.AddEdge(NewEdge(NewNode(1, 0), NewNode(0, 0)))
	_ = g.AddEdge(NewEdge(NewNode(0, 0), NewNode(1, 0)))
	_ = g.AddEdge(NewEdge(NewNode(0, 0), NewNode(0, 1)))

	edges := g.Edges()
	want := []Edge{
		{From: Node{0, 0}, To: Node{0, 1}},
		{From: Node{0, 0}, To: Node{1, 0}},
		{From: Node{1, 0}, To: Node{0, 0}},
	}
	if len(edges) != len(want) {
		t.Fatalf("Edges() returned %d edges, want %d", len(edges), len(want))
	}
	for i, e := range edges {
		if e != want[i] {
			t.Errorf("Edges()[%d] = %v, want %v", i, e, want[i])
		}
	}
}

func TestGraph_EdgesFromTo(t *testing.T) {
	g := New()
	a := NewNode(0, 0)
	b := NewNode(1, 1)
	c := NewNode(2, 2)
	_ = g.AddEdge(NewEdge(a, b))
	_ = g.AddEdge(NewEdge(a, c))
	_ = g.AddEdge(NewEdge(b, c))

	from := g.EdgesFrom(a)
	if len(from) != 2 {
		t.Errorf("EdgesFrom(a) returned %d edges, want 2", len(from))
	}

	to := g.EdgesTo(c)
	if len(to) != 2 {
		t.Errorf("EdgesTo(c) returned %d edges, want 2", len(to))
	}
	if len(to) == 2 && to[0].From != a {
		t.Errorf("EdgesTo(c)[0].From = %v, want %v", to[0].From, a)
	}
}

func TestGraph_Clone(t *testing.T) {
	g := New()
	a := NewNode(0, 0)
	_ = g.AddNode(a)
	_ = g.AddEdge(NewEdge(a, NewNode(1, 1)))
	_ = g.SetAttrJSON(a, []byte(`{"label":"origin"}`))

	clone := g.Clone()

	// Mutating the original must not affect the clone
	_ = g.RemoveNode(a)
	_ = g.AddNode(NewNode(9, 9))

	if !clone.HasNode(a) {
		t.Error("clone lost node after original mutation")
	}
	if clone.Attr(a, "label").String() != "origin" {
		t.Errorf("clone attr = %q, want %q", clone.Attr(a, "label").String(), "origin")
	}
	if clone.HasNode(NewNode(9, 9)) {
		t.Error("clone gained node added to original")
	}
}

func TestGraph_Clear(t *testing.T) {
	g := New()
	a := NewNode(0, 0)
	_ = g.AddNode(a)
	_ = g.AddEdge(NewEdge(a, NewNode(1, 1)))
	_ = g.SetAttrJSON(a, []byte(`{"k":1}`))

	g.Clear()

	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("after Clear: nodes = %d, edges = %d, want 0, 0", g.NodeCount(), g.EdgeCount())
	}
	if g.HasAttrs(a) {
		t.Error("HasAttrs() = true after Clear")
	}
}
