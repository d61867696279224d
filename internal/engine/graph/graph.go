// Package graph provides the mutable node and edge store that commands
// operate on. Nodes are coordinate pairs, edges are ordered pairs of node
// identifiers, and each node may carry a JSON attribute document.
//
// Every mutation either applies fully or fails with a sentinel error;
// nothing is silently ignored. Removing a node leaves edges that reference
// it in place, so each mutation has an exact inverse with the same
// operands.
//
// A Graph is not safe for concurrent use. Callers that share one across
// goroutines must serialize access; the engine facade does this.
package graph

import "sort"

// Graph is an in-memory node and edge store.
type Graph struct {
	nodes map[Node]struct{}
	edges map[Edge]struct{}
	attrs map[Node][]byte
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[Node]struct{}),
		edges: make(map[Edge]struct{}),
		attrs: make(map[Node][]byte),
	}
}

// AddNode adds a node to the graph.
// Returns ErrNodeExists if the node is already present.
func (g *Graph) AddNode(n Node) error {
	if _, exists := g.nodes[n]; exists {
		return ErrNodeExists
	}
	g.nodes[n] = struct{}{}
	return nil
}

// RemoveNode removes a node and its attribute document.
// Returns ErrNodeNotFound if the node is not present.
// Edges referencing the node are left untouched.
func (g *Graph) RemoveNode(n Node) error {
	if _, exists := g.nodes[n]; !exists {
		return ErrNodeNotFound
	}
	delete(g.nodes, n)
	delete(g.attrs, n)
	return nil
}

// HasNode reports whether a node is present.
func (g *Graph) HasNode(n Node) bool {
	_, exists := g.nodes[n]
	return exists
}

// AddEdge adds an edge to the graph.
// Returns ErrEdgeExists if the edge is already present.
// The endpoints do not have to exist as nodes.
func (g *Graph) AddEdge(e Edge) error {
	if _, exists := g.edges[e]; exists {
		return ErrEdgeExists
	}
	g.edges[e] = struct{}{}
	return nil
}

// RemoveEdge removes an edge from the graph.
// Returns ErrEdgeNotFound if the edge is not present.
func (g *Graph) RemoveEdge(e Edge) error {
	if _, exists := g.edges[e]; !exists {
		return ErrEdgeNotFound
	}
	delete(g.edges, e)
	return nil
}

// HasEdge reports whether an edge is present.
func (g *Graph) HasEdge(e Edge) bool {
	_, exists := g.edges[e]
	return exists
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all nodes sorted by X, then Y.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Less(nodes[j])
	})
	return nodes
}

// Edges returns all edges sorted by From, then To.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].Less(edges[j])
	})
	return edges
}

// EdgesFrom returns all edges whose From endpoint equals n, sorted by To.
func (g *Graph) EdgesFrom(n Node) []Edge {
	var edges []Edge
	for e := range g.edges {
		if e.From == n {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].To.Less(edges[j].To)
	})
	return edges
}

// EdgesTo returns all edges whose To endpoint equals n, sorted by From.
func (g *Graph) EdgesTo(n Node) []Edge {
	var edges []Edge
	for e := range g.edges {
		if e.To == n {
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].From.Less(edges[j].From)
	})
	return edges
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	clone := &Graph{
		nodes: make(map[Node]struct{}, len(g.nodes)),
		edges: make(map[Edge]struct{}, len(g.edges)),
		attrs: make(map[Node][]byte, len(g.attrs)),
	}
	for n := range g.nodes {
		clone.nodes[n] = struct{}{}
	}
	for e := range g.edges {
		clone.edges[e] = struct{}{}
	}
	for n, doc := range g.attrs {
		cp := make([]byte, len(doc))
		copy(cp, doc)
		clone.attrs[n] = cp
	}
	return clone
}

// Clear removes all nodes, edges, and attributes.
func (g *Graph) Clear() {
	g.nodes = make(map[Node]struct{})
	g.edges = make(map[Edge]struct{})
	g.attrs = make(map[Node][]byte)
}
