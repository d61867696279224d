package graph

import "fmt"

// Node identifies a vertex by its coordinate pair.
// Nodes are value types and compare by value.
type Node struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewNode creates a node at the given coordinates.
func NewNode(x, y int) Node {
	return Node{X: x, Y: y}
}

// String returns the coordinate form "(x, y)".
func (n Node) String() string {
	return fmt.Sprintf("(%d, %d)", n.X, n.Y)
}

// Less reports whether n orders before other (by X, then Y).
func (n Node) Less(other Node) bool {
	if n.X != other.X {
		return n.X < other.X
	}
	return n.Y < other.Y
}

// Edge is an ordered pair of node identifiers.
// An edge may reference identifiers that are not present as nodes.
type Edge struct {
	From Node `json:"from"`
	To   Node `json:"to"`
}

// NewEdge creates a directed edge from one node identifier to another.
func NewEdge(from, to Node) Edge {
	return Edge{From: from, To: to}
}

// String returns the form "(x1, y1) -> (x2, y2)".
func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s", e.From, e.To)
}

// Less reports whether e orders before other (by From, then To).
func (e Edge) Less(other Edge) bool {
	if e.From != other.From {
		return e.From.Less(other.From)
	}
	return e.To.Less(other.To)
}
