package graph

import "errors"

// Graph errors.
var (
	// ErrNodeExists indicates a node is already present in the graph.
	ErrNodeExists = errors.New("node already exists")
	// ErrNodeNotFound indicates a node is not present in the graph.
	ErrNodeNotFound = errors.New("node not found")
	// ErrEdgeExists indicates an edge is already present in the graph.
	ErrEdgeExists = errors.New("edge already exists")
	// ErrEdgeNotFound indicates an edge is not present in the graph.
	ErrEdgeNotFound = errors.New("edge not found")
	// ErrInvalidAttr indicates an attribute document is not valid JSON.
	ErrInvalidAttr = errors.New("invalid attribute json")
)
