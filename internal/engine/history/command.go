package history

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
)

// Command represents a composable graph mutation that can be applied and
// reversed. A command binds its store and operands at construction and
// never changes them afterward; Execute and Rollback may run any number
// of times as the command is replayed through undo/redo cycles.
type Command interface {
	// Execute performs the mutation and returns an error if it fails.
	Execute() error

	// Rollback reverses the mutation with the same operands and returns
	// an error if it fails.
	Rollback() error

	// Description returns a human-readable description of the command.
	Description() string
}

// AddNodeCommand adds a node to the graph.
type AddNodeCommand struct {
	Node graph.Node

	g *graph.Graph
}

// NewAddNodeCommand creates a command that adds the given node.
func NewAddNodeCommand(g *graph.Graph, n graph.Node) *AddNodeCommand {
	return &AddNodeCommand{Node: n, g: g}
}

// Execute adds the node.
func (c *AddNodeCommand) Execute() error {
	if err := c.g.AddNode(c.Node); err != nil {
		return fmt.Errorf("add node %s: %w", c.Node, err)
	}
	return nil
}

// Rollback removes the node.
func (c *AddNodeCommand) Rollback() error {
	if err := c.g.RemoveNode(c.Node); err != nil {
		return fmt.Errorf("rollback add node %s: %w", c.Node, err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *AddNodeCommand) Description() string {
	return fmt.Sprintf("Add node %s", c.Node)
}

// RemoveNodeCommand removes a node from the graph.
// The node's attribute document is captured at execution time so rollback
// restores it along with the node.
type RemoveNodeCommand struct {
	Node graph.Node

	g        *graph.Graph
	attrs    []byte
	captured bool
}

// NewRemoveNodeCommand creates a command that removes the given node.
func NewRemoveNodeCommand(g *graph.Graph, n graph.Node) *RemoveNodeCommand {
	return &RemoveNodeCommand{Node: n, g: g}
}

// Execute captures the node's attributes and removes the node.
func (c *RemoveNodeCommand) Execute() error {
	attrs := c.g.AttrJSON(c.Node)
	if err := c.g.RemoveNode(c.Node); err != nil {
		return fmt.Errorf("remove node %s: %w", c.Node, err)
	}
	c.attrs = attrs
	c.captured = true
	return nil
}

// Rollback re-adds the node and restores its attributes.
func (c *RemoveNodeCommand) Rollback() error {
	if !c.captured {
		return nil
	}
	if err := c.g.AddNode(c.Node); err != nil {
		return fmt.Errorf("rollback remove node %s: %w", c.Node, err)
	}
	if len(c.attrs) > 0 {
		if err := c.g.SetAttrJSON(c.Node, c.attrs); err != nil {
			return fmt.Errorf("rollback remove node %s: restore attrs: %w", c.Node, err)
		}
	}
	return nil
}

// Description returns a human-readable description.
func (c *RemoveNodeCommand) Description() string {
	return fmt.Sprintf("Remove node %s", c.Node)
}

// AddEdgeCommand adds an edge to the graph.
type AddEdgeCommand struct {
	Edge graph.Edge

	g *graph.Graph
}

// NewAddEdgeCommand creates a command that adds the given edge.
func NewAddEdgeCommand(g *graph.Graph, e graph.Edge) *AddEdgeCommand {
	return &AddEdgeCommand{Edge: e, g: g}
}

// Execute adds the edge.
func (c *AddEdgeCommand) Execute() error {
	if err := c.g.AddEdge(c.Edge); err != nil {
		return fmt.Errorf("add edge %s: %w", c.Edge, err)
	}
	return nil
}

// Rollback removes the edge.
func (c *AddEdgeCommand) Rollback() error {
	if err := c.g.RemoveEdge(c.Edge); err != nil {
		return fmt.Errorf("rollback add edge %s: %w", c.Edge, err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *AddEdgeCommand) Description() string {
	return fmt.Sprintf("Add edge %s", c.Edge)
}

// RemoveEdgeCommand removes an edge from the graph.
type RemoveEdgeCommand struct {
	Edge graph.Edge

	g *graph.Graph
}

// NewRemoveEdgeCommand creates a command that removes the given edge.
func NewRemoveEdgeCommand(g *graph.Graph, e graph.Edge) *RemoveEdgeCommand {
	return &RemoveEdgeCommand{Edge: e, g: g}
}

// Execute removes the edge.
func (c *RemoveEdgeCommand) Execute() error {
	if err := c.g.RemoveEdge(c.Edge); err != nil {
		return fmt.Errorf("remove edge %s: %w", c.Edge, err)
	}
	return nil
}

// Rollback re-adds the edge.
func (c *RemoveEdgeCommand) Rollback() error {
	if err := c.g.AddEdge(c.Edge); err != nil {
		return fmt.Errorf("rollback remove edge %s: %w", c.Edge, err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *RemoveEdgeCommand) Description() string {
	return fmt.Sprintf("Remove edge %s", c.Edge)
}

// SetAttrCommand sets a path inside a node's attribute document.
// The previous document is captured at execution time so rollback
// restores it exactly.
//
// Value is marshaled into the document. A json.RawMessage or []byte value
// is spliced in as raw JSON.
type SetAttrCommand struct {
	Node  graph.Node
	Path  string
	Value any

	g        *graph.Graph
	prev     []byte
	captured bool
}

// NewSetAttrCommand creates a command that sets an attribute path on a node.
func NewSetAttrCommand(g *graph.Graph, n graph.Node, path string, value any) *SetAttrCommand {
	return &SetAttrCommand{Node: n, Path: path, Value: value, g: g}
}

// Execute captures the current document and applies the path mutation.
func (c *SetAttrCommand) Execute() error {
	prev := c.g.AttrJSON(c.Node)
	doc := prev
	if doc == nil {
		doc = []byte(`{}`)
	}

	var next []byte
	var err error
	switch v := c.Value.(type) {
	case json.RawMessage:
		next, err = sjson.SetRawBytes(doc, c.Path, v)
	case []byte:
		next, err = sjson.SetRawBytes(doc, c.Path, v)
	default:
		next, err = sjson.SetBytes(doc, c.Path, v)
	}
	if err != nil {
		return fmt.Errorf("set attr %q on %s: %w", c.Path, c.Node, err)
	}

	if err := c.g.SetAttrJSON(c.Node, next); err != nil {
		return fmt.Errorf("set attr %q on %s: %w", c.Path, c.Node, err)
	}
	c.prev = prev
	c.captured = true
	return nil
}

// Rollback restores the attribute document captured by Execute.
func (c *SetAttrCommand) Rollback() error {
	if !c.captured {
		return nil
	}
	if err := c.g.SetAttrJSON(c.Node, c.prev); err != nil {
		return fmt.Errorf("rollback set attr %q on %s: %w", c.Path, c.Node, err)
	}
	return nil
}

// Description returns a human-readable description.
func (c *SetAttrCommand) Description() string {
	return fmt.Sprintf("Set attr %q on %s", c.Path, c.Node)
}

// CompoundCommand groups multiple commands as one unit.
// Execution is all-or-nothing: when a step fails, the steps already run
// are rolled back in reverse order before the error is returned.
type CompoundCommand struct {
	Name     string
	Commands []Command
}

// NewCompoundCommand creates a new compound command.
func NewCompoundCommand(name string, commands ...Command) *CompoundCommand {
	return &CompoundCommand{
		Name:     name,
		Commands: commands,
	}
}

// Execute runs all commands in order.
func (c *CompoundCommand) Execute() error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(); err != nil {
			// On error, roll back what has been applied
			for j := i - 1; j >= 0; j-- {
				_ = c.Commands[j].Rollback()
			}
			return fmt.Errorf("compound command %q step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Rollback reverses all commands in reverse order.
func (c *CompoundCommand) Rollback() error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Rollback(); err != nil {
			return fmt.Errorf("rollback compound command %q step %d: %w", c.Name, i, err)
		}
	}
	return nil
}

// Description returns the compound command's name.
func (c *CompoundCommand) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// Add adds a command to the compound command.
func (c *CompoundCommand) Add(cmd Command) {
	c.Commands = append(c.Commands, cmd)
}

// IsEmpty returns true if the compound command has no commands.
func (c *CompoundCommand) IsEmpty() bool {
	return len(c.Commands) == 0
}
