// Package scenario loads declarative batch mutation files. A scenario is
// a YAML document listing graph operations in order; the steps translate
// into commands that the engine applies as one batch.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
)

// Step operation names as written in scenario files.
const (
	OpAddNode    = "add-node"
	OpRemoveNode = "remove-node"
	OpAddEdge    = "add-edge"
	OpRemoveEdge = "remove-edge"
	OpSetAttr    = "set-attr"
	OpScript     = "script"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Step is one operation in a scenario. Which fields are required depends
// on Op; Validate enforces the combinations.
type Step struct {
	Op    string   `yaml:"op"`
	Node  *Point   `yaml:"node,omitempty"`
	From  *Point   `yaml:"from,omitempty"`
	To    *Point   `yaml:"to,omitempty"`
	Path  string   `yaml:"path,omitempty"`
	Value any      `yaml:"value,omitempty"`
	Name  string   `yaml:"name,omitempty"`
	Args  []string `yaml:"args,omitempty"`
}

// Point is a node coordinate pair as written in a scenario file.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p Point) node() graph.Node {
	return graph.NewNode(p.X, p.Y)
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates scenario YAML. Unknown fields are errors.
// An empty document parses as a scenario with no steps.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Scenario{}, nil
		}
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks that every step names a known op and carries the fields
// that op requires.
func (s *Scenario) Validate() error {
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Op {
	case OpAddNode, OpRemoveNode:
		if st.Node == nil {
			return fmt.Errorf("%s: missing node", st.Op)
		}
	case OpAddEdge, OpRemoveEdge:
		if st.From == nil {
			return fmt.Errorf("%s: missing from", st.Op)
		}
		if st.To == nil {
			return fmt.Errorf("%s: missing to", st.Op)
		}
	case OpSetAttr:
		if st.Node == nil {
			return fmt.Errorf("%s: missing node", st.Op)
		}
		if st.Path == "" {
			return fmt.Errorf("%s: missing path", st.Op)
		}
	case OpScript:
		if st.Name == "" {
			return fmt.Errorf("%s: missing name", st.Op)
		}
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("op %q: %w", st.Op, ErrUnknownOp)
	}
	return nil
}
