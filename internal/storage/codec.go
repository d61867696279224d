package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
	"github.com/hectorbennett/command-pattern/internal/engine/history"
)

// Codec errors.
var (
	// ErrUnknownKind indicates a record kind with no registered decoder.
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrNotEncodable indicates a command type the codec cannot journal.
	ErrNotEncodable = errors.New("command is not encodable")
)

// DecodeFunc rebuilds a command from a record payload, bound to g.
type DecodeFunc func(g *graph.Graph, payload json.RawMessage) (history.Command, error)

// Encodable is implemented by command types outside the history package
// that want to be journaled. RecordKind must be registered on the codec
// with a matching DecodeFunc before such records can be decoded.
type Encodable interface {
	RecordKind() string
	EncodePayload() (json.RawMessage, error)
}

// Codec translates between commands and journal record payloads.
// The built-in graph commands are handled directly; other command types
// go through the Encodable interface and registered decoders.
type Codec struct {
	decoders map[string]DecodeFunc
}

// NewCodec creates a codec with decoders for the built-in commands.
func NewCodec() *Codec {
	c := &Codec{decoders: make(map[string]DecodeFunc)}
	c.Register(KindNodeAdd, c.decodeNodeAdd)
	c.Register(KindNodeRemove, c.decodeNodeRemove)
	c.Register(KindEdgeAdd, c.decodeEdgeAdd)
	c.Register(KindEdgeRemove, c.decodeEdgeRemove)
	c.Register(KindAttrSet, c.decodeAttrSet)
	c.Register(KindCompound, c.decodeCompound)
	return c
}

// Register installs a decoder for a record kind, replacing any previous
// decoder for that kind.
func (c *Codec) Register(kind string, fn DecodeFunc) {
	c.decoders[kind] = fn
}

// Encode returns the record kind and payload for a command.
func (c *Codec) Encode(cmd history.Command) (string, json.RawMessage, error) {
	switch v := cmd.(type) {
	case *history.AddNodeCommand:
		payload, err := json.Marshal(nodePayload{Node: v.Node})
		return KindNodeAdd, payload, err
	case *history.RemoveNodeCommand:
		payload, err := json.Marshal(nodePayload{Node: v.Node})
		return KindNodeRemove, payload, err
	case *history.AddEdgeCommand:
		payload, err := json.Marshal(edgePayload{Edge: v.Edge})
		return KindEdgeAdd, payload, err
	case *history.RemoveEdgeCommand:
		payload, err := json.Marshal(edgePayload{Edge: v.Edge})
		return KindEdgeRemove, payload, err
	case *history.SetAttrCommand:
		value, err := marshalAttrValue(v.Value)
		if err != nil {
			return "", nil, fmt.Errorf("encode attr value: %w", err)
		}
		payload, err := json.Marshal(attrPayload{Node: v.Node, Path: v.Path, Value: value})
		return KindAttrSet, payload, err
	case *history.CompoundCommand:
		return c.encodeCompound(v)
	case Encodable:
		payload, err := v.EncodePayload()
		return v.RecordKind(), payload, err
	default:
		return "", nil, fmt.Errorf("encode %q: %w", cmd.Description(), ErrNotEncodable)
	}
}

// Decode rebuilds the command a record describes, bound to g.
func (c *Codec) Decode(g *graph.Graph, rec Record) (history.Command, error) {
	fn, ok := c.decoders[rec.Kind]
	if !ok {
		return nil, fmt.Errorf("decode record %d kind %q: %w", rec.Seq, rec.Kind, ErrUnknownKind)
	}
	cmd, err := fn(g, rec.Payload)
	if err != nil {
		return nil, fmt.Errorf("decode record %d kind %q: %w", rec.Seq, rec.Kind, err)
	}
	return cmd, nil
}

// Payloads

type nodePayload struct {
	Node graph.Node `json:"node"`
}

type edgePayload struct {
	Edge graph.Edge `json:"edge"`
}

type attrPayload struct {
	Node  graph.Node      `json:"node"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value"`
}

type compoundStep struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type compoundPayload struct {
	Name  string         `json:"name,omitempty"`
	Steps []compoundStep `json:"steps"`
}

// marshalAttrValue normalizes a command's attribute value to raw JSON.
// Raw JSON values pass through unchanged; everything else is marshaled.
func marshalAttrValue(value any) (json.RawMessage, error) {
	switch v := value.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return json.RawMessage(v), nil
	default:
		return json.Marshal(v)
	}
}

func (c *Codec) encodeCompound(cmd *history.CompoundCommand) (string, json.RawMessage, error) {
	steps := make([]compoundStep, 0, len(cmd.Commands))
	for i, sub := range cmd.Commands {
		kind, payload, err := c.Encode(sub)
		if err != nil {
			return "", nil, fmt.Errorf("encode compound step %d: %w", i, err)
		}
		steps = append(steps, compoundStep{Kind: kind, Payload: payload})
	}
	payload, err := json.Marshal(compoundPayload{Name: cmd.Name, Steps: steps})
	return KindCompound, payload, err
}

func (c *Codec) decodeNodeAdd(g *graph.Graph, payload json.RawMessage) (history.Command, error) {
	var p nodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	return history.NewAddNodeCommand(g, p.Node), nil
}

func (c *Codec) decodeNodeRemove(g *graph.Graph, payload json.RawMessage) (history.Command, error) {
	var p nodePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	return history.NewRemoveNodeCommand(g, p.Node), nil
}

func (c *Codec) decodeEdgeAdd(g *graph.Graph, payload json.RawMessage) (history.Command, error) {
	var p edgePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	return history.NewAddEdgeCommand(g, p.Edge), nil
}

func (c *Codec) decodeEdgeRemove(g *graph.Graph, payload json.RawMessage) (history.Command, error) {
	var p edgePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	return history.NewRemoveEdgeCommand(g, p.Edge), nil
}

func (c *Codec) decodeAttrSet(g *graph.Graph, payload json.RawMessage) (history.Command, error) {
	var p attrPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	return history.NewSetAttrCommand(g, p.Node, p.Path, p.Value), nil
}

func (c *Codec) decodeCompound(g *graph.Graph, payload json.RawMessage) (history.Command, error) {
	var p compoundPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	cmd := history.NewCompoundCommand(p.Name)
	for i, step := range p.Steps {
		sub, err := c.Decode(g, Record{Kind: step.Kind, Payload: step.Payload})
		if err != nil {
			return nil, fmt.Errorf("decode compound step %d: %w", i, err)
		}
		cmd.Add(sub)
	}
	return cmd, nil
}
