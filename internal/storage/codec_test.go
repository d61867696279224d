package storage

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
	"github.com/hectorbennett/command-pattern/internal/engine/history"
)

func TestCodecNodeCommands(t *testing.T) {
	codec := NewCodec()
	g := graph.New()
	n := graph.NewNode(3, 4)

	kind, payload, err := codec.Encode(history.NewAddNodeCommand(g, n))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if kind != KindNodeAdd {
		t.Errorf("kind = %q, want %q", kind, KindNodeAdd)
	}

	// Decode against a fresh graph and execute
	replay := graph.New()
	cmd, err := codec.Decode(replay, Record{Seq: 1, Kind: kind, Payload: payload})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !replay.HasNode(n) {
		t.Error("decoded command did not add the node")
	}
}

func TestCodecEdgeCommands(t *testing.T) {
	codec := NewCodec()
	g := graph.New()
	e := graph.NewEdge(graph.NewNode(0, 0), graph.NewNode(1, 1))

	kind, payload, err := codec.Encode(history.NewAddEdgeCommand(g, e))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if kind != KindEdgeAdd {
		t.Errorf("kind = %q, want %q", kind, KindEdgeAdd)
	}

	replay := graph.New()
	cmd, err := codec.Decode(replay, Record{Seq: 1, Kind: kind, Payload: payload})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !replay.HasEdge(e) {
		t.Error("decoded command did not add the edge")
	}
}

func TestCodecKinds(t *testing.T) {
	codec := NewCodec()
	g := graph.New()
	n := graph.NewNode(0, 0)
	e := graph.NewEdge(n, graph.NewNode(1, 1))

	tests := []struct {
		name string
		cmd  history.Command
		want string
	}{
		{"add node", history.NewAddNodeCommand(g, n), KindNodeAdd},
		{"remove node", history.NewRemoveNodeCommand(g, n), KindNodeRemove},
		{"add edge", history.NewAddEdgeCommand(g, e), KindEdgeAdd},
		{"remove edge", history.NewRemoveEdgeCommand(g, e), KindEdgeRemove},
		{"set attr", history.NewSetAttrCommand(g, n, "label", "x"), KindAttrSet},
		{"compound", history.NewCompoundCommand("batch"), KindCompound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, _, err := codec.Encode(tt.cmd)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if kind != tt.want {
				t.Errorf("kind = %q, want %q", kind, tt.want)
			}
		})
	}
}

func TestCodecSetAttrRoundTrip(t *testing.T) {
	codec := NewCodec()
	g := graph.New()
	n := graph.NewNode(0, 0)

	kind, payload, err := codec.Encode(history.NewSetAttrCommand(g, n, "style.color", "red"))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	replay := graph.New()
	if err := replay.AddNode(n); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	cmd, err := codec.Decode(replay, Record{Seq: 1, Kind: kind, Payload: payload})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := replay.Attr(n, "style.color").String(); got != "red" {
		t.Errorf("Attr(style.color) = %q, want %q", got, "red")
	}
}

func TestCodecSetAttrRawValue(t *testing.T) {
	codec := NewCodec()
	g := graph.New()
	n := graph.NewNode(0, 0)

	// A raw JSON value is journaled as-is, not base64-wrapped
	kind, payload, err := codec.Encode(history.NewSetAttrCommand(g, n, "tags", []byte(`["a","b"]`)))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var p struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(payload, &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if string(p.Value) != `["a","b"]` {
		t.Errorf("payload value = %s, want %s", p.Value, `["a","b"]`)
	}

	replay := graph.New()
	if err := replay.AddNode(n); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}
	cmd, err := codec.Decode(replay, Record{Seq: 1, Kind: kind, Payload: payload})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := replay.Attr(n, "tags.0").String(); got != "a" {
		t.Errorf("Attr(tags.0) = %q, want %q", got, "a")
	}
}

func TestCodecCompoundRoundTrip(t *testing.T) {
	codec := NewCodec()
	g := graph.New()
	a := graph.NewNode(0, 0)
	b := graph.NewNode(1, 1)

	compound := history.NewCompoundCommand("add pair",
		history.NewAddNodeCommand(g, a),
		history.NewAddNodeCommand(g, b),
		history.NewAddEdgeCommand(g, graph.NewEdge(a, b)),
	)

	kind, payload, err := codec.Encode(compound)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if kind != KindCompound {
		t.Errorf("kind = %q, want %q", kind, KindCompound)
	}

	replay := graph.New()
	cmd, err := codec.Decode(replay, Record{Seq: 1, Kind: kind, Payload: payload})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := cmd.Description(); got != "add pair" {
		t.Errorf("Description() = %q, want %q", got, "add pair")
	}
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if replay.NodeCount() != 2 || replay.EdgeCount() != 1 {
		t.Errorf("NodeCount() = %d, EdgeCount() = %d, want 2, 1", replay.NodeCount(), replay.EdgeCount())
	}
}

func TestCodecUnknownKind(t *testing.T) {
	codec := NewCodec()
	_, err := codec.Decode(graph.New(), Record{Seq: 1, Kind: "bogus"})
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Decode() error = %v, want ErrUnknownKind", err)
	}
}

// markCommand is a minimal external command used to exercise the
// Encodable registration path.
type markCommand struct {
	Note string `json:"note"`
}

func (c *markCommand) Execute() error      { return nil }
func (c *markCommand) Rollback() error     { return nil }
func (c *markCommand) Description() string { return "Mark " + c.Note }
func (c *markCommand) RecordKind() string  { return "test.mark" }

func (c *markCommand) EncodePayload() (json.RawMessage, error) {
	return json.Marshal(c)
}

func TestCodecRegisteredKind(t *testing.T) {
	codec := NewCodec()
	codec.Register("test.mark", func(g *graph.Graph, payload json.RawMessage) (history.Command, error) {
		var c markCommand
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, err
		}
		return &c, nil
	})

	kind, payload, err := codec.Encode(&markCommand{Note: "here"})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if kind != "test.mark" {
		t.Errorf("kind = %q, want %q", kind, "test.mark")
	}

	cmd, err := codec.Decode(graph.New(), Record{Seq: 1, Kind: kind, Payload: payload})
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := cmd.Description(); got != "Mark here" {
		t.Errorf("Description() = %q, want %q", got, "Mark here")
	}
}

func TestCodecNotEncodable(t *testing.T) {
	codec := NewCodec()
	_, _, err := codec.Encode(plainCommand{})
	if !errors.Is(err, ErrNotEncodable) {
		t.Errorf("Encode() error = %v, want ErrNotEncodable", err)
	}
}

// plainCommand implements Command but not Encodable.
type plainCommand struct{}

func (plainCommand) Execute() error      { return nil }
func (plainCommand) Rollback() error     { return nil }
func (plainCommand) Description() string { return "plain" }
