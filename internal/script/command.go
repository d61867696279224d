package script

import (
	"encoding/json"
	"fmt"

	"github.com/hectorbennett/command-pattern/internal/engine/graph"
	"github.com/hectorbennett/command-pattern/internal/engine/history"
	"github.com/hectorbennett/command-pattern/internal/storage"
)

// RecordKind is the journal record kind for script commands.
const RecordKind = "script"

// Command runs one phase of a registered script command per call.
// It satisfies the history command contract, so script commands journal
// and undo like built-in ones. The script's rollback function carries
// the burden of reversing its execute function.
type Command struct {
	Name string
	Args []any

	host        *Host
	description string
}

// Execute runs the script's execute function.
func (c *Command) Execute() error {
	return c.host.invoke(c.Name, "execute", c.Args)
}

// Rollback runs the script's rollback function.
func (c *Command) Rollback() error {
	return c.host.invoke(c.Name, "rollback", c.Args)
}

// Description returns the registered description, or the command name.
func (c *Command) Description() string {
	if c.description != "" {
		return c.description
	}
	return fmt.Sprintf("Script %s", c.Name)
}

// RecordKind marks the command for the script record decoder.
func (c *Command) RecordKind() string {
	return RecordKind
}

// commandPayload is the journal payload for a script command.
type commandPayload struct {
	Name string `json:"name"`
	Args []any  `json:"args,omitempty"`
}

// EncodePayload serializes the command name and arguments.
func (c *Command) EncodePayload() (json.RawMessage, error) {
	return json.Marshal(commandPayload{Name: c.Name, Args: c.Args})
}

// RegisterDecoder installs the host's script record decoder on a codec.
// Decoding requires the named script to be loaded, so hosts must load
// their scripts before a journal is replayed. The decoder binds to the
// host's graph store; engines replaying script records must share it.
func (h *Host) RegisterDecoder(codec *storage.Codec) {
	codec.Register(RecordKind, func(_ *graph.Graph, payload json.RawMessage) (history.Command, error) {
		var p commandPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, err
		}
		return h.Command(p.Name, p.Args...)
	})
}
