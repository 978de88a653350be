package dto

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Command types understood on top of the raw Renderer events.
const (
	CommandAdd     = "add"
	CommandRemove  = "remove"
	CommandRelabel = "relabel"
	CommandReset   = "reset"
	CommandShow    = "show"
)

// Command is a single scripted or remote instruction for an editor.
// It uses "mapstructure" tags so generic maps (MCP arguments, YAML scripts, JSON lines)
// decode into the same shape as the Renderer event wire format.
type Command struct {
	Type        string   `json:"type" yaml:"type" mapstructure:"type"`
	NodeID      string   `json:"nodeId,omitempty" yaml:"nodeId,omitempty" mapstructure:"nodeId"`
	SelectedIDs []string `json:"selectedIds,omitempty" yaml:"selectedIds,omitempty" mapstructure:"selectedIds"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
}

// IsEvent reports whether the command is a raw Renderer event.
func (c Command) IsEvent() bool {
	return domain.EventType(c.Type).Valid()
}

// Event converts the command into a Renderer event.
func (c Command) Event() (domain.Event, error) {
	if !c.IsEvent() {
		return domain.Event{}, fmt.Errorf("%w: %q is not an event", domain.ErrInvalidOperation, c.Type)
	}
	ev := domain.Event{Type: domain.EventType(c.Type), NodeID: c.NodeID, SelectedIDs: c.SelectedIDs}
	return ev, ev.Validate()
}

// Validate checks the command type and its required arguments.
func (c Command) Validate() error {
	if c.IsEvent() {
		_, err := c.Event()
		return err
	}
	switch c.Type {
	case CommandAdd, CommandRemove, CommandReset, CommandShow:
		return nil
	case CommandRelabel:
		if c.NodeID == "" {
			return fmt.Errorf("%w: relabel requires a node id", domain.ErrInvalidOperation)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown command %q", domain.ErrInvalidOperation, c.Type)
}

// Decode converts a generic map into a Command. Unknown keys are rejected.
func Decode(raw map[string]any) (Command, error) {
	var cmd Command
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cmd,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cmd, err
	}
	if err := dec.Decode(raw); err != nil {
		return cmd, fmt.Errorf("%w: %v", domain.ErrInvalidOperation, err)
	}
	return cmd, cmd.Validate()
}

// ParseLine reads one command from a line of text.
// A line starting with "{" is a JSON object; anything else uses the shorthand
//
//	enter <id> | leave <id> | click <id>
//	select [<id>...] | add [<parent>] [label...] | remove
//	relabel <id> [label...] | reset | show
func ParseLine(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{}, fmt.Errorf("%w: empty command", domain.ErrInvalidOperation)
	}
	if strings.HasPrefix(line, "{") {
		var raw map[string]any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return Command{}, fmt.Errorf("%w: %v", domain.ErrInvalidOperation, err)
		}
		return Decode(raw)
	}

	fields := strings.Fields(line)
	verb, args := fields[0], fields[1:]
	var cmd Command
	switch verb {
	case "enter", "leave", "click":
		cmd.Type = verb
		if len(args) > 0 {
			cmd.NodeID = args[0]
		}
	case "select", "deselect":
		cmd.Type = string(domain.EventSelectionChange)
		if verb == "select" {
			cmd.SelectedIDs = args
		}
	case CommandAdd:
		// "add" targets the selection; "add @<id> label" targets an explicit parent.
		cmd.Type = verb
		if len(args) > 0 && strings.HasPrefix(args[0], "@") {
			cmd.NodeID = strings.TrimPrefix(args[0], "@")
			args = args[1:]
		}
		cmd.Label = strings.Join(args, " ")
	case CommandRelabel:
		cmd.Type = verb
		if len(args) > 0 {
			cmd.NodeID = args[0]
			cmd.Label = strings.Join(args[1:], " ")
		}
	default:
		cmd.Type = verb
	}
	return cmd, cmd.Validate()
}

// LoadScript decodes a replay script. The script is either a YAML sequence of
// command maps or a plain text file with one command per line ('#' starts a comment).
func LoadScript(r io.Reader) ([]Command, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if yerr := yaml.Unmarshal(data, &raw); yerr == nil && raw != nil {
		cmds := make([]Command, 0, len(raw))
		var errs []error
		for i, m := range raw {
			cmd, err := Decode(m)
			if err != nil {
				errs = append(errs, fmt.Errorf("command %d: %w", i+1, err))
				continue
			}
			cmds = append(cmds, cmd)
		}
		return cmds, errors.Join(errs...)
	}

	var cmds []Command
	var errs []error
	for i, line := range strings.Split(string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cmd, err := ParseLine(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", i+1, err))
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds, errors.Join(errs...)
}
