package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"clothsim/internal/physics"
)

const (
	MessageTypeInfo    = "info"
	MessageTypeState   = "state"
	MessageTypeCommand = "command"
)

// Commands a client may send.
const (
	CommandPause  = "pause"
	CommandResume = "resume"
	CommandStep   = "step"
	CommandReset  = "reset"
)

type InfoMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewInfoMessage(message string) *InfoMessage {
	return &InfoMessage{Type: MessageTypeInfo, Message: message}
}

// StateMessage carries one snapshot of the world.
type StateMessage struct {
	Type   string           `json:"type"`
	Paused bool             `json:"paused"`
	State  physics.Snapshot `json:"state"`
}

func NewStateMessage(snap physics.Snapshot, paused bool) *StateMessage {
	return &StateMessage{Type: MessageTypeState, Paused: paused, State: snap}
}

type CommandMessage struct {
	Type    string `json:"type"`
	Command string `json:"command"`
}

func NewCommandMessage(cmd string) *CommandMessage {
	return &CommandMessage{Type: MessageTypeCommand, Command: cmd}
}

var ErrUnknownMessage = errors.New("unknown message")

// ParseMessage decodes a message by its "type" field.
func ParseMessage(data []byte) (any, error) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}

	switch base.Type {
	case MessageTypeCommand:
		var msg CommandMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parse command message: %w", err)
		}
		switch msg.Command {
		case CommandPause, CommandResume, CommandStep, CommandReset:
		default:
			return nil, fmt.Errorf("%w: command %q", ErrUnknownMessage, msg.Command)
		}
		return &msg, nil
	case MessageTypeInfo:
		var msg InfoMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parse info message: %w", err)
		}
		return &msg, nil
	case MessageTypeState:
		var msg StateMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("parse state message: %w", err)
		}
		return &msg, nil
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownMessage, base.Type)
	}
}
