package game

import (
	"errors"
	"fmt"
	"strings"
)

// CommandKind distinguishes picking a predefined choice from typing a
// free-text action.
type CommandKind string

const (
	KindChooseOption CommandKind = "chooseOption"
	KindCustomAction CommandKind = "customAction"
)

var (
	// ErrEmptyAction rejects a free-text action that is empty after
	// trimming whitespace; no request is issued for it.
	ErrEmptyAction = errors.New("action text is empty")

	// ErrUnknownChoice rejects a choice id that is not in the current
	// choice set.
	ErrUnknownChoice = errors.New("choice is not part of the current turn")

	// ErrUnknownCommand rejects a command kind the dispatcher does not
	// recognize.
	ErrUnknownCommand = errors.New("unknown command kind")
)

// Command is a player input event: either a predefined choice id or a
// free-text action.
type Command struct {
	Kind    CommandKind `json:"kind"`
	Payload string      `json:"payload"`
}

// ResolveCommand validates a command against the current choice set and
// returns the action string to send to the narrative service.
// Predefined choices resolve to their display text; free text must be
// non-empty after trimming.
func ResolveCommand(cmd Command, choices []Choice) (string, error) {
	switch cmd.Kind {
	case KindChooseOption:
		for _, c := range choices {
			if c.ID == cmd.Payload {
				return c.Text, nil
			}
		}
		return "", fmt.Errorf("%w: %q", ErrUnknownChoice, cmd.Payload)
	case KindCustomAction:
		action := strings.TrimSpace(cmd.Payload)
		if action == "" {
			return "", ErrEmptyAction
		}
		return action, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
}
