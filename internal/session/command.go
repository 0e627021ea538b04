package session

import (
	"fmt"
	"strings"
)

// Command is a state machine entry point. Every control surface (TUI
// buttons, tray menu, shortcut relay) sends the same commands.
type Command int

const (
	CommandStart Command = iota
	CommandPause
	CommandResume
	CommandToggle
	CommandStop
)

var commandNames = map[Command]string{
	CommandStart:  "start",
	CommandPause:  "pause",
	CommandResume: "resume",
	CommandToggle: "toggle",
	CommandStop:   "stop",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// ParseCommand converts a command name into a Command
func ParseCommand(s string) (Command, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for cmd, n := range commandNames {
		if n == name {
			return cmd, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}
