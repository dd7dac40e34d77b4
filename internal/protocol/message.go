package protocol

import "strings"

// Separator splits a command from its payload on the wire. Messages are
// newline-framed `COMMAND|PAYLOAD` text lines.
const Separator = "|"

// client to server commands.
const (
	CmdPassword   = "PASSWORD"
	CmdMove       = "MOVE"
	CmdChat       = "CHAT"
	CmdSurrender  = "SURRENDER"
	CmdRestart    = "RESTART"
	CmdDisconnect = "DISCONNECT"
)

// server to client commands.
const (
	CmdPasswordRequired = "PASSWORD_REQUIRED"
	CmdPasswordAccepted = "PASSWORD_ACCEPTED"
	CmdPasswordRejected = "PASSWORD_REJECTED"
	CmdRole             = "ROLE"
	CmdStart            = "START"
	CmdGameOver         = "GAMEOVER"
	CmdWaitForOpponent  = "WAIT_FOR_OPPONENT"
	CmdStopServer       = "STOP_SERVER"
)

var knownCommands = map[string]struct{}{
	CmdPassword:   {},
	CmdMove:       {},
	CmdChat:       {},
	CmdSurrender:  {},
	CmdRestart:    {},
	CmdDisconnect: {},

	CmdPasswordRequired: {},
	CmdPasswordAccepted: {},
	CmdPasswordRejected: {},
	CmdRole:             {},
	CmdStart:            {},
	CmdGameOver:         {},
	CmdWaitForOpponent:  {},
	CmdStopServer:       {},
}

// Message is one decoded command/payload pair.
type Message struct {
	Command string
	Payload string
}

// Encode - formats a command and payload into one framed wire line.
func Encode(command, payload string) string {
	return command + Separator + payload + "\n"
}

// Decode - splits a wire line into an ordered sequence of messages.
//
// The split is on the first separator only: a payload may legally contain the
// separator (it is never escaped). A payload whose own prefix is a known
// command is re-split as an independent message; that tolerates frames
// coalesced by the sender into one line. An empty line decodes to nothing.
func Decode(raw string) []Message {
	raw = strings.TrimRight(raw, "\r\n")
	if raw == "" {
		return nil
	}

	command, rest, found := strings.Cut(raw, Separator)
	if !found {
		return []Message{{Command: command}}
	}

	if head, _, ok := strings.Cut(rest, Separator); ok && isCommand(head) {
		return append([]Message{{Command: command}}, Decode(rest)...)
	}

	return []Message{{Command: command, Payload: rest}}
}

func isCommand(word string) bool {
	_, ok := knownCommands[word]
	return ok
}
