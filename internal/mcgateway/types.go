package mcgateway

import "errors"

// ErrNotConnected is returned when a write is attempted while the socket is
// not in StateConnected.
var ErrNotConnected = errors.New("gateway not connected")

// State is the connection lifecycle of one gateway socket.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Frame is one JSON message on the gateway socket. The sidecar streams raw
// chat lines as type "chat"; we write chat commands as type "command".
type Frame struct {
	Type    string `json:"type"`
	Line    string `json:"line,omitempty"`
	Command string `json:"command,omitempty"`
}

// MaxCommandLength is the hard cap the game server enforces on chat
// commands. Oversized commands are dropped, never truncated.
const MaxCommandLength = 256

type LineCallback func(line string)

type StateCallback func(state State)
