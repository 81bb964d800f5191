package domain

// Side identifies which chat surface a message originated from.
type Side int

const (
	SideGame Side = iota
	SidePlatform
)

func (s Side) String() string {
	switch s {
	case SideGame:
		return "game"
	case SidePlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// ChatMessage is one inbound chat event. Constructed per event, never stored.
type ChatMessage struct {
	Author  string
	Content string
	Origin  Side
}

// PlayerIdentity is a resolved player: canonical display name plus the stable
// identifier used by the stats API.
type PlayerIdentity struct {
	DisplayName string
	PlayerID    string
}
