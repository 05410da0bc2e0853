// internal/status/events.go
package status

// EventKind enumerates the lifecycle transitions a diff can detect.
type EventKind int

const (
	ServerWentOnline EventKind = iota
	ServerWentOffline
	PlayerLoggedIn
	PlayerLoggedOut
	PlayerPromotedToAdmin
)

func (k EventKind) String() string {
	switch k {
	case ServerWentOnline:
		return "server_online"
	case ServerWentOffline:
		return "server_offline"
	case PlayerLoggedIn:
		return "player_login"
	case PlayerLoggedOut:
		return "player_logout"
	case PlayerPromotedToAdmin:
		return "player_promoted"
	default:
		return "unknown"
	}
}

// Event is one discrete lifecycle change detected by a diff.
// Events are one-shot: produced by one diff, dispatched in the same
// cycle, never persisted.
type Event struct {
	Kind   EventKind
	Player string // empty for server-level events
}
