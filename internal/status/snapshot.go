// internal/status/snapshot.go
package status

// UnknownLabel stands in for a name or map the feed did not report.
const UnknownLabel = "Unknown"

// PlayerRecord is one player's observed attributes at a point in time.
// Records are replaced wholesale on every poll, never mutated in place.
type PlayerRecord struct {
	Name          string
	OnlineMinutes int
	IsAdmin       bool
}

// ServerSnapshot is the committed state of one tracked server.
// It contains no logic and no memory of the past beyond current state.
// Players always reflects exactly the most recent successful fetch;
// it is never a union across cycles.
type ServerSnapshot struct {
	Identifier string
	Name       string
	Map        string
	Capacity   int // 0 means unknown
	Online     bool
	Players    map[string]PlayerRecord
}

// NewOfflineSnapshot is the synthetic starting state for a server that
// has never been observed.
func NewOfflineSnapshot(identifier string) ServerSnapshot {
	return ServerSnapshot{
		Identifier: identifier,
		Name:       UnknownLabel,
		Map:        UnknownLabel,
		Players:    map[string]PlayerRecord{},
	}
}

// PlayerCount returns the number of currently online players.
func (s ServerSnapshot) PlayerCount() int {
	return len(s.Players)
}
