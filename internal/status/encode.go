// internal/status/encode.go
package status

import (
	"encoding/json"
	"fmt"
	"sort"
)

// The durable form round-trips name, map, capacity, online flag and the
// online player set with admin flags and online minutes. Nothing else:
// throttle state and pending events are process-local by design.

type persistedPlayer struct {
	Name          string `json:"name"`
	OnlineMinutes int    `json:"onlineMinutes"`
	IsAdmin       bool   `json:"isAdmin"`
}

type persistedSnapshot struct {
	Name     string            `json:"name"`
	Map      string            `json:"map"`
	Capacity int               `json:"capacity"`
	Online   bool              `json:"online"`
	Players  []persistedPlayer `json:"players"`
}

// Encode converts a snapshot into its durable form.
// No IO. No side effects. Player order in the blob is name-sorted so
// identical snapshots always serialize identically.
func Encode(s ServerSnapshot) ([]byte, error) {
	p := persistedSnapshot{
		Name:     s.Name,
		Map:      s.Map,
		Capacity: s.Capacity,
		Online:   s.Online,
		Players:  make([]persistedPlayer, 0, len(s.Players)),
	}

	for _, rec := range s.Players {
		p.Players = append(p.Players, persistedPlayer{
			Name:          rec.Name,
			OnlineMinutes: rec.OnlineMinutes,
			IsAdmin:       rec.IsAdmin,
		})
	}
	sort.Slice(p.Players, func(i, j int) bool {
		return p.Players[i].Name < p.Players[j].Name
	})

	blob, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("status: encode snapshot: %w", err)
	}
	return blob, nil
}

// Decode reconstructs a snapshot from its durable form, re-keyed to
// identifier. Missing optional fields fall back to offline defaults;
// only an unparseable blob is an error.
func Decode(identifier string, blob []byte) (ServerSnapshot, error) {
	var p persistedSnapshot
	if err := json.Unmarshal(blob, &p); err != nil {
		return ServerSnapshot{}, fmt.Errorf("status: decode snapshot %q: %w", identifier, err)
	}

	s := NewOfflineSnapshot(identifier)
	if p.Name != "" {
		s.Name = p.Name
	}
	if p.Map != "" {
		s.Map = p.Map
	}
	s.Capacity = p.Capacity
	s.Online = p.Online

	for _, pl := range p.Players {
		if pl.Name == "" {
			continue
		}
		s.Players[pl.Name] = PlayerRecord{
			Name:          pl.Name,
			OnlineMinutes: pl.OnlineMinutes,
			IsAdmin:       pl.IsAdmin,
		}
	}

	return s, nil
}
