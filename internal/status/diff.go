// internal/status/diff.go
package status

import "sort"

// Diff computes the lifecycle events between the committed snapshot and
// a new observation, plus the snapshot to commit in its place.
// No IO. No clock. Deterministic for identical inputs.
//
// Ordering contract: a ServerWentOnline event precedes all player
// events of the same diff. Logins and promotions follow raw slot
// order; logouts follow in name order. A confirmed-offline observation
// short-circuits before player diffing, so ServerWentOffline never
// carries player events.
func Diff(prev ServerSnapshot, obs Observation) (ServerSnapshot, []Event) {
	switch obs.Kind {

	case ObservationTransient:
		// No reliable information. Never an offline transition, never
		// a logout. The cached snapshot stands as-is.
		return prev, nil

	case ObservationConfirmedOffline:
		next := prev
		next.Online = false
		next.Players = map[string]PlayerRecord{}

		// Edge-triggered: repeated offline cycles emit nothing further.
		var events []Event
		if prev.Online {
			events = append(events, Event{Kind: ServerWentOffline})
		}
		return next, events
	}

	// ---- REPORTING SERVER ----

	next := ServerSnapshot{
		Identifier: prev.Identifier,
		Name:       orUnknown(obs.Name),
		Map:        orUnknown(obs.Map),
		Capacity:   obs.Capacity,
		Online:     true,
		Players:    make(map[string]PlayerRecord, len(obs.Slots)),
	}

	var events []Event
	if !prev.Online {
		events = append(events, Event{Kind: ServerWentOnline})
	}

	for _, slot := range obs.Slots {
		if !slot.Used || slot.Name == "" {
			// Empty or malformed slot: skip it, keep diffing the rest.
			continue
		}
		if _, dup := next.Players[slot.Name]; dup {
			continue
		}

		rec := PlayerRecord{
			Name:          slot.Name,
			OnlineMinutes: slot.OnlineMinutes,
			IsAdmin:       slot.IsAdmin,
		}

		old, known := prev.Players[rec.Name]
		switch {
		case !known:
			events = append(events, Event{Kind: PlayerLoggedIn, Player: rec.Name})
		case !old.IsAdmin && rec.IsAdmin:
			// One-directional: admin -> non-admin is not an event.
			events = append(events, Event{Kind: PlayerPromotedToAdmin, Player: rec.Name})
		}

		next.Players[rec.Name] = rec
	}

	// The previous set lives in a map; sorting the departures is what
	// keeps the emitted sequence deterministic.
	var gone []string
	for name := range prev.Players {
		if _, still := next.Players[name]; !still {
			gone = append(gone, name)
		}
	}
	sort.Strings(gone)
	for _, name := range gone {
		events = append(events, Event{Kind: PlayerLoggedOut, Player: name})
	}

	return next, events
}

func orUnknown(s string) string {
	if s == "" {
		return UnknownLabel
	}
	return s
}
