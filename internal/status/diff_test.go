// internal/status/diff_test.go
package status

import (
	"reflect"
	"testing"
)

func onlineSnapshot(id string, players ...PlayerRecord) ServerSnapshot {
	s := NewOfflineSnapshot(id)
	s.Online = true
	for _, p := range players {
		s.Players[p.Name] = p
	}
	return s
}

func reporting(name string, slots ...SlotEntry) Observation {
	return Observation{
		Kind:     ObservationReporting,
		Name:     name,
		Map:      "Felsbrunn",
		Capacity: 8,
		Slots:    slots,
	}
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestDiff_TransientLeavesStateUntouched(t *testing.T) {
	prev := onlineSnapshot("s1", PlayerRecord{Name: "Alice"})

	next, events := Diff(prev, Observation{Kind: ObservationTransient})

	if len(events) != 0 {
		t.Fatalf("expected no events, got %v", events)
	}
	if !reflect.DeepEqual(next, prev) {
		t.Fatalf("transient observation changed the snapshot: %+v", next)
	}
}

func TestDiff_TransientOnOfflineServer(t *testing.T) {
	prev := NewOfflineSnapshot("s1")

	next, events := Diff(prev, Observation{Kind: ObservationTransient})

	if len(events) != 0 {
		t.Fatalf("expected no events, got %v", events)
	}
	if next.Online {
		t.Fatal("snapshot flipped online on a transient failure")
	}
}

func TestDiff_OfflineIsEdgeTriggered(t *testing.T) {
	prev := onlineSnapshot("s1", PlayerRecord{Name: "Alice"})
	obs := Observation{Kind: ObservationConfirmedOffline}

	next, events := Diff(prev, obs)
	if want := []EventKind{ServerWentOffline}; !reflect.DeepEqual(kinds(events), want) {
		t.Fatalf("first offline diff: got %v, want %v", kinds(events), want)
	}
	if next.Online {
		t.Fatal("snapshot still online after confirmed-offline")
	}
	if next.PlayerCount() != 0 {
		t.Fatalf("players not cleared: %v", next.Players)
	}

	// Second confirmed-offline cycle: no further events.
	next2, events2 := Diff(next, obs)
	if len(events2) != 0 {
		t.Fatalf("repeated offline emitted events: %v", events2)
	}
	if next2.Online {
		t.Fatal("snapshot flipped online on repeated offline")
	}
}

func TestDiff_OfflineCarriesNoPlayerEvents(t *testing.T) {
	prev := onlineSnapshot("s1", PlayerRecord{Name: "Alice"}, PlayerRecord{Name: "Bob"})

	_, events := Diff(prev, Observation{Kind: ObservationConfirmedOffline})

	if want := []EventKind{ServerWentOffline}; !reflect.DeepEqual(kinds(events), want) {
		t.Fatalf("got %v, want only ServerWentOffline", kinds(events))
	}
}

func TestDiff_OnlineTransitionPrecedesPlayerEvents(t *testing.T) {
	prev := NewOfflineSnapshot("s1")
	obs := reporting("Farm",
		SlotEntry{Used: true, Name: "Alice", OnlineMinutes: 5},
	)

	next, events := Diff(prev, obs)

	if want := []EventKind{ServerWentOnline, PlayerLoggedIn}; !reflect.DeepEqual(kinds(events), want) {
		t.Fatalf("got %v, want %v", kinds(events), want)
	}
	if !next.Online {
		t.Fatal("snapshot not online after reporting observation")
	}
}

func TestDiff_LoginLogoutCompleteness(t *testing.T) {
	prev := onlineSnapshot("s1", PlayerRecord{Name: "A"}, PlayerRecord{Name: "B"})
	obs := reporting("Farm",
		SlotEntry{Used: true, Name: "B"},
		SlotEntry{Used: true, Name: "C"},
	)

	next, events := Diff(prev, obs)

	want := []Event{
		{Kind: PlayerLoggedIn, Player: "C"},
		{Kind: PlayerLoggedOut, Player: "A"},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("got %v, want %v", events, want)
	}

	if next.PlayerCount() != 2 {
		t.Fatalf("expected players {B, C}, got %v", next.Players)
	}
	for _, name := range []string{"B", "C"} {
		if _, ok := next.Players[name]; !ok {
			t.Fatalf("player %s missing from next snapshot", name)
		}
	}
}

func TestDiff_AdminPromotionEdgeTriggeredOneDirectional(t *testing.T) {
	prev := onlineSnapshot("s1", PlayerRecord{Name: "B", IsAdmin: false})
	promoted := reporting("Farm", SlotEntry{Used: true, Name: "B", IsAdmin: true})

	next, events := Diff(prev, promoted)
	want := []Event{{Kind: PlayerPromotedToAdmin, Player: "B"}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("promotion: got %v, want %v", events, want)
	}

	// Still admin next cycle: no repeated event.
	_, events = Diff(next, promoted)
	if len(events) != 0 {
		t.Fatalf("sustained admin emitted events: %v", events)
	}

	// Demotion is not a tracked event.
	demoted := reporting("Farm", SlotEntry{Used: true, Name: "B", IsAdmin: false})
	_, events = Diff(next, demoted)
	if len(events) != 0 {
		t.Fatalf("demotion emitted events: %v", events)
	}
}

func TestDiff_LoginWithAdminFlagIsJustLogin(t *testing.T) {
	prev := onlineSnapshot("s1")
	obs := reporting("Farm", SlotEntry{Used: true, Name: "Root", IsAdmin: true})

	_, events := Diff(prev, obs)

	want := []Event{{Kind: PlayerLoggedIn, Player: "Root"}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("got %v, want %v", events, want)
	}
}

func TestDiff_SkipsUnusedAndMalformedSlots(t *testing.T) {
	prev := onlineSnapshot("s1")
	obs := reporting("Farm",
		SlotEntry{Used: false, Name: "Ghost"},
		SlotEntry{Used: true, Name: ""}, // malformed: no name
		SlotEntry{Used: true, Name: "Alice"},
	)

	next, events := Diff(prev, obs)

	want := []Event{{Kind: PlayerLoggedIn, Player: "Alice"}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("got %v, want %v", events, want)
	}
	if next.PlayerCount() != 1 {
		t.Fatalf("expected 1 player, got %v", next.Players)
	}
}

func TestDiff_Deterministic(t *testing.T) {
	prev := onlineSnapshot("s1",
		PlayerRecord{Name: "A"}, PlayerRecord{Name: "B"},
		PlayerRecord{Name: "C"}, PlayerRecord{Name: "D"},
	)
	obs := reporting("Farm", SlotEntry{Used: true, Name: "E"})

	next1, events1 := Diff(prev, obs)
	next2, events2 := Diff(prev, obs)

	if !reflect.DeepEqual(next1, next2) {
		t.Fatal("identical inputs produced different snapshots")
	}
	if !reflect.DeepEqual(events1, events2) {
		t.Fatalf("identical inputs produced different event sequences: %v vs %v", events1, events2)
	}

	// All four departures, name-sorted after the login.
	want := []Event{
		{Kind: PlayerLoggedIn, Player: "E"},
		{Kind: PlayerLoggedOut, Player: "A"},
		{Kind: PlayerLoggedOut, Player: "B"},
		{Kind: PlayerLoggedOut, Player: "C"},
		{Kind: PlayerLoggedOut, Player: "D"},
	}
	if !reflect.DeepEqual(events1, want) {
		t.Fatalf("got %v, want %v", events1, want)
	}
}

func TestDiff_ReportingScenario(t *testing.T) {
	// Cached {online, players={Alice}}; feed reports Alice+Bob on
	// "Farm" / "Felsbrunn" with capacity 8.
	prev := onlineSnapshot("s1", PlayerRecord{Name: "Alice", OnlineMinutes: 10})
	obs := Observation{
		Kind:     ObservationReporting,
		Name:     "Farm",
		Map:      "Felsbrunn",
		Capacity: 8,
		Slots: []SlotEntry{
			{Used: true, Name: "Alice", OnlineMinutes: 12},
			{Used: true, Name: "Bob", OnlineMinutes: 1, IsAdmin: false},
		},
	}

	next, events := Diff(prev, obs)

	want := []Event{{Kind: PlayerLoggedIn, Player: "Bob"}}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("got %v, want %v", events, want)
	}

	if next.Name != "Farm" || next.Map != "Felsbrunn" || next.Capacity != 8 {
		t.Fatalf("snapshot attributes not updated: %+v", next)
	}
	if !next.Online || next.PlayerCount() != 2 {
		t.Fatalf("unexpected snapshot: %+v", next)
	}
	if next.Players["Alice"].OnlineMinutes != 12 {
		t.Fatalf("Alice's record not replaced: %+v", next.Players["Alice"])
	}
}

func TestDiff_UnknownDefaults(t *testing.T) {
	prev := NewOfflineSnapshot("s1")
	obs := Observation{Kind: ObservationReporting, Name: "Farm"}

	next, _ := Diff(prev, obs)

	if next.Map != UnknownLabel {
		t.Fatalf("expected map %q, got %q", UnknownLabel, next.Map)
	}
	if next.Capacity != 0 {
		t.Fatalf("expected unknown capacity, got %d", next.Capacity)
	}
}
