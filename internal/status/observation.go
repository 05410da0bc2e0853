// internal/status/observation.go
package status

// ObservationKind classifies one fetch attempt.
type ObservationKind int

const (
	// ObservationTransient means the attempt yielded no reliable
	// information: network failure, timeout, unparseable body.
	// Cached state must not be perturbed by a transient observation.
	ObservationTransient ObservationKind = iota

	// ObservationConfirmedOffline means the host answered with a
	// well-formed but empty document: the game server itself is not
	// running. Distinct from transient, always.
	ObservationConfirmedOffline

	// ObservationReporting means the server answered and reported state.
	ObservationReporting
)

func (k ObservationKind) String() string {
	switch k {
	case ObservationTransient:
		return "transient"
	case ObservationConfirmedOffline:
		return "offline"
	case ObservationReporting:
		return "reporting"
	default:
		return "unknown"
	}
}

// SlotEntry is one raw player slot from the feed. Unused and malformed
// slots are carried through so the diff can skip them individually.
type SlotEntry struct {
	Used          bool
	Name          string
	OnlineMinutes int
	IsAdmin       bool
}

// Observation is the classified result of one fetch attempt.
// Name, Map, Capacity and Slots carry meaning only for
// ObservationReporting.
type Observation struct {
	Kind     ObservationKind
	Name     string
	Map      string
	Capacity int
	Slots    []SlotEntry
}
