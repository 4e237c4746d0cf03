package progression

// EventKind identifies a progression event.
type EventKind int

const (
	EventLevelUp EventKind = iota
	EventFirewallActivated
	EventFirewallCleared
	EventSystemFailure // Corruption reached MaxCorruption
	EventSlowTimeStarted
	EventSlowTimeExpired
)

// String returns a short name for logs.
func (k EventKind) String() string {
	switch k {
	case EventLevelUp:
		return "level_up"
	case EventFirewallActivated:
		return "firewall_activated"
	case EventFirewallCleared:
		return "firewall_cleared"
	case EventSystemFailure:
		return "system_failure"
	case EventSlowTimeStarted:
		return "slow_time_started"
	case EventSlowTimeExpired:
		return "slow_time_expired"
	default:
		return "unknown"
	}
}

// Event is a state transition the game loop or UI may react to.
type Event struct {
	Kind  EventKind
	Tick  uint64 // Engine tick at which it happened
	Level int    // Level at that moment
}

func (e *Engine) emit(kind EventKind) {
	e.events = append(e.events, Event{Kind: kind, Tick: e.tick, Level: e.level})
}

// DrainEvents returns the queued events in order and clears the queue.
func (e *Engine) DrainEvents() []Event {
	if len(e.events) == 0 {
		return nil
	}
	out := e.events
	e.events = nil
	return out
}
