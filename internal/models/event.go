package models

// Event type tags written to the event log on a state transition.
const (
	EventTypeSafe     = "SAFE"
	EventTypeWarning  = "WARNING"
	EventTypeCritical = "CRITICAL_ALERT"
)

// EventLogEntry records a single classification transition and the reading
// that triggered it. Entries are append-only.
type EventLogEntry struct {
	Type        string         `json:"type"`
	Message     string         `json:"message"`
	SystemState SystemState    `json:"systemState"`
	SensorData  SensorSnapshot `json:"sensorData"`
	Timestamp   int64          `json:"timestamp"` // epoch milliseconds
}

// TransitionEvent builds the canonical log entry for entering the given state.
func TransitionEvent(state SystemState, data SensorSnapshot, timestamp int64) EventLogEntry {
	entry := EventLogEntry{
		SystemState: state,
		SensorData:  data,
		Timestamp:   timestamp,
	}
	switch state {
	case StateCritical:
		entry.Type = EventTypeCritical
		entry.Message = "PUMP POWER SEVERED - Dangerous pH detected"
	case StateWarning:
		entry.Type = EventTypeWarning
		entry.Message = "Logic alert - pH change detected"
	default:
		entry.Type = EventTypeSafe
		entry.Message = "System normal"
	}
	return entry
}
