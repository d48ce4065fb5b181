package models

// SystemState is the derived chemical-safety classification.
// It is recomputed from the reading stream, never persisted as a live variable.
type SystemState string

const (
	StateSafe     SystemState = "safe"
	StateWarning  SystemState = "warning"
	StateCritical SystemState = "critical"
)

// Valid reports whether s is one of the three known states.
func (s SystemState) Valid() bool {
	switch s {
	case StateSafe, StateWarning, StateCritical:
		return true
	}
	return false
}

// ConnectionStatus is the Synchronization Loop's data-link health indicator,
// independent of the chemical-safety state.
type ConnectionStatus string

const (
	StatusConnecting ConnectionStatus = "connecting"
	StatusConnected  ConnectionStatus = "connected"
	StatusError      ConnectionStatus = "error"
)
