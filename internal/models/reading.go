package models

import "time"

// SensorReading represents one timestamped sample from the water-chemistry probe.
// Readings are immutable once stored.
type SensorReading struct {
	PH           float64 `json:"pH"`
	ORP          float64 `json:"orp"`          // millivolts
	Conductivity float64 `json:"conductivity"` // µS/cm
	Timestamp    int64   `json:"timestamp"`    // epoch milliseconds
}

// Time returns the reading timestamp as a time.Time.
func (r SensorReading) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// SensorSnapshot holds the three sensor values captured alongside an event.
type SensorSnapshot struct {
	PH           float64 `json:"pH"`
	ORP          float64 `json:"orp"`
	Conductivity float64 `json:"conductivity"`
}

// Snapshot extracts the value triple from a reading.
func (r SensorReading) Snapshot() SensorSnapshot {
	return SensorSnapshot{
		PH:           r.PH,
		ORP:          r.ORP,
		Conductivity: r.Conductivity,
	}
}
