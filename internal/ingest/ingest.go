// Package ingest validates device reading payloads. The HTTP endpoint and
// the MQTT bridge share this path so both boundaries accept the same shape.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

// Request is a device reading payload. Pointer fields distinguish a missing
// field from a zero value; out-of-physical-range values are accepted here
// (range checking belongs to the classifier, not ingestion).
type Request struct {
	PH           *float64 `json:"pH"`
	ORP          *float64 `json:"orp"`
	Conductivity *float64 `json:"conductivity"`
	Timestamp    *int64   `json:"timestamp"`
}

// ValidationError reports which required fields were absent.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// Reading converts the request into a SensorReading, defaulting the timestamp
// to now when absent. Returns a *ValidationError if any numeric field is
// missing; no side effects happen on validation failure.
func (r Request) Reading(now time.Time) (models.SensorReading, error) {
	var missing []string
	if r.PH == nil {
		missing = append(missing, "pH")
	}
	if r.ORP == nil {
		missing = append(missing, "orp")
	}
	if r.Conductivity == nil {
		missing = append(missing, "conductivity")
	}
	if len(missing) > 0 {
		return models.SensorReading{}, &ValidationError{Missing: missing}
	}

	timestamp := now.UnixMilli()
	if r.Timestamp != nil && *r.Timestamp != 0 {
		timestamp = *r.Timestamp
	}

	return models.SensorReading{
		PH:           *r.PH,
		ORP:          *r.ORP,
		Conductivity: *r.Conductivity,
		Timestamp:    timestamp,
	}, nil
}
