// Package store defines the persistence contracts for sensor readings and
// event-log entries, plus key/value-backed implementations.
package store

import (
	"context"
	"errors"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

// ErrNoData is returned by Latest before the first reading has been ingested.
// It is a normal cold-start condition, not a storage failure.
var ErrNoData = errors.New("store: no sensor data available")

// Readings is the append-only reading store.
type Readings interface {
	// Put stores the reading under its timestamp and unconditionally
	// overwrites the latest pointer. Either both writes succeed or Put
	// returns an error.
	Put(ctx context.Context, reading models.SensorReading) error

	// Latest returns the most recently ingested reading, or ErrNoData.
	Latest(ctx context.Context) (models.SensorReading, error)

	// History returns up to limit readings, newest first. Sort order for
	// readings sharing a timestamp is unspecified but deterministic
	// within one query.
	History(ctx context.Context, limit int) ([]models.SensorReading, error)
}

// Filter narrows an event-log query. Zero values match everything.
type Filter struct {
	State  models.SystemState // exact match on systemState
	Type   string             // exact match on type tag
	Search string             // case-insensitive substring across type, message, state, date, time
}

// Events is the append-only event log.
type Events interface {
	// Append stores the entry keyed by its timestamp.
	Append(ctx context.Context, entry models.EventLogEntry) error

	// Query returns up to limit entries matching the filter, newest first.
	Query(ctx context.Context, limit int, filter Filter) ([]models.EventLogEntry, error)
}
