package monitor

import (
	"context"
	"errors"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
	"github.com/Vixylora/Blast-Hackathon/internal/store"
)

// StoreFetcher adapts a store.Readings into a Fetcher for the in-process
// authoritative loop.
type StoreFetcher struct {
	readings store.Readings
}

// NewStoreFetcher wraps a reading store.
func NewStoreFetcher(readings store.Readings) *StoreFetcher {
	return &StoreFetcher{readings: readings}
}

func (f *StoreFetcher) FetchLatest(ctx context.Context) (models.SensorReading, error) {
	reading, err := f.readings.Latest(ctx)
	if errors.Is(err, store.ErrNoData) {
		return models.SensorReading{}, ErrNoData
	}
	return reading, err
}

var _ Fetcher = (*StoreFetcher)(nil)
