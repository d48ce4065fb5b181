package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Vixylora/Blast-Hackathon/internal/kv"
	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

// Key scheme shared by every key/value backend.
const (
	readingKeyPrefix = "sensor_reading_"
	latestReadingKey = "latest_sensor_reading"
)

// KVReadings implements Readings on top of a kv.Store.
type KVReadings struct {
	store kv.Store
}

// NewKVReadings creates a reading store backed by the given key/value store.
func NewKVReadings(store kv.Store) *KVReadings {
	return &KVReadings{store: store}
}

// readingKey derives the storage key from the reading's timestamp. Two
// readings with the same timestamp share a key, so the later write replaces
// the earlier one and history keeps a single row per timestamp.
func readingKey(timestamp int64) string {
	return fmt.Sprintf("%s%d", readingKeyPrefix, timestamp)
}

func (s *KVReadings) Put(ctx context.Context, reading models.SensorReading) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("failed to encode reading: %w", err)
	}

	if err := s.store.Set(ctx, readingKey(reading.Timestamp), payload); err != nil {
		return fmt.Errorf("failed to store reading: %w", err)
	}
	if err := s.store.Set(ctx, latestReadingKey, payload); err != nil {
		return fmt.Errorf("failed to update latest reading: %w", err)
	}
	return nil
}

func (s *KVReadings) Latest(ctx context.Context) (models.SensorReading, error) {
	payload, err := s.store.Get(ctx, latestReadingKey)
	if errors.Is(err, kv.ErrNotFound) {
		return models.SensorReading{}, ErrNoData
	}
	if err != nil {
		return models.SensorReading{}, fmt.Errorf("failed to fetch latest reading: %w", err)
	}

	var reading models.SensorReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return models.SensorReading{}, fmt.Errorf("failed to decode latest reading: %w", err)
	}
	return reading, nil
}

func (s *KVReadings) History(ctx context.Context, limit int) ([]models.SensorReading, error) {
	payloads, err := s.store.GetByPrefix(ctx, readingKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan readings: %w", err)
	}

	readings := make([]models.SensorReading, 0, len(payloads))
	for _, payload := range payloads {
		var reading models.SensorReading
		if err := json.Unmarshal(payload, &reading); err != nil {
			return nil, fmt.Errorf("failed to decode reading: %w", err)
		}
		readings = append(readings, reading)
	}

	// Stable sort keeps duplicate-timestamp order deterministic within a query.
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp > readings[j].Timestamp
	})

	if limit >= 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	return readings, nil
}

var _ Readings = (*KVReadings)(nil)
