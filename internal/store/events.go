package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Vixylora/Blast-Hackathon/internal/kv"
	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

const eventKeyPrefix = "event_log_"

// Timestamp formats used for free-text search across entry dates.
const (
	searchDateLayout = "2006-01-02"
	searchTimeLayout = "15:04:05"
)

// KVEvents implements Events on top of a kv.Store.
type KVEvents struct {
	store kv.Store
}

// NewKVEvents creates an event log backed by the given key/value store.
func NewKVEvents(store kv.Store) *KVEvents {
	return &KVEvents{store: store}
}

func eventKey(timestamp int64) string {
	return fmt.Sprintf("%s%d", eventKeyPrefix, timestamp)
}

func (s *KVEvents) Append(ctx context.Context, entry models.EventLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := s.store.Set(ctx, eventKey(entry.Timestamp), payload); err != nil {
		return fmt.Errorf("failed to store event: %w", err)
	}
	return nil
}

func (s *KVEvents) Query(ctx context.Context, limit int, filter Filter) ([]models.EventLogEntry, error) {
	payloads, err := s.store.GetByPrefix(ctx, eventKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan events: %w", err)
	}

	entries := make([]models.EventLogEntry, 0, len(payloads))
	for _, payload := range payloads {
		var entry models.EventLogEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		if MatchEntry(entry, filter) {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// MatchEntry reports whether an entry passes the filter. Filtering happens
// after retrieval; backends may push exact matches down but the semantics
// are defined here.
func MatchEntry(entry models.EventLogEntry, filter Filter) bool {
	if filter.State != "" && entry.SystemState != filter.State {
		return false
	}
	if filter.Type != "" && entry.Type != filter.Type {
		return false
	}
	if filter.Search != "" {
		query := strings.ToLower(filter.Search)
		when := time.UnixMilli(entry.Timestamp)
		haystacks := []string{
			strings.ToLower(entry.Type),
			strings.ToLower(entry.Message),
			strings.ToLower(string(entry.SystemState)),
			when.Format(searchDateLayout),
			when.Format(searchTimeLayout),
		}
		found := false
		for _, h := range haystacks {
			if strings.Contains(h, query) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

var _ Events = (*KVEvents)(nil)
