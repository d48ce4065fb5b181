package kv

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing key: got %v, want ErrNotFound", err)
	}

	if err := s.Set(ctx, "a", []byte("one")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "a", []byte("two")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("Get = %q, want %q (last write wins)", got, "two")
	}
}

func TestMemoryStoreGetByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, kvp := range []struct{ k, v string }{
		{"sensor_reading_1", "r1"},
		{"sensor_reading_2", "r2"},
		{"event_log_1", "e1"},
		{"latest_sensor_reading", "latest"},
	} {
		if err := s.Set(ctx, kvp.k, []byte(kvp.v)); err != nil {
			t.Fatalf("Set %s failed: %v", kvp.k, err)
		}
	}

	values, err := s.GetByPrefix(ctx, "sensor_reading_")
	if err != nil {
		t.Fatalf("GetByPrefix failed: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("GetByPrefix returned %d values, want 2", len(values))
	}

	values, err = s.GetByPrefix(ctx, "absent_")
	if err != nil {
		t.Fatalf("GetByPrefix failed: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("GetByPrefix for absent prefix returned %d values, want 0", len(values))
	}
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte("original")
	if err := s.Set(ctx, "k", buf); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	buf[0] = 'X'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "original" {
		t.Fatalf("stored value was mutated through the caller's slice: %q", got)
	}
}
