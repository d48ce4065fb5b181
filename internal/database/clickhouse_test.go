package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/Vixylora/Blast-Hackathon/internal/store"
)

func TestLatestScanErrEmptyTable(t *testing.T) {
	err := latestScanErr(sql.ErrNoRows)
	if !errors.Is(err, store.ErrNoData) {
		t.Fatalf("expected store.ErrNoData for an empty table, got %v", err)
	}
}

func TestLatestScanErrWrappedNoRows(t *testing.T) {
	err := latestScanErr(fmt.Errorf("scan: %w", sql.ErrNoRows))
	if !errors.Is(err, store.ErrNoData) {
		t.Fatalf("expected store.ErrNoData for a wrapped empty result, got %v", err)
	}
}

func TestLatestScanErrKeepsStorageFailuresVisible(t *testing.T) {
	cause := errors.New("read tcp 10.0.0.5:9000: connection reset by peer")

	err := latestScanErr(cause)
	if errors.Is(err, store.ErrNoData) {
		t.Fatal("a connection failure must not be reported as no data")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected the original failure preserved in the chain, got %v", err)
	}
}
