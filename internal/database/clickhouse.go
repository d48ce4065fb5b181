package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
	"github.com/Vixylora/Blast-Hackathon/internal/store"
)

// ClickHouseDB is the ClickHouse-backed storage backend. It implements both
// store.Readings and store.Events, keeping the latest pointer as a query over
// the readings table instead of a separate slot.
type ClickHouseDB struct {
	conn driver.Conn
}

// NewClickHouseDB creates a new ClickHouse database connection
func NewClickHouseDB(addr, database, username, password string) (*ClickHouseDB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Printf("Connected to ClickHouse at %s", addr)

	db := &ClickHouseDB{conn: conn}

	// Initialize schema
	if err := db.InitSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// InitSchema creates the necessary tables if they don't exist
func (db *ClickHouseDB) InitSchema() error {
	ctx := context.Background()

	for _, tableSQL := range AllTables() {
		if err := db.conn.Exec(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// Put stores a sensor reading
func (db *ClickHouseDB) Put(ctx context.Context, reading models.SensorReading) error {
	query := `
		INSERT INTO sensor_readings (timestamp, ph, orp, conductivity)
		VALUES (?, ?, ?, ?)
	`

	err := db.conn.Exec(ctx, query,
		reading.Time(),
		reading.PH,
		reading.ORP,
		reading.Conductivity,
	)

	if err != nil {
		return fmt.Errorf("failed to insert sensor reading: %w", err)
	}

	return nil
}

// Latest returns the most recent reading, or store.ErrNoData
func (db *ClickHouseDB) Latest(ctx context.Context) (models.SensorReading, error) {
	query := `
		SELECT timestamp, ph, orp, conductivity
		FROM sensor_readings
		ORDER BY timestamp DESC
		LIMIT 1
	`

	var ts time.Time
	var reading models.SensorReading
	row := db.conn.QueryRow(ctx, query)
	if err := row.Scan(&ts, &reading.PH, &reading.ORP, &reading.Conductivity); err != nil {
		return models.SensorReading{}, latestScanErr(err)
	}
	reading.Timestamp = ts.UnixMilli()

	return reading, nil
}

// latestScanErr maps an empty result to store.ErrNoData. An empty table is
// the normal cold-start condition; anything else is a storage failure and
// must stay visible to the caller.
func latestScanErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNoData
	}
	return fmt.Errorf("failed to query latest reading: %w", err)
}

// History returns up to limit readings, newest first
func (db *ClickHouseDB) History(ctx context.Context, limit int) ([]models.SensorReading, error) {
	query := `
		SELECT timestamp, ph, orp, conductivity
		FROM sensor_readings
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := db.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reading history: %w", err)
	}
	defer rows.Close()

	var readings []models.SensorReading
	for rows.Next() {
		var ts time.Time
		var reading models.SensorReading
		if err := rows.Scan(&ts, &reading.PH, &reading.ORP, &reading.Conductivity); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		reading.Timestamp = ts.UnixMilli()
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

// Append stores an event log entry
func (db *ClickHouseDB) Append(ctx context.Context, entry models.EventLogEntry) error {
	query := `
		INSERT INTO event_logs (timestamp, type, message, system_state, ph, orp, conductivity)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	err := db.conn.Exec(ctx, query,
		time.UnixMilli(entry.Timestamp),
		entry.Type,
		entry.Message,
		string(entry.SystemState),
		entry.SensorData.PH,
		entry.SensorData.ORP,
		entry.SensorData.Conductivity,
	)

	if err != nil {
		return fmt.Errorf("failed to insert event log: %w", err)
	}

	return nil
}

// Query returns up to limit event entries matching the filter, newest first.
// Entries are fetched newest first and filtered in process, so the filter
// semantics stay identical across storage backends.
func (db *ClickHouseDB) Query(ctx context.Context, limit int, filter store.Filter) ([]models.EventLogEntry, error) {
	query := `
		SELECT timestamp, type, message, system_state, ph, orp, conductivity
		FROM event_logs
		ORDER BY timestamp DESC
	`

	rows, err := db.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query event logs: %w", err)
	}
	defer rows.Close()

	var entries []models.EventLogEntry
	for rows.Next() {
		var ts time.Time
		var state string
		var entry models.EventLogEntry
		if err := rows.Scan(&ts, &entry.Type, &entry.Message, &state,
			&entry.SensorData.PH, &entry.SensorData.ORP, &entry.SensorData.Conductivity); err != nil {
			return nil, fmt.Errorf("failed to scan event log: %w", err)
		}
		entry.Timestamp = ts.UnixMilli()
		entry.SystemState = models.SystemState(state)

		if !store.MatchEntry(entry, filter) {
			continue
		}
		entries = append(entries, entry)
		if limit >= 0 && len(entries) >= limit {
			break
		}
	}

	return entries, rows.Err()
}

// Close closes the ClickHouse connection
func (db *ClickHouseDB) Close() error {
	if db.conn != nil {
		if err := db.conn.Close(); err != nil {
			return fmt.Errorf("failed to close ClickHouse connection: %w", err)
		}
		log.Println("ClickHouse connection closed")
	}
	return nil
}

var (
	_ store.Readings = (*ClickHouseDB)(nil)
	_ store.Events   = (*ClickHouseDB)(nil)
)
