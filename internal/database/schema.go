package database

// SQL schemas for all ClickHouse tables

const (
	// SensorReadingsTableSQL creates the sensor_readings table
	SensorReadingsTableSQL = `
		CREATE TABLE IF NOT EXISTS sensor_readings (
			timestamp DateTime64(3),
			ph Float64,
			orp Float64,
			conductivity Float64
		) ENGINE = MergeTree()
		ORDER BY timestamp
		PARTITION BY toYYYYMM(timestamp)
	`

	// EventLogsTableSQL creates the event_logs table
	EventLogsTableSQL = `
		CREATE TABLE IF NOT EXISTS event_logs (
			timestamp DateTime64(3),
			type String,
			message String,
			system_state String,
			ph Float64,
			orp Float64,
			conductivity Float64
		) ENGINE = MergeTree()
		ORDER BY timestamp
		PARTITION BY toYYYYMM(timestamp)
	`
)

// AllTables returns the creation statements for every table
func AllTables() []string {
	return []string{
		SensorReadingsTableSQL,
		EventLogsTableSQL,
	}
}
