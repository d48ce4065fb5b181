package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP API
	HTTPAddr string
	APIToken string // empty disables the bearer check

	// Storage backend: "memory", "redis", or "clickhouse"
	StorageBackend string

	// Redis Configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ClickHouse Configuration
	ClickHouseAddr string
	ClickHouseDB   string
	ClickHouseUser string
	ClickHousePass string

	// MQTT Configuration (empty broker disables the bridge)
	MQTTBroker       string
	MQTTClientID     string
	MQTTUsername     string
	MQTTPassword     string
	MQTTReadingTopic string
	MQTTAlertTopic   string

	// Monitor loop
	PollInterval time.Duration
	WindowSize   int

	// Classification thresholds
	PHHighThreshold     float64
	PHLowThreshold      float64
	PHWarnHighThreshold float64
	PHWarnLowThreshold  float64
	PHRateDelta         float64

	// Informational settings surfaced alongside status (do not affect
	// classification)
	ORPTarget       float64
	ConductivityMax float64
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		// HTTP API
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		APIToken: getEnv("API_TOKEN", ""),

		// Storage
		StorageBackend: getEnv("STORAGE_BACKEND", "memory"),

		// Redis Configuration
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		// ClickHouse Configuration
		ClickHouseAddr: getEnv("CLICKHOUSE_ADDR", "localhost:9000"),
		ClickHouseDB:   getEnv("CLICKHOUSE_DB", "blast"),
		ClickHouseUser: getEnv("CLICKHOUSE_USER", "default"),
		ClickHousePass: getEnv("CLICKHOUSE_PASS", ""),

		// MQTT Configuration
		MQTTBroker:       getEnv("MQTT_BROKER", ""),
		MQTTClientID:     getEnv("MQTT_CLIENT_ID", "blast-monitor"),
		MQTTUsername:     getEnv("MQTT_USERNAME", ""),
		MQTTPassword:     getEnv("MQTT_PASSWORD", ""),
		MQTTReadingTopic: getEnv("MQTT_TOPIC_READING", "sensor/+/reading"),
		MQTTAlertTopic:   getEnv("MQTT_TOPIC_ALERTS", "blast/alerts"),

		// Monitor loop
		PollInterval: getEnvDuration("POLL_INTERVAL", 2*time.Second),
		WindowSize:   getEnvInt("WINDOW_SIZE", 16),

		// Classification thresholds
		PHHighThreshold:     getEnvFloat("PH_HIGH_THRESHOLD", 8.5),
		PHLowThreshold:      getEnvFloat("PH_LOW_THRESHOLD", 6.5),
		PHWarnHighThreshold: getEnvFloat("PH_WARN_HIGH_THRESHOLD", 8.0),
		PHWarnLowThreshold:  getEnvFloat("PH_WARN_LOW_THRESHOLD", 6.8),
		PHRateDelta:         getEnvFloat("PH_RATE_DELTA", 0.5),

		// Informational settings
		ORPTarget:       getEnvFloat("ORP_TARGET_MV", 650),
		ConductivityMax: getEnvFloat("CONDUCTIVITY_MAX", 1000),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as int, using default: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: failed to parse %s as float, using default: %v", key, err)
		return defaultValue
	}
	return floatValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	durationValue, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: failed to parse %s as duration, using default: %v", key, err)
		return defaultValue
	}
	return durationValue
}
