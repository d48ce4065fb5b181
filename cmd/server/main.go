package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Vixylora/Blast-Hackathon/internal/classifier"
	"github.com/Vixylora/Blast-Hackathon/internal/database"
	"github.com/Vixylora/Blast-Hackathon/internal/kv"
	"github.com/Vixylora/Blast-Hackathon/internal/metrics"
	"github.com/Vixylora/Blast-Hackathon/internal/models"
	"github.com/Vixylora/Blast-Hackathon/internal/monitor"
	mqttx "github.com/Vixylora/Blast-Hackathon/internal/mqtt"
	"github.com/Vixylora/Blast-Hackathon/internal/server"
	"github.com/Vixylora/Blast-Hackathon/internal/store"
	"github.com/Vixylora/Blast-Hackathon/pkg/config"
)

func main() {
	log.Println("Starting Blast Monitoring Service...")

	// Load configuration
	cfg := config.Load()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === Initialize storage backend ===
	readings, events, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend %q: %v", cfg.StorageBackend, err)
	}
	defer cleanup()

	// === Metrics ===
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// === MQTT (optional) ===
	var sink monitor.EventSink = eventStoreSink{events: events, metrics: m}
	var mqttClient *mqttx.Client
	if cfg.MQTTBroker != "" {
		mqttClient, err = mqttx.NewClient(ctx, mqttx.ClientConfig{
			Broker:   cfg.MQTTBroker,
			ClientID: cfg.MQTTClientID,
			Username: cfg.MQTTUsername,
			Password: cfg.MQTTPassword,
		})
		if err != nil {
			log.Fatalf("Failed to initialize MQTT client: %v", err)
		}
		defer mqttClient.Close()

		// Device ingestion over MQTT, same validation path as the HTTP endpoint.
		bridge := mqttx.NewBridge(mqttClient.Native(), mqttx.BridgeConfig{
			ReadingTopic: cfg.MQTTReadingTopic,
		}, readings, m)
		if err := bridge.Subscribe(); err != nil {
			log.Fatalf("Failed to subscribe to MQTT reading topic: %v", err)
		}

		// Transition events also go out on the alert topic.
		publisher := mqttx.NewAlertPublisher(mqttClient.Native(), mqttx.AlertPublisherConfig{
			AlertTopic: cfg.MQTTAlertTopic,
		})
		sink = fanoutSink{sinks: []monitor.EventSink{sink, publisher}}
	}

	// === Authoritative monitor loop ===
	// One classifying loop per deployment; remote observers stay read-only.
	thresholds := classifier.Thresholds{
		PHHigh:     cfg.PHHighThreshold,
		PHLow:      cfg.PHLowThreshold,
		PHWarnHigh: cfg.PHWarnHighThreshold,
		PHWarnLow:  cfg.PHWarnLowThreshold,
		RateDelta:  cfg.PHRateDelta,
	}
	runner := monitor.NewRunner(
		monitor.NewStoreFetcher(readings),
		sink,
		func(s monitor.Snapshot) { m.ObserveSnapshot(s.State, s.Connectivity) },
		monitor.Config{
			Interval:       cfg.PollInterval,
			WindowSize:     cfg.WindowSize,
			Thresholds:     thresholds,
			OnFetchFailure: m.FetchFailures.Inc,
		},
	)
	go runner.Run(ctx)

	// === HTTP API ===
	handler := server.NewHandler(readings, events, runner, m)
	handler.Targets = server.Targets{
		ORPMillivolts:   cfg.ORPTarget,
		ConductivityMax: cfg.ConductivityMax,
	}
	router := server.NewRouter(handler, cfg.APIToken, registry)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Printf("HTTP API listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Println("=== Blast Monitoring Service is running ===")
	log.Printf("Storage backend: %s", cfg.StorageBackend)
	log.Printf("Classifier thresholds: high=%.2f low=%.2f warnHigh=%.2f warnLow=%.2f delta=%.2f",
		thresholds.PHHigh, thresholds.PHLow, thresholds.PHWarnHigh, thresholds.PHWarnLow, thresholds.RateDelta)
	log.Printf("Monitor: interval=%v, window=%d", cfg.PollInterval, cfg.WindowSize)
	log.Println("Press Ctrl+C to exit...")

	// === Wait for interrupt signal ===
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// === Graceful shutdown ===
	log.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown: %v", err)
	}

	log.Println("Shutdown complete. Goodbye!")
}

// buildStores selects the storage backend from configuration.
func buildStores(ctx context.Context, cfg *config.Config) (store.Readings, store.Events, func(), error) {
	switch cfg.StorageBackend {
	case "redis":
		redisStore, err := kv.NewRedisStore(ctx, kv.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() {
			if err := redisStore.Close(); err != nil {
				log.Printf("Error closing Redis store: %v", err)
			}
		}
		return store.NewKVReadings(redisStore), store.NewKVEvents(redisStore), cleanup, nil

	case "clickhouse":
		db, err := database.NewClickHouseDB(
			cfg.ClickHouseAddr,
			cfg.ClickHouseDB,
			cfg.ClickHouseUser,
			cfg.ClickHousePass,
		)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				log.Printf("Error closing ClickHouse: %v", err)
			}
		}
		return db, db, cleanup, nil

	default:
		memStore := kv.NewMemoryStore()
		return store.NewKVReadings(memStore), store.NewKVEvents(memStore), func() {}, nil
	}
}

// eventStoreSink appends transition events to the event log and counts them.
type eventStoreSink struct {
	events  store.Events
	metrics *metrics.Metrics
}

func (s eventStoreSink) Append(ctx context.Context, entry models.EventLogEntry) error {
	if err := s.events.Append(ctx, entry); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.EventsLogged.WithLabelValues(entry.Type).Inc()
	}
	return nil
}

// fanoutSink delivers each event to every sink; the first error wins but
// later sinks still run.
type fanoutSink struct {
	sinks []monitor.EventSink
}

func (f fanoutSink) Append(ctx context.Context, entry models.EventLogEntry) error {
	var firstErr error
	for _, sink := range f.sinks {
		if err := sink.Append(ctx, entry); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
