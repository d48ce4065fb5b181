package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Vixylora/Blast-Hackathon/internal/ingest"
	"github.com/Vixylora/Blast-Hackathon/internal/metrics"
	"github.com/Vixylora/Blast-Hackathon/internal/store"
)

// Bridge subscribes to the device reading topic and writes validated
// readings through the reading store. It is the MQTT counterpart of the
// POST /sensor-data endpoint and shares its validation path.
type Bridge struct {
	client   mqtt.Client
	readings store.Readings
	metrics  *metrics.Metrics

	readingTopic string // e.g. "sensor/+/reading"
}

// BridgeConfig holds configuration for the ingestion bridge
type BridgeConfig struct {
	ReadingTopic string
}

// NewBridge creates an ingestion bridge. m may be nil.
func NewBridge(client mqtt.Client, config BridgeConfig, readings store.Readings, m *metrics.Metrics) *Bridge {
	return &Bridge{
		client:       client,
		readings:     readings,
		metrics:      m,
		readingTopic: config.ReadingTopic,
	}
}

// Subscribe subscribes to the reading topic
func (b *Bridge) Subscribe() error {
	if b.readingTopic == "" {
		return nil
	}
	token := b.client.Subscribe(b.readingTopic, 1, b.handleReading)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("MQTT Bridge: Subscribed to reading topic: %s", b.readingTopic)
	return nil
}

// handleReading validates and persists a device reading message
func (b *Bridge) handleReading(client mqtt.Client, msg mqtt.Message) {
	var req ingest.Request
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		log.Printf("MQTT Bridge: Error unmarshaling reading from %s: %v", msg.Topic(), err)
		return
	}

	reading, err := req.Reading(time.Now())
	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		log.Printf("MQTT Bridge: Dropping invalid reading from %s: %v", msg.Topic(), verr)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.readings.Put(ctx, reading); err != nil {
		log.Printf("MQTT Bridge: Error storing reading: %v", err)
		return
	}

	if b.metrics != nil {
		b.metrics.ReadingsIngested.Inc()
	}

	log.Printf("MQTT Bridge: Stored reading (pH=%.2f, orp=%.1f mV, conductivity=%.1f µS/cm)",
		reading.PH, reading.ORP, reading.Conductivity)
}
