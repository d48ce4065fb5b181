package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Vixylora/Blast-Hackathon/internal/models"
)

// AlertPublisher pushes transition events to an MQTT alert topic so
// downstream observers (UI, alerting) get them without polling the log.
type AlertPublisher struct {
	client mqtt.Client

	alertTopic string // e.g. "blast/alerts"
}

// AlertPublisherConfig holds configuration for the alert publisher
type AlertPublisherConfig struct {
	AlertTopic string
}

// NewAlertPublisher creates an alert publisher
func NewAlertPublisher(client mqtt.Client, config AlertPublisherConfig) *AlertPublisher {
	return &AlertPublisher{
		client:     client,
		alertTopic: config.AlertTopic,
	}
}

// Publish sends one transition event to the alert topic.
func (p *AlertPublisher) Publish(entry models.EventLogEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	token := p.client.Publish(p.alertTopic, 1, false, payload)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish alert: %w", token.Error())
	}

	log.Printf("MQTT Alerts: Published %s event to topic: %s", entry.Type, p.alertTopic)
	return nil
}

// Append lets the publisher serve as an event sink alongside the event log:
// the entry is published after the authoritative store write.
func (p *AlertPublisher) Append(ctx context.Context, entry models.EventLogEntry) error {
	return p.Publish(entry)
}
