package mqtt

import (
	"context"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// ClientConfig holds the broker connection settings.
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string

	// ConnectTimeout bounds the initial connect. Zero means 10s.
	ConnectTimeout time.Duration
}

// Client owns the broker connection shared by Bridge and AlertPublisher.
type Client struct {
	client   mqtt.Client
	clientID string
}

// NewClient dials the broker and blocks until the connection is up, the
// connect timeout expires, or ctx is cancelled. A random suffix is added to
// the client ID so multiple service instances can share a broker; the
// session is persistent so the Bridge subscription survives reconnects.
func NewClient(ctx context.Context, config ClientConfig) (*Client, error) {
	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	clientID := fmt.Sprintf("%s-%s", config.ClientID, uuid.NewString()[:8])

	opts := mqtt.NewClientOptions().
		AddBroker(config.Broker).
		SetClientID(clientID).
		SetUsername(config.Username).
		SetPassword(config.Password).
		SetAutoReconnect(true).
		SetCleanSession(false).
		SetResumeSubs(true).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetConnectTimeout(timeout)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Printf("MQTT Client: %s connected to %s", clientID, config.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("MQTT Client: %s lost connection: %v", clientID, err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	select {
	case <-ctx.Done():
		client.Disconnect(0)
		return nil, ctx.Err()
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", config.Broker, err)
	}

	return &Client{client: client, clientID: clientID}, nil
}

// Native exposes the paho client for Bridge and AlertPublisher wiring.
func (c *Client) Native() mqtt.Client {
	return c.client
}

// IsConnected reports whether the broker link is currently up.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}

// Close flushes in-flight messages and drops the connection.
func (c *Client) Close() {
	c.client.Disconnect(250)
	log.Printf("MQTT Client: %s disconnected", c.clientID)
}
