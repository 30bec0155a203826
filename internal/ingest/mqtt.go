package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vitalboard/internal/logger"
	"vitalboard/internal/models"
	"vitalboard/internal/repository"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const insertTimeout = 5 * time.Second

// MQTTConfig configures the broker subscription.
type MQTTConfig struct {
	BrokerURL string // e.g. tcp://localhost:1883
	ClientID  string
	Topic     string // e.g. sensors/+/readings
}

// Subscriber consumes device readings from an MQTT broker and writes them to
// the sensor store. It is the only writer in the system; the dashboard
// service never inserts.
type Subscriber struct {
	cfg      MQTTConfig
	readings repository.ReadingRepo
	log      *logger.Logger
	client   mqtt.Client
}

func NewSubscriber(cfg MQTTConfig, readings repository.ReadingRepo, log *logger.Logger) *Subscriber {
	if cfg.Topic == "" {
		cfg.Topic = "sensors/+/readings"
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "vitalboard-ingestor"
	}
	return &Subscriber{cfg: cfg, readings: readings, log: log}
}

// Start connects, subscribes and blocks until the context is cancelled.
func (s *Subscriber) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.cfg.BrokerURL).
		SetClientID(s.cfg.ClientID).
		SetOrderMatters(false).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker %q: %w", s.cfg.BrokerURL, token.Error())
	}

	if token := s.client.Subscribe(s.cfg.Topic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
		s.client.Disconnect(250)
		return fmt.Errorf("subscribe to %q: %w", s.cfg.Topic, token.Error())
	}
	s.log.Infow("ingestor_subscribed", "broker", s.cfg.BrokerURL, "topic", s.cfg.Topic)

	<-ctx.Done()
	s.client.Disconnect(250)
	return nil
}

// handleMessage parses one payload and inserts it. Malformed payloads are
// logged and dropped; the stream keeps flowing.
func (s *Subscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var reading models.SensorReading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		s.log.Warnw("ingest_bad_payload", "topic", msg.Topic(), "err", err)
		return
	}
	if reading.DeviceID == "" {
		reading.DeviceID = deviceIDFromTopic(msg.Topic())
	}
	if reading.DeviceID == "" {
		s.log.Warnw("ingest_missing_device_id", "topic", msg.Topic())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
	defer cancel()
	if err := s.readings.Insert(ctx, reading); err != nil {
		s.log.Errorw("ingest_insert_failed", "device_id", reading.DeviceID, "err", err)
	}
}

// deviceIDFromTopic pulls the device segment out of sensors/<id>/readings.
func deviceIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) == 3 && parts[0] == "sensors" && parts[2] == "readings" {
		return parts[1]
	}
	return ""
}
