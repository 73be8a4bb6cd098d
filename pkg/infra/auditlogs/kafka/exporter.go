package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/NeuralTrust/FollowerManager/pkg/infra/auditlogs"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/mitchellh/mapstructure"
)

const (
	ExporterName = "kafka"

	defaultClientID = "follower-manager"
	defaultAcks     = "all"
	flushTimeoutMs  = 5000
)

var ErrProducerNotReady = errors.New("kafka producer is not initialized")

// Settings is the audit.settings block of the config file.
type Settings struct {
	// Brokers is a comma separated host:port list.
	Brokers  string `mapstructure:"brokers"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
	Acks     string `mapstructure:"acks"`
}

func (s Settings) brokerList() []string {
	var out []string
	for _, b := range strings.Split(s.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func parseSettings(raw map[string]interface{}) (Settings, error) {
	s := Settings{ClientID: defaultClientID, Acks: defaultAcks}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return s, err
	}
	if err := decoder.Decode(raw); err != nil {
		return s, fmt.Errorf("invalid kafka settings: %w", err)
	}
	return s, nil
}

// Exporter publishes audit events to a kafka topic. The zero value only
// validates settings; WithSettings returns a connected copy.
type Exporter struct {
	settings Settings
	producer *kafka.Producer
}

func NewKafkaExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Name() string {
	return ExporterName
}

func (e *Exporter) ValidateConfig(raw map[string]interface{}) error {
	s, err := parseSettings(raw)
	if err != nil {
		return err
	}
	if len(s.brokerList()) == 0 {
		return errors.New("kafka brokers are required")
	}
	if s.Topic == "" {
		return errors.New("kafka topic is required")
	}
	switch s.Acks {
	case "0", "1", "all":
	default:
		return fmt.Errorf("kafka acks must be 0, 1 or all, got %q", s.Acks)
	}
	return nil
}

func (e *Exporter) WithSettings(raw map[string]interface{}) (auditlogs.Exporter, error) {
	s, err := parseSettings(raw)
	if err != nil {
		return nil, err
	}
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": strings.Join(s.brokerList(), ","),
		"client.id":         s.ClientID,
		"acks":              s.Acks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &Exporter{settings: s, producer: producer}, nil
}

func message(topic string, evt *auditlogs.Event) (*kafka.Message, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode audit event: %w", err)
	}
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		// keyed by actor so one user's events keep their order
		Key:   []byte(evt.Actor.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(evt.Event.Type)},
			{Key: "event_status", Value: []byte(evt.Event.Status)},
		},
	}, nil
}

// Export blocks until the broker acknowledges the event or ctx ends.
func (e *Exporter) Export(ctx context.Context, evt *auditlogs.Event) error {
	if e.producer == nil {
		return ErrProducerNotReady
	}
	msg, err := message(e.settings.Topic, evt)
	if err != nil {
		return err
	}

	report := make(chan kafka.Event, 1)
	if err := e.producer.Produce(msg, report); err != nil {
		return fmt.Errorf("failed to enqueue audit event: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case ev := <-report:
		delivered, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("unexpected kafka delivery report %T", ev)
		}
		return delivered.TopicPartition.Error
	}
}

func (e *Exporter) Close() {
	if e.producer == nil {
		return
	}
	e.producer.Flush(flushTimeoutMs)
	e.producer.Close()
}
