// Package kafka ships audit events to a Kafka topic while keeping a local copy
// for reads.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "bloodconnect/pkg/platform/audit"
	"bloodconnect/pkg/platform/circuit"
)

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Sink appends every event to a local store and produces it to Kafka. The
// local store answers ListRecent. Kafka failures never fail Append; they feed a
// breaker so an outage is logged once when it opens and once when it closes.
type Sink struct {
	producer Producer
	topic    string
	local    audit.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

type Option func(*Sink)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(s *Sink) {
		if b != nil {
			s.breaker = b
		}
	}
}

func NewSink(producer Producer, topic string, local audit.Store, opts ...Option) *Sink {
	s := &Sink{
		producer: producer,
		topic:    topic,
		local:    local,
		breaker:  circuit.New("audit-kafka"),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	if err := s.local.Append(ctx, event); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.Subject),
		Value: payload,
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		_, change := s.breaker.RecordFailure()
		if change.Opened {
			s.logger.WarnContext(ctx, "audit kafka sink unavailable, events kept locally only",
				"topic", s.topic,
				"error", err,
			)
		}
		return nil
	}
	if _, change := s.breaker.RecordSuccess(); change.Closed {
		s.logger.InfoContext(ctx, "audit kafka sink recovered", "topic", s.topic)
	}
	return nil
}

func (s *Sink) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.local.ListRecent(ctx, limit)
}

// Degraded reports whether the Kafka side is currently considered down.
func (s *Sink) Degraded() bool {
	return s.breaker.IsOpen()
}

// NewClient connects to the brokers and makes sure the audit topic exists.
func NewClient(ctx context.Context, brokers []string, topic string, partitions int32) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}
	if err := EnsureTopic(ctx, kadm.NewClient(client), topic, partitions); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

// EnsureTopic creates topic with the broker's default replication factor. An
// existing topic is not an error.
func EnsureTopic(ctx context.Context, adm *kadm.Client, topic string, partitions int32) error {
	if partitions <= 0 {
		partitions = 1
	}
	resp, err := adm.CreateTopics(ctx, partitions, -1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}
