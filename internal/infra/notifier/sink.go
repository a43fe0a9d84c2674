package notifier

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"rentspace/internal/pkg/config"
	"rentspace/internal/pkg/errs"
)

// Sink delivers a single notification event. Implementations must be safe
// for concurrent use.
type Sink interface {
	Deliver(ctx context.Context, event Event) error
}

// LogSink writes events to the process log. Used when no broker is
// configured and as the development default.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger.With("component", "notifier")}
}

func (s *LogSink) Deliver(_ context.Context, event Event) error {
	s.logger.Info("notification",
		"type", string(event.Type),
		"booking_id", event.BookingID,
		"recipient_id", event.RecipientID,
		"reason", event.Reason,
	)
	return nil
}

// KafkaSink publishes events to a single topic keyed by recipient so one
// user's notifications stay ordered within a partition.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaSink(cfg config.KafkaConfig) (*KafkaSink, func(), error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Idempotent = true
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.Retry.Max = 5
	saramaCfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to create kafka producer")
	}

	sink := &KafkaSink{producer: producer, topic: cfg.Topic}
	cleanup := func() {
		if closeErr := producer.Close(); closeErr != nil {
			slog.Warn("failed to close kafka producer", "error", closeErr)
		}
	}
	return sink, cleanup, nil
}

func (s *KafkaSink) Deliver(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to encode notification event")
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(event.RecipientID.String()),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		return errs.Wrap(err, "failed to publish notification event")
	}
	return nil
}
