package feed

import (
	"context"

	"github.com/segmentio/kafka-go"

	feedv1 "github.com/kerwei/orderbook/internal/domain/feed/v1"
	"github.com/kerwei/orderbook/pkg/config"
	"github.com/kerwei/orderbook/pkg/errors"
	"github.com/kerwei/orderbook/pkg/logger"
)

// KafkaSource consumes order-entry records from a Kafka topic, one
// record per message, in partition order. Payloads use the same
// grammar as the line stream.
type KafkaSource struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewKafkaSource creates a Kafka-backed order source. It returns an
// implementation of the OrderSource interface.
func NewKafkaSource(cfg config.KafkaConfig, log *logger.Logger) *KafkaSource {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   cfg.Partition,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})

	return &KafkaSource{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// Next reads a message from the topic and parses it as an order entry.
func (s *KafkaSource) Next(ctx context.Context) (*feedv1.OrderEntry, error) {
	msg, err := s.kafkaReader.ReadMessage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewTracerWithCode(errors.FeedReadError, "failed to read order message").Wrap(err)
	}

	entry, err := ParseEntry(string(msg.Value))
	if err != nil {
		s.logger.Warn("skipping malformed order message",
			logger.Field{Key: "offset", Value: msg.Offset},
			logger.Field{Key: "record", Value: string(msg.Value)},
			logger.Field{Key: "error", Value: err.Error()},
		)
		return nil, err
	}

	s.logger.Debug("read order message",
		logger.Field{Key: "offset", Value: msg.Offset},
		logger.Field{Key: "orderID", Value: entry.ID},
		logger.Field{Key: "side", Value: entry.Side},
		logger.Field{Key: "price", Value: entry.Price},
		logger.Field{Key: "qty", Value: entry.Qty},
	)

	return entry, nil
}

// Close properly closes the Kafka reader.
func (s *KafkaSource) Close() error {
	return s.kafkaReader.Close()
}
