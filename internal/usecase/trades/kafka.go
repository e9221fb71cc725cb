package trades

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	orderbookv1 "github.com/kerwei/orderbook/internal/domain/orderbook/v1"
	"github.com/kerwei/orderbook/pkg/config"
	"github.com/kerwei/orderbook/pkg/errors"
	"github.com/kerwei/orderbook/pkg/logger"
)

// TradeEvent is the JSON payload published for each trade. EventID is
// a ulid so downstream consumers can dedupe replays.
type TradeEvent struct {
	EventID    string `json:"eventID"`
	Instrument string `json:"instrument"`
	TakerID    string `json:"takerID"`
	MakerID    string `json:"makerID"`
	Price      int64  `json:"price"`
	Qty        int64  `json:"qty"`
	OccurredAt int64  `json:"occurredAt"`
}

// KafkaPublisher publishes trade events to a Kafka topic.
type KafkaPublisher struct {
	kafkaWriter *kafka.Writer
	instrument  string
	logger      *logger.Logger
}

// NewKafkaPublisher creates a Kafka publisher for trade events.
func NewKafkaPublisher(cfg config.KafkaConfig, instrument string, log *logger.Logger) *KafkaPublisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &KafkaPublisher{
		kafkaWriter: kafkaWriter,
		instrument:  instrument,
		logger:      log,
	}
}

// Publish publishes a trade event to the Kafka topic.
func (p *KafkaPublisher) Publish(ctx context.Context, trade orderbookv1.Trade) error {
	event := TradeEvent{
		EventID:    ulid.Make().String(),
		Instrument: p.instrument,
		TakerID:    trade.TakerID,
		MakerID:    trade.MakerID,
		Price:      trade.Price,
		Qty:        trade.Qty,
		OccurredAt: time.Now().UnixNano(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return errors.NewTracerWithCode(errors.TradePublishError, "failed to marshal trade event").Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(p.instrument),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "eventID", Value: event.EventID},
			logger.Field{Key: "trade", Value: trade.String()},
		)
		return errors.NewTracerWithCode(errors.TradePublishError, "failed to publish trade event").Wrap(err)
	}

	return nil
}

// Close flushes and closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.kafkaWriter.Close()
}
