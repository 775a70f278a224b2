package repository

import (
	"context"
	"fmt"

	"StockPulse/internal/domain/models"
	pkgkafka "StockPulse/pkg/kafka"

	"github.com/segmentio/kafka-go"
)

type eventProducer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}, headers ...kafka.Header) error
	Close() error
}

// KafkaPublisher writes forecast events to the results topic keyed by symbol.
type KafkaPublisher struct {
	p     eventProducer
	topic string
}

func NewKafkaPublisher(p *pkgkafka.Producer, topic string) *KafkaPublisher {
	return newKafkaPublisher(p, topic)
}

func newKafkaPublisher(p eventProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{p: p, topic: topic}
}

func (k *KafkaPublisher) Publish(ctx context.Context, ev *models.ForecastEvent) error {
	if ev == nil {
		return nil
	}
	var headers []kafka.Header
	if ev.RunID != "" {
		headers = append(headers, kafka.Header{Key: pkgkafka.RunIDHeader, Value: []byte(ev.RunID)})
	}
	if err := k.p.Publish(ctx, k.topic, []byte(ev.Symbol), ev, headers...); err != nil {
		return fmt.Errorf("publish forecast event %s: %w", ev.RunID, err)
	}
	return nil
}

func (k *KafkaPublisher) Backend() string { return "kafka" }

func (k *KafkaPublisher) Close() error { return k.p.Close() }

// NopPublisher drops events. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.ForecastEvent) error { return nil }
func (NopPublisher) Backend() string                                   { return "" }
func (NopPublisher) Close() error                                      { return nil }
