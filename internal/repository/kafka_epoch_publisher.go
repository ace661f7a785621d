package repository

import (
	"context"

	"AtxEngine/internal/domain/models"
	domrepo "AtxEngine/internal/domain/repository"
	pkgkafka "AtxEngine/pkg/kafka"
)

// KafkaEpochPublisher emits epoch lifecycle events, keyed by account so
// consumers see per-account ordering.
type KafkaEpochPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaEpochPublisher(producer *pkgkafka.Producer, topic string) domrepo.EpochPublisher {
	return &KafkaEpochPublisher{producer: producer, topic: topic}
}

func (p *KafkaEpochPublisher) Publish(ctx context.Context, ev *models.EpochEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.AccountID), ev)
}

func (p *KafkaEpochPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
