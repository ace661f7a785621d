package usecase

import (
	"context"
	"encoding/json"
	"time"

	"AtxEngine/internal/domain/models"
	drepo "AtxEngine/internal/domain/repository"
	mid "AtxEngine/internal/middleware"
	pkgkafka "AtxEngine/pkg/kafka"
)

// KafkaTradesHandler consumes trade fills from Kafka and feeds them through
// the ingest pipeline.
type KafkaTradesHandler struct {
	topic   string
	pipe    mid.Proc
	metrics drepo.Metrics
}

func NewKafkaTradesHandler(topic string, pipe mid.Proc, metrics drepo.Metrics) *KafkaTradesHandler {
	return &KafkaTradesHandler{topic: topic, pipe: pipe, metrics: metrics}
}

func (h *KafkaTradesHandler) Topic() string { return h.topic }

func (h *KafkaTradesHandler) Handle(ctx context.Context, b []byte) error {
	var t models.Trade
	if err := json.Unmarshal(b, &t); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if err := mid.ValidateTrade(&t); err != nil {
		h.metrics.RecordError("consumer_validate")
		return err
	}
	// E2E latency from close time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(t.ClosedAt).Seconds())

	if err := h.pipe.Process(ctx, &t); err != nil {
		h.metrics.RecordError("consumer_process")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaTradesHandler)(nil)
