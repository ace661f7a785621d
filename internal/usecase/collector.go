package usecase

import (
	"context"

	"AtxEngine/internal/domain/models"
	drepo "AtxEngine/internal/domain/repository"
	mid "AtxEngine/internal/middleware"
)

// TradeCollector drains the broker feed and pushes fills through the ingest
// pipeline.
type TradeCollector struct {
	stream  drepo.TradeStream
	ing     *TradeIngestor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewTradeCollector creates a new TradeCollector instance.
func NewTradeCollector(stream drepo.TradeStream, ing *TradeIngestor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *TradeCollector {
	return &TradeCollector{stream: stream, ing: ing, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the broker feed is connected.
func (c *TradeCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TradeCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	trCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, trCh, errCh)
	return nil
}

func (c *TradeCollector) consume(ctx context.Context, trCh <-chan *models.Trade, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case t := <-trCh:
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.ing.Process(ctx, t)
			}
		}
	}
}

func (c *TradeCollector) Stop() error { return c.stream.Close() }

// Ingestor returns the underlying TradeIngestor for lifecycle management.
func (c *TradeCollector) Ingestor() *TradeIngestor { return c.ing }

// Shutdown stops pipeline and closes stream.
func (c *TradeCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
