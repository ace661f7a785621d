//go:build wireinject
// +build wireinject

package di

import (
	"AtxEngine/pkg/config"
	"AtxEngine/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideTradeStore,
		ProvideStateStore,
		ProvideEpochPublisher,

		// Jobs
		ProvideJobPublisher,
		ProvideJobConsumer,

		// Use cases
		ProvideTradeIngestor,
		ProvideIngestPipeline,
		ProvideEpochAdvancer,
		ProvideKafkaTradesHandler,
		ProvideTradeStream,
		ProvideTradeCollector,
		ProvideScoreReader,

		// HTTP
		ProvideResponseCache,
		ProvideRouter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
