package di

import (
	"context"
	"fmt"
	"time"

	"AtxEngine/internal/domain/repository"
	"AtxEngine/internal/handler/api"
	mid "AtxEngine/internal/middleware"
	internalrepo "AtxEngine/internal/repository"
	"AtxEngine/internal/service/brokerfeed"
	icache "AtxEngine/internal/service/cache"
	svcmetrics "AtxEngine/internal/service/metrics"
	"AtxEngine/internal/usecase"
	pkgcache "AtxEngine/pkg/cache"
	pkgch "AtxEngine/pkg/clickhouse"
	"AtxEngine/pkg/config"
	pkgkafka "AtxEngine/pkg/kafka"
	applogger "AtxEngine/pkg/logger"
	"AtxEngine/pkg/metrics"
	"AtxEngine/pkg/queue"
	"AtxEngine/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and applies the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, pkgch.SchemaStatements(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideRedisClient creates the shared Redis client.
func ProvideRedisClient(cfg *config.Config) (*redis.Client, error) {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cli.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return cli, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideKafkaProducer creates a Kafka producer for epoch events.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates the consumer for the trades topic.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideTradeStore creates the ClickHouse trade store.
func ProvideTradeStore(chClient *pkgch.Client, cfg *config.Config) repository.TradeStore {
	return internalrepo.NewCHTradeStore(chClient, cfg.ClickHouse.Database)
}

// ProvideStateStore creates the Redis account state store.
func ProvideStateStore(cli *redis.Client) repository.StateStore {
	return internalrepo.NewRedisStateStore(cli)
}

// ProvideEpochPublisher creates the Kafka epoch event publisher.
func ProvideEpochPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.EpochPublisher {
	return internalrepo.NewKafkaEpochPublisher(producer, cfg.Kafka.EpochsTopic)
}

// ProvideJobPublisher creates the producer side of the advance-job queue.
func ProvideJobPublisher(l *applogger.Logger, cli *redis.Client) queue.QueueService {
	return queue.NewRedisPublisher(l, cli)
}

// ProvideTradeIngestor creates the trade ingestor.
func ProvideTradeIngestor(store repository.TradeStore, jobs queue.QueueService, m repository.Metrics) *usecase.TradeIngestor {
	return usecase.NewTradeIngestor(store, jobs, m)
}

// ProvideIngestPipeline builds the throttled pipeline in front of the ingestor.
func ProvideIngestPipeline(ing *usecase.TradeIngestor, m repository.Metrics) *mid.IngestPipeline {
	return mid.NewIngestPipeline(ing, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(1000),
	)
}

// ProvideEpochAdvancer creates the epoch advancer.
func ProvideEpochAdvancer(
	trades repository.TradeStore,
	states repository.StateStore,
	pub repository.EpochPublisher,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.EpochAdvancer {
	return usecase.NewEpochAdvancer(trades, states, pub, m, l, cfg.Engine.LockTTL, cfg.Engine.LockRetryMax)
}

// ProvideJobConsumer creates the consumer side of the advance-job queue.
func ProvideJobConsumer(l *applogger.Logger, cli *redis.Client, adv *usecase.EpochAdvancer, cfg *config.Config) *queue.RedisQueue {
	workers := cfg.Engine.AdvanceWorkers
	if workers <= 0 {
		workers = 4
	}
	return queue.NewRedisConsumer(l, &queue.QueueConfig{
		Workers:    workers,
		RetryLimit: 3,
		RetryDelay: 10 * time.Second,
	}, cli, []queue.Job{usecase.NewAdvanceJob(adv)})
}

// ProvideKafkaTradesHandler registers the handler for the trades topic.
func ProvideKafkaTradesHandler(pipe *mid.IngestPipeline, m repository.Metrics, cfg *config.Config) *usecase.KafkaTradesHandler {
	return usecase.NewKafkaTradesHandler(cfg.Kafka.TradesTopic, pipe, m)
}

// ProvideTradeStream creates the broker WebSocket stream. Returns nil when the
// feed is disabled; the collector provider tolerates that.
func ProvideTradeStream(cfg *config.Config) repository.TradeStream {
	if !cfg.BrokerFeed.Enabled {
		return nil
	}
	return brokerfeed.New(
		cfg.BrokerFeed.APIKey,
		cfg.BrokerFeed.WebSocketURL,
		cfg.BrokerFeed.Accounts,
		cfg.BrokerFeed.ReconnectDelay,
		cfg.BrokerFeed.PingInterval,
	)
}

// ProvideTradeCollector creates the broker feed collector.
func ProvideTradeCollector(
	stream repository.TradeStream,
	ing *usecase.TradeIngestor,
	m repository.Metrics,
	pipe *mid.IngestPipeline,
) *usecase.TradeCollector {
	if stream == nil {
		return nil
	}
	return usecase.NewTradeCollector(stream, ing, m, pipe)
}

// ProvideScoreReader creates the read-side usecase.
func ProvideScoreReader(trades repository.TradeStore, states repository.StateStore) *usecase.ScoreReader {
	return usecase.NewScoreReader(trades, states)
}

// ProvideResponseCache builds the layered (memory + Redis) response cache.
func ProvideResponseCache(cli *redis.Client) icache.BytesCache {
	layered := pkgcache.NewLayeredCache(
		pkgcache.NewRedisCacheFromClient(cli, "atx"),
		pkgcache.WithLayeredMemorySize(2048),
	)
	return icache.NewServiceBytes(layered)
}

// ProvideRouter bundles the HTTP handlers.
func ProvideRouter(
	l *applogger.Logger,
	reader *usecase.ScoreReader,
	cache icache.BytesCache,
	ing *usecase.TradeIngestor,
	adv *usecase.EpochAdvancer,
	trades repository.TradeStore,
	states repository.StateStore,
	cfg *config.Config,
) *api.Router {
	ttl := &api.CacheTTLs{
		Account: cfg.Engine.CacheTTL.Account,
		Trend:   cfg.Engine.CacheTTL.Trend,
		Day:     cfg.Engine.CacheTTL.Day,
	}
	return api.NewRouter(
		api.NewATXHandler(l, reader, cache, ttl),
		api.NewAdminHandler(l, ing, adv, trades, states),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	router *api.Router,
	collector *usecase.TradeCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTradesHandler,
	jobQueue *queue.RedisQueue,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	ing *usecase.TradeIngestor,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, router, collector, consumer, kh, jobQueue, producer, chClient, ing)
}
