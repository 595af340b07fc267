package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	awsDynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsEventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/go-chi/chi/v5"
	"github.com/google/wire"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/novacaap/java-sample-docker/internal/config"
	"github.com/novacaap/java-sample-docker/internal/infrastructure/decorators"
	"github.com/novacaap/java-sample-docker/internal/infrastructure/messaging/eventbridge"
	"github.com/novacaap/java-sample-docker/internal/infrastructure/observability"
	badgerstore "github.com/novacaap/java-sample-docker/internal/infrastructure/persistence/badger"
	dynamostore "github.com/novacaap/java-sample-docker/internal/infrastructure/persistence/dynamodb"
	"github.com/novacaap/java-sample-docker/internal/infrastructure/persistence/memory"
	"github.com/novacaap/java-sample-docker/internal/interfaces/http/rest"
	"github.com/novacaap/java-sample-docker/internal/interfaces/http/rest/handlers"
	"github.com/novacaap/java-sample-docker/internal/ports"
	"github.com/novacaap/java-sample-docker/internal/repository"
	"github.com/novacaap/java-sample-docker/internal/service/item"
)

// ProviderSet wires the whole application from a loaded configuration.
var ProviderSet = wire.NewSet(
	provideLogLevel,
	provideLogger,
	provideAWSConfig,
	provideDynamoDBClient,
	provideEventBridgeClient,
	provideCollector,
	provideTracerProvider,
	provideItemRepository,
	provideEventPublisher,
	provideItemService,
	provideItemHandler,
	provideGreetingHandler,
	provideRouter,
	wire.Struct(new(Container), "*"),
)

// provideLogLevel parses the configured level into an AtomicLevel that the
// config watcher can adjust later.
func provideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level: %w", err)
	}
	return zap.NewAtomicLevelAt(level), nil
}

func provideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, func(), error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level
	if cfg.Logging.Format == "json" {
		zcfg.Encoding = "json"
		zcfg.EncoderConfig = zap.NewProductionEncoderConfig()
	} else {
		zcfg.Encoding = "console"
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger = logger.With(zap.String("environment", string(cfg.Environment)))

	return logger, func() { _ = logger.Sync() }, nil
}

func provideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var opts []func(*awsConfig.LoadOptions) error
	if cfg.DynamoDB.Region != "" {
		opts = append(opts, awsConfig.WithRegion(cfg.DynamoDB.Region))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(loadCtx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return awsCfg, nil
}

func provideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsDynamodb.Client {
	return awsDynamodb.NewFromConfig(awsCfg, func(o *awsDynamodb.Options) {
		o.HTTPClient = &http.Client{Timeout: 15 * time.Second}
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})
}

func provideEventBridgeClient(awsCfg aws.Config) *awsEventbridge.Client {
	return awsEventbridge.NewFromConfig(awsCfg)
}

// provideCollector returns nil when metrics are disabled.
func provideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return observability.NewCollector(cfg.Metrics.Namespace)
}

func provideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: string(cfg.Environment),
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// provideItemRepository builds the configured backend and wraps it with
// decorators. Order: base -> circuit breaker (remote only) -> metrics -> tracing.
func provideItemRepository(
	ctx context.Context,
	cfg *config.Config,
	dynamoClient *awsDynamodb.Client,
	collector *observability.Collector,
	tp *observability.TracerProvider,
	logger *zap.Logger,
) (repository.ItemRepository, func(), error) {
	var (
		repo    repository.ItemRepository
		cleanup = func() {}
	)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		repo = memory.NewItemStore()

	case config.BackendBadger:
		db, err := badgerstore.Open(cfg.Badger.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		store, err := badgerstore.NewItemStore(db, cfg.Store.Seed, logger)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		repo = store
		cleanup = func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close badger store", zap.Error(err))
			}
		}

	case config.BackendDynamoDB:
		store := dynamostore.NewItemRepository(dynamoClient, cfg.DynamoDB.TableName, logger)
		if cfg.Store.Seed {
			if err := store.Bootstrap(ctx); err != nil {
				return nil, nil, fmt.Errorf("failed to bootstrap dynamodb table: %w", err)
			}
		}
		repo = store
		if cfg.CircuitBreaker.Enabled {
			var recorder decorators.BreakerStateRecorder
			if collector != nil {
				recorder = collector
			}
			repo = decorators.NewCircuitBreakerItemRepository(repo, decorators.CircuitBreakerConfig{
				Name:             "dynamodb-items",
				MaxRequests:      cfg.CircuitBreaker.MaxRequests,
				Interval:         cfg.CircuitBreaker.Interval,
				Timeout:          cfg.CircuitBreaker.Timeout,
				FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
				MinRequests:      cfg.CircuitBreaker.MinRequests,
			}, recorder, logger)
		}

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	if collector != nil {
		repo = decorators.NewMetricsItemRepository(repo, collector, cfg.Store.Backend)
	}
	if tp.Enabled() {
		repo = decorators.TraceItemRepository(repo, tp.Tracer(), cfg.Store.Backend)
	}

	logger.Info("Item store ready", zap.String("backend", cfg.Store.Backend))
	return repo, cleanup, nil
}

func provideEventPublisher(cfg *config.Config, client *awsEventbridge.Client, logger *zap.Logger) ports.EventPublisher {
	if !cfg.Events.Enabled {
		return ports.NoopEventPublisher{}
	}
	return eventbridge.NewPublisher(client, cfg.Events.BusName, cfg.Events.Source, logger)
}

func provideItemService(
	repo repository.ItemRepository,
	publisher ports.EventPublisher,
	collector *observability.Collector,
	logger *zap.Logger,
) *item.Service {
	var opts []item.Option
	if collector != nil {
		opts = append(opts, item.WithRecorder(collector))
	}
	return item.NewService(repo, publisher, logger, opts...)
}

func provideItemHandler(svc *item.Service, logger *zap.Logger) *handlers.ItemHandler {
	return handlers.NewItemHandler(svc, logger)
}

func provideGreetingHandler() *handlers.GreetingHandler {
	return handlers.NewGreetingHandler(time.Now)
}

func provideRouter(
	items *handlers.ItemHandler,
	greeting *handlers.GreetingHandler,
	collector *observability.Collector,
	tp *observability.TracerProvider,
	cfg *config.Config,
	logger *zap.Logger,
) *chi.Mux {
	var tracer trace.Tracer
	if tp.Enabled() {
		tracer = tp.Tracer()
	}
	return rest.NewRouter(items, greeting, collector, tracer, cfg, logger).Setup()
}
