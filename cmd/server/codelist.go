package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	codelistmetrics "polly/internal/codelist/metrics"
	"polly/internal/codelist/mirror"
	"polly/internal/codelist/refreshlog"
	"polly/internal/codelist/source"
	"polly/internal/codelist/source/httpsource"
	"polly/internal/codelist/store"
	"polly/internal/codelist/tracer"
	"polly/internal/codelist/trigger"
	"polly/internal/platform/config"
	"polly/internal/platform/database"
	"polly/internal/platform/redis"
)

// codelistApp owns the store and the background components around it.
type codelistApp struct {
	store      *store.Store
	refreshLog refreshlog.Log
	consumer   *trigger.Consumer
	done       chan struct{}
	cancel     context.CancelFunc
}

func newCodelistApp(
	ctx context.Context,
	cfg config.Server,
	log *slog.Logger,
	m *codelistmetrics.Metrics,
	redisClient *redis.Client,
	pool *database.Pool,
) (*codelistApp, error) {
	collation, err := store.ParseCollation(cfg.Codelist.Collation)
	if err != nil {
		return nil, err
	}

	src, publisher, err := newSource(cfg.Codelist, log, redisClient)
	if err != nil {
		return nil, err
	}

	var refreshLog refreshlog.Log
	if pool != nil {
		refreshLog = refreshlog.NewPostgres(pool.DB())
	} else {
		refreshLog = refreshlog.NewMemory(cfg.Codelist.RefreshLogSize)
	}

	app := &codelistApp{refreshLog: refreshLog}
	opts := []store.Option{
		store.WithLogger(log),
		store.WithMetrics(m),
		store.WithTracer(tracer.NewOTel()),
		store.WithCollation(collation),
		store.WithObserver(refreshlog.Observer(refreshLog, func() int {
			return len(app.store.Lists())
		}, log)),
	}
	if publisher != nil {
		opts = append(opts, store.WithPublisher(publisher))
	}
	app.store = store.New(src, opts...)
	app.store.Start(ctx)

	if cfg.Kafka.Brokers != "" {
		if err := app.startConsumer(ctx, cfg.Kafka, log, m); err != nil {
			app.store.Close()
			return nil, err
		}
	}
	return app, nil
}

// newSource picks the store's source. In http mode the Redis mirror, when
// configured, receives every installed slice; in redis mode it is the source.
func newSource(cfg config.CodelistConfig, log *slog.Logger, redisClient *redis.Client) (source.Source, store.Publisher, error) {
	switch cfg.Source {
	case config.SourceRedis:
		if redisClient == nil {
			return nil, nil, fmt.Errorf("codelist source %q requires REDIS_URL", cfg.Source)
		}
		return mirror.New(redisClient.Client, mirror.WithLogger(log)), nil, nil
	case config.SourceHTTP:
		if cfg.BaseURL == "" {
			return nil, nil, fmt.Errorf("CODELIST_BASE_URL is required for codelist source %q", cfg.Source)
		}
		httpClient := &http.Client{
			Timeout:   cfg.FetchTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
		src := httpsource.New(cfg.BaseURL, cfg.FetchTimeout,
			httpsource.WithHTTPClient(httpClient),
			httpsource.WithAPIKey(cfg.APIKey),
		)
		if redisClient == nil {
			return src, nil, nil
		}
		return src, mirror.New(redisClient.Client, mirror.WithLogger(log)), nil
	default:
		return nil, nil, fmt.Errorf("unknown codelist source %q", cfg.Source)
	}
}

func (a *codelistApp) startConsumer(ctx context.Context, cfg config.KafkaConfig, log *slog.Logger, m *codelistmetrics.Metrics) error {
	consumer, err := trigger.New(trigger.Config{
		Brokers: cfg.Brokers,
		Topic:   cfg.CodelistTopic,
		GroupID: cfg.ConsumerGroup,
	}, a.store, trigger.WithLogger(log), trigger.WithMetrics(m))
	if err != nil {
		return err
	}
	if err := consumer.EnsureTopic(ctx, 1); err != nil {
		consumer.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.consumer = consumer
	a.cancel = cancel
	a.done = make(chan struct{})
	go func() {
		defer close(a.done)
		if err := consumer.Run(runCtx); err != nil {
			log.Error("codelist trigger consumer stopped", "error", err)
		}
	}()
	return nil
}

// close stops the consumer before the store so no refresh starts after Close.
func (a *codelistApp) close() {
	if a.consumer != nil {
		a.cancel()
		a.consumer.Close()
		<-a.done
	}
	a.store.Close()
}
