package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"polly/internal/codelist/handler"
	codelistmetrics "polly/internal/codelist/metrics"
	jwttoken "polly/internal/jwt_token"
	"polly/internal/platform/config"
	"polly/internal/platform/database"
	"polly/internal/platform/httpserver"
	"polly/internal/platform/logger"
	"polly/internal/platform/metrics"
	"polly/internal/platform/redis"
)

const shutdownTimeout = 15 * time.Second

// main wires configuration, backing services and the HTTP router. The code
// list logic lives in internal/codelist.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	pool, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	app, err := newCodelistApp(ctx, cfg, log, codelistmetrics.New(reg), redisClient, pool)
	if err != nil {
		return err
	}
	defer app.close()

	if cfg.Admin.UsesDevSigningKey() {
		log.Warn("ADMIN_JWT_SIGNING_KEY not set; admin tokens use the development key")
	}
	jwtService := jwttoken.NewJWTService(cfg.Admin.JWTSigningKey, cfg.Admin.JWTIssuer, cfg.Admin.JWTAudience)
	h := handler.New(app.store, log,
		handler.WithRefreshLog(app.refreshLog),
		handler.WithAdminValidator(jwttoken.NewJWTServiceAdapter(jwtService)),
	)
	router := handler.NewRouter(h, log, metrics.New(reg), reg)
	srv := httpserver.New(cfg.Addr, router)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting polly", "addr", cfg.Addr, "codelist_source", cfg.Codelist.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
