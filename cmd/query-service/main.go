// cmd/query-service/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"customer-query-service/internal/api"
	"customer-query-service/internal/common/camunda"
	"customer-query-service/internal/common/config"
	"customer-query-service/internal/common/database"
	"customer-query-service/internal/common/logger"
	"customer-query-service/internal/common/observability"
	"customer-query-service/internal/format"
	"customer-query-service/internal/genai"
	"customer-query-service/internal/intent"
	"customer-query-service/internal/orchestrator"
	"customer-query-service/internal/resolvers"
	"customer-query-service/internal/store"
	acq "customer-query-service/internal/workers/ai-conversation/answer-customer-query"
)

func main() {
	bootLog, _ := zap.NewProduction()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	log, err := logger.New(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputPaths(cfg.Logging.Output),
		Service:     cfg.App.Name,
		Environment: cfg.App.Environment,
	})
	if err != nil {
		bootLog.Fatal("logger init failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("query service stopped with error", nil)
		os.Exit(1)
	}
}

func outputPaths(output string) []string {
	if output == "" {
		return nil
	}
	return []string{output}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting query service", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(observability.Options{
		ServiceName:    cfg.App.Name,
		Environment:    cfg.App.Environment,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		SampleRatio:    cfg.Tracing.SampleRatio,
	}, log)

	format.SetDefaultCurrency(cfg.Query.DefaultCurrency)
	loc := cfg.Query.Location()

	// --- Storage ---
	db, err := database.OpenPostgres(ctx, cfg.Database.Postgres)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	rdb, err := database.OpenRedis(ctx, cfg.Database.Redis)
	if err != nil {
		return fmt.Errorf("open redis: %w", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	es, err := database.OpenElasticsearch(ctx, cfg.Database.Elasticsearch)
	if err != nil {
		return fmt.Errorf("open elasticsearch: %w", err)
	}

	ttl := time.Duration(cfg.Query.RecordCacheTTL) * time.Second
	local, err := store.NewLocalRecordCache(cfg.Query.LocalCacheSize, ttl)
	if err != nil {
		return fmt.Errorf("local record cache: %w", err)
	}
	defer local.Close()

	var shared *store.RedisRecordCache
	checks := map[string]api.ReadyCheck{"postgres": db.PingContext}
	if rdb != nil {
		shared = store.NewRedisRecordCache(rdb, ttl)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	loader := store.NewCachedLoader(store.NewPostgresRecordStore(db, cfg.Query.RecordTable, log), local, shared, log)

	var sink orchestrator.ExchangeSink
	if es != nil {
		sink = store.NewElasticExchangeSink(es, cfg.Query.ExchangeIndex)
	}

	// --- Collaborators ---
	var (
		external  intent.ExternalClassifier
		generator orchestrator.Generator
	)
	if cfg.GenAI.Enabled {
		client, err := genai.New(ctx, genai.Config{
			Provider:    cfg.GenAI.Provider,
			BaseURL:     cfg.GenAI.BaseURL,
			APIKey:      cfg.GenAI.APIKey,
			Model:       cfg.GenAI.Model,
			Timeout:     config.GetDuration(cfg.GenAI.Timeout),
			MaxRetries:  cfg.GenAI.MaxRetries,
			MaxTokens:   cfg.GenAI.MaxTokens,
			Temperature: cfg.GenAI.Temperature,
		}, log)
		if err != nil {
			return fmt.Errorf("genai client: %w", err)
		}
		external, generator = client, client
	}

	orch := orchestrator.New(
		intent.NewClassifier(external, log),
		resolvers.NewRegistry(),
		generator,
		sink,
		obs,
		orchestrator.Config{
			PersistTimeout: config.GetDuration(cfg.Query.PersistTimeout),
			Now:            func() time.Time { return time.Now().In(loc) },
		},
		log,
	)
	sessions := orchestrator.NewSessions(loader, 0)

	// --- Camunda worker ---
	var worker *camunda.Worker
	if cfg.Camunda.Enabled && config.IsWorkerEnabled(cfg, acq.TaskType) {
		zb, err := camunda.NewClient(ctx, &camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			return fmt.Errorf("zeebe client: %w", err)
		}
		defer zb.Close()

		wcfg := acq.LoadConfig(cfg)
		handler := acq.NewHandler(wcfg, orch, sessions, obs, log)
		worker = camunda.NewWorker(zb.GetClient(), acq.TaskType, wcfg.MaxJobsActive, wcfg.Timeout, handler, log)
		checks["zeebe"] = zb.HealthCheck
	}

	// --- HTTP server ---
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewServer(orch, sessions, checks, log).Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", map[string]interface{}{"address": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received", nil)
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	// --- Graceful shutdown ---
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown incomplete", nil)
	}
	if worker != nil {
		worker.Stop()
	}
	if err := orch.Close(shutdownCtx); err != nil {
		log.WithError(err).Warn("pending exchanges not persisted", nil)
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("observability shutdown incomplete", nil)
	}

	log.Info("query service stopped", nil)
	return nil
}
