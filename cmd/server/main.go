package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"churn-dashboard/backend/internal/analytics/ingest"
	"churn-dashboard/backend/internal/analytics/repository"
	"churn-dashboard/backend/internal/analytics/store"
	"churn-dashboard/backend/internal/config"
	"churn-dashboard/backend/internal/db"
	healthhandler "churn-dashboard/backend/internal/health/handler"
	"churn-dashboard/backend/internal/logger"
	"churn-dashboard/backend/internal/metrics"
	"churn-dashboard/backend/internal/server"
	"churn-dashboard/backend/internal/stream"
	telemetryotel "churn-dashboard/backend/internal/telemetry/otel"
	"churn-dashboard/backend/internal/upstream"
)

const serviceName = "churn-dashboard"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	var conn *sql.DB
	var repo repository.Repository
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer conn.Close()
		repo = repository.NewPostgresRepository(conn)
	} else {
		appLog.Warn("DATABASE_URL not set; persistence and history pulls disabled")
	}

	ingestMetrics, err := metrics.NewIngestion(providers.MeterProvider.Meter(serviceName))
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}

	st := store.New(cfg.HistoryCapacity, cfg.LiveFeedCapacity)

	var source stream.Source
	if ks := stream.NewKafkaSource(cfg.KafkaBrokersList(), cfg.KafkaTopic, cfg.KafkaGroupID); ks != nil {
		source = ks
	} else {
		appLog.Warn("KAFKA_BROKERS not set; push ingestion disabled")
	}

	var shap ingest.SummaryFetcher
	if cfg.ShapURL != "" {
		shap = upstream.NewShapClient(cfg.ShapURL)
	}

	facade := ingest.New(ingest.Options{
		Store:          st,
		Source:         source,
		Repo:           repo,
		Shap:           shap,
		Log:            appLog.WithComponent("ingest"),
		Metrics:        ingestMetrics,
		AlertThreshold: cfg.AlertThreshold,
		HistoryLimit:   cfg.HistoryCapacity,
		RefreshEvery:   cfg.RefreshEvery(),
	})
	facade.Start(ctx)
	defer facade.Stop()

	var pinger healthhandler.Pinger
	if conn != nil {
		pinger = conn
	}
	srv := server.New(cfg.HTTPAddr, serviceName, server.Deps{
		Store:  st,
		Repo:   repo,
		Pinger: pinger,
		Log:    appLog,
	})

	go func() {
		appLog.WithComponent("http").Infof("listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()

	appLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("http shutdown")
	}
	appLog.Info("stopped")
}
