// Command server runs the fiducia planning API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fiducia/internal/audit"
	"fiducia/internal/estate"
	estatehandler "fiducia/internal/estate/handler"
	estatemetrics "fiducia/internal/estate/metrics"
	"fiducia/internal/goal"
	goalhandler "fiducia/internal/goal/handler"
	goalstore "fiducia/internal/goal/store/goal"
	httpapi "fiducia/internal/http"
	"fiducia/internal/platform/config"
	"fiducia/internal/platform/httpserver"
	"fiducia/internal/platform/logger"
	"fiducia/internal/platform/metrics"
	"fiducia/internal/platform/postgres"
	platformredis "fiducia/internal/platform/redis"
	"fiducia/internal/platform/token"
	"fiducia/internal/rates"
	"fiducia/internal/residency"
	residencyhandler "fiducia/internal/residency/handler"
	residencymetrics "fiducia/internal/residency/metrics"
	"fiducia/internal/tax"
	taxhandler "fiducia/internal/tax/handler"
)

func main() {
	log := logger.New()
	cfg := config.FromEnv()

	if err := run(log, cfg); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := loadRates(cfg)
	if err != nil {
		return err
	}

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		for _, ddl := range []string{goalstore.Schema, audit.Schema} {
			if _, err := db.ExecContext(ctx, ddl); err != nil {
				return err
			}
		}
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}

	var auditStore audit.Store
	if db != nil {
		auditStore = audit.NewPostgres(db)
	} else {
		auditStore = audit.NewInMemory()
	}
	recorder := audit.NewRecorder(auditStore, log)

	var goals goal.Store
	if db != nil {
		goals = goalstore.NewPostgres(db)
	} else {
		log.Warn("no postgres configured, goals are held in memory")
		goals = goalstore.NewInMemory()
	}

	httpMetrics := metrics.New()
	residencySvc := residency.NewService(registry, log,
		residency.WithRecorder(recorder),
		residency.WithMetrics(residencymetrics.New()),
	)
	taxSvc := tax.NewService(registry, log, tax.WithRecorder(recorder))
	estateSvc := estate.NewService(registry, log,
		estate.WithRecorder(recorder),
		estate.WithMetrics(estatemetrics.New()),
	)
	goalSvc := goal.NewService(goals, log, goal.WithRecorder(recorder))

	router := httpapi.New(httpapi.Deps{
		Logger:    log,
		Metrics:   httpMetrics,
		Registry:  registry,
		Validator: token.NewValidator(cfg.JWTSigningKey),

		Residency: residencyhandler.New(residencySvc, log),
		Tax:       taxhandler.New(taxSvc, log),
		Estate:    estatehandler.New(estateSvc, log),
		Goals:     goalhandler.New(goalSvc, log),

		Redis:              redisClient,
		DB:                 db,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	server := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return err
		}
		defer publisher.Close()

		worker := audit.NewWorker(auditStore, publisher, log)
		g.Go(func() error {
			return worker.Run(gctx)
		})
	} else {
		log.Warn("no kafka brokers configured, audit events stay in the outbox")
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func loadRates(cfg config.Config) (*rates.Registry, error) {
	if cfg.RatesPath == "" {
		return rates.DefaultRegistry(), nil
	}
	return rates.LoadFile(cfg.RatesPath)
}
