package main // Entry point package

import (
	"context"   // shutdown deadline
	"errors"    // distinguishes a closed server from a failed one
	"net/http"  // http.ErrServerClosed
	"os"        // signal types
	"os/signal" // graceful shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // shutdown timeout

	"github.com/prometheus/client_golang/prometheus"            // metrics registry
	"github.com/prometheus/client_golang/prometheus/collectors" // process and Go runtime collectors

	"github.com/iliyamo/travel-marketplace/internal/config"   // Internal config loader
	"github.com/iliyamo/travel-marketplace/internal/curation" // area curation
	"github.com/iliyamo/travel-marketplace/internal/database" // connection pool and migrations
	"github.com/iliyamo/travel-marketplace/internal/logger"   // zerolog setup
	"github.com/iliyamo/travel-marketplace/internal/metrics"  // Prometheus collectors
	"github.com/iliyamo/travel-marketplace/internal/queue"    // activity consumer
	"github.com/iliyamo/travel-marketplace/internal/repository"
	"github.com/iliyamo/travel-marketplace/internal/router"  // Internal router setup
	"github.com/iliyamo/travel-marketplace/internal/service" // activity publisher
	"github.com/iliyamo/travel-marketplace/internal/utils"   // token service
)

func main() {
	cfg := config.Load() // Load environment config
	log := logger.New(cfg.LogLevel, cfg.Env)

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(database.DSN(cfg)); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		log.Info().Msg("migrations applied")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	tokens, err := utils.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTTL())
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting disabled")
	} else {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pub service.Publisher = service.NopPublisher{}
	if cfg.EventsEnabled && cfg.AMQPURL != "" {
		pub = &service.AMQPPublisher{URL: cfg.AMQPURL}
		auditFile, err := queue.OpenAuditFile("logs")
		if err != nil {
			log.Fatal().Err(err).Msg("open activity log")
		}
		defer auditFile.Close()
		consumer := &queue.Consumer{URL: cfg.AMQPURL, Audit: queue.NewAuditLog(auditFile), Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("activity consumer stopped")
			}
		}()
	}
	notifier := service.NewNotifier(pub, log, collector)

	writer := curation.NewOpenAIWriter(cfg.OpenAIKey, cfg.OpenAIModel, log)
	curator := curation.NewService(repository.NewAreaRepo(db), writer, log)

	e := router.New(router.Deps{
		Cfg:       cfg,
		RateLimit: config.LoadRateLimitConfig(),
		DB:        db,
		Redis:     rdb,
		Tokens:    tokens,
		Notifier:  notifier,
		Curator:   curator,
		Metrics:   collector,
		Gatherer:  reg,
		Log:       log,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	notifier.Wait()
}
