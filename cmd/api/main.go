package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	"github.com/BruksfildServices01/barber-pos/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-pos/internal/db"
	payroll "github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/infra/cache"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	"github.com/BruksfildServices01/barber-pos/internal/infra/storage"
	"github.com/BruksfildServices01/barber-pos/internal/logger"
	"github.com/BruksfildServices01/barber-pos/internal/middleware"
	"github.com/BruksfildServices01/barber-pos/internal/routes"
	"github.com/BruksfildServices01/barber-pos/internal/validators"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Init(cfg.LogLevel, cfg.IsDevelopment())

	// ======================================================
	// 💰 PAYROLL POLICY (no default, refuse to boot without one)
	// ======================================================
	variant, err := payroll.ParseVariant(cfg.Commission.Policy)
	if err != nil {
		log.Fatal().Err(err).Msg("COMMISSION_POLICY")
	}
	policy := payroll.Policy{
		Variant:   variant,
		Rate:      cfg.Commission.Rate,
		FixedBase: cfg.Commission.FixedBase,
		Threshold: cfg.Commission.Threshold,
	}
	if err := policy.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid commission policy")
	}

	if err := validators.Register(); err != nil {
		log.Fatal().Err(err).Msg("register validators")
	}

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	var reportCache *cache.ReportCache
	if cfg.RedisAddr != "" {
		reportCache = cache.NewReportCache(
			cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
			cfg.ReportCacheTTL,
		)
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := reportCache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, reports will miss the cache")
		}
		cancel()
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, events disabled")
		} else {
			publisher = p
		}
	}

	objectStore := storage.NewS3Store(cfg.S3)
	if objectStore == nil {
		log.Info().Msg("S3_BUCKET not set, photo upload and payroll archive disabled")
	}

	auditDispatcher := audit.NewDispatcher(audit.New(db))

	// ======================================================
	// 🌍 HTTP
	// ======================================================
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Config:    cfg,
		Cache:     reportCache,
		Publisher: publisher,
		Storage:   objectStore,
		Auditor:   auditDispatcher,
		Policy:    policy,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("commission_policy", string(variant)).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// ======================================================
	// 🛑 GRACEFUL SHUTDOWN
	// ======================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	auditDispatcher.Close()
	if err := publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("close publisher")
	}
	if err := reportCache.Close(); err != nil {
		log.Warn().Err(err).Msg("close redis")
	}
	dbpkg.Close(db)
}
