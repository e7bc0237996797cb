// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"membership-entitlement/internal/application"
	"membership-entitlement/internal/config"
	"membership-entitlement/internal/domain/ports/repository"
	pg "membership-entitlement/internal/infra/db/postgres"
	"membership-entitlement/internal/infra/logging"
	"membership-entitlement/internal/infra/metrics"
	"membership-entitlement/internal/infra/notify"
	red "membership-entitlement/internal/infra/redis"
	"membership-entitlement/internal/infra/sched"
	"membership-entitlement/internal/infra/web"
	"membership-entitlement/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("developer mode enabled")
	}

	metrics.MustRegister()
	metrics.MustRegisterAdmin()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.PoolSize))
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Repositories ----
	var userRepo repository.UserRepository = pg.NewUserRepo(pool)
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		userRepo = pg.NewUserRepoCacheDecorator(userRepo, redisClient, cfg.Redis.TTL)
		logger.Info().Msg("user profile cache enabled")
	}
	codeRepo := pg.NewActivationCodeRepo(pool)
	redemptionRepo := pg.NewRedemptionRepo(pool)
	orgRepo := pg.NewOrganizationRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Use cases ----
	activationUC := usecase.NewActivationCodeUseCase(codeRepo, userRepo, redemptionRepo, tm, cfg.Codes.GenerateRetries, logger)
	capacityUC := usecase.NewCapacityUseCase()

	// ---- Notifier & facade ----
	notifier := notify.NewLog(logger)
	facade := application.NewEntitlementFacade(userRepo, orgRepo, activationUC, capacityUC, notifier, logger)

	// ---- Background expiry sweeper ----
	sweeper := sched.NewExpirySweeper(cfg.Scheduler.SweepInterval, userRepo, notifier, logger)
	go func() {
		if err := sweeper.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("expiry sweeper stopped")
		}
	}()

	// ---- Admin HTTP API ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", cfg.Admin.SessionTTL)
	server := web.NewServer(facade, auth, cfg.Admin.APIKey, logger)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().Int("port", cfg.Admin.Port).Msg("admin API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("admin API failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
