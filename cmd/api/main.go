package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mitraportal/partner-system/internal/api"
	"github.com/mitraportal/partner-system/internal/core/service"
	"github.com/mitraportal/partner-system/internal/infrastructure/config"
	"github.com/mitraportal/partner-system/internal/infrastructure/db/postgres"
	redisdb "github.com/mitraportal/partner-system/internal/infrastructure/db/redis"
	"github.com/mitraportal/partner-system/internal/infrastructure/email"
	"github.com/mitraportal/partner-system/internal/infrastructure/queue"
	"github.com/mitraportal/partner-system/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "partner-api"})
		bootLog := logger.Get()
		bootLog.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Service: "partner-api",
		Pretty:  !cfg.Production(),
	})

	// --- Infrastructure ---
	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	// --- Repositories and collaborators ---
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	restaurantRepo := postgres.NewRestaurantRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	permCache := redisdb.NewPermissionCache(rdb)

	mailer := email.NewSMTPSender(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		From:     cfg.SMTP.From,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		StartTLS: true,
	})

	audit := queue.NewAuditDispatcher(0, auditRepo, logger.With("audit"))
	audit.Start(ctx)

	// --- Services ---
	codec, err := service.NewTokenCodec(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("token codec")
	}

	authService := service.NewAuthService(userRepo, sessionRepo, codec, permCache, cfg.BcryptCost)
	userService := service.NewUserService(userRepo, mailer, audit, cfg.BaseURL, cfg.BcryptCost)
	restaurantService := service.NewRestaurantService(restaurantRepo, userRepo)

	// --- HTTP ---
	e := api.NewRouter(api.RouterDeps{
		AuthService:       authService,
		UserService:       userService,
		RestaurantService: restaurantService,
		TokenCodec:        codec,
		DB:                db,
		Redis:             rdb,
		Log:               log,
		Production:        cfg.Production(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	cancel()
	audit.Wait()
	log.Info().Msg("stopped")
}
