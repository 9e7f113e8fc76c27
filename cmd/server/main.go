package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/seminarhub/backend/api/handler"
	"github.com/seminarhub/backend/internal/config"
	"github.com/seminarhub/backend/internal/infrastructure/journal"
	"github.com/seminarhub/backend/internal/infrastructure/monitor"
	pgInfra "github.com/seminarhub/backend/internal/infrastructure/postgres"
	redisInfra "github.com/seminarhub/backend/internal/infrastructure/redis"
	"github.com/seminarhub/backend/internal/middleware"
	"github.com/seminarhub/backend/internal/router"
	"github.com/seminarhub/backend/internal/services"
	"github.com/seminarhub/backend/internal/services/lifecycle"
	"github.com/seminarhub/backend/pkg/httpcontext"
	"github.com/seminarhub/backend/pkg/logger"
	"github.com/seminarhub/backend/repository/postgres"
	redisRepo "github.com/seminarhub/backend/repository/redis"
	accountUC "github.com/seminarhub/backend/usecase/account"
	directoryUC "github.com/seminarhub/backend/usecase/directory"
	enrollmentUC "github.com/seminarhub/backend/usecase/enrollment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	journalStore, err := journal.Open(cfg.Journal.Path, "journal")
	if err != nil {
		zapLogger.Fatal("failed to open journal store", zap.Error(err))
	}
	manager.Register("journal", func(ctx context.Context) error {
		return journalStore.Close()
	})

	mon := monitor.New(pool, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	janitor := services.NewJournalJanitor(journalStore, zapLogger, services.JanitorConfig{
		Interval:  cfg.Journal.SweepInterval,
		Retention: cfg.Journal.Retention,
	})
	janitor.Start()
	manager.Register("journal_janitor", func(ctx context.Context) error {
		janitor.Stop(ctx)
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	seminarRepo := postgres.NewSeminarRepository(pool)
	membershipRepo := postgres.NewMembershipRepository(pool)
	uow := postgres.NewUnitOfWork(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Auth.TokenTTL)
	listCache := redisRepo.NewCache(redisClient)

	recorder := services.NewJournalRecorder(journalStore, zapLogger)
	tokens := accountUC.NewTokenManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	directoryUseCase := directoryUC.New(seminarRepo, membershipRepo, userRepo, listCache, cfg.Cache.SeminarListTTL, zapLogger)
	enrollmentUseCase := enrollmentUC.New(uow, userRepo, directoryUseCase, recorder, zapLogger)
	accountUseCase := accountUC.New(userRepo, membershipRepo, seminarRepo, sessionRepo, tokens, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		User:    apiHandler.NewUserHandler(accountUseCase, ctxAdapter, zapLogger),
		Seminar: apiHandler.NewSeminarHandler(enrollmentUseCase, directoryUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.Auth(cfg.Auth.Secret, sessionRepo, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
