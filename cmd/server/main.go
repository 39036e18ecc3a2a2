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

	"go.uber.org/zap"

	"shipyard-monitor/backend/config"
	"shipyard-monitor/backend/internal/api/handler"
	"shipyard-monitor/backend/internal/api/router"
	"shipyard-monitor/backend/internal/repository"
	"shipyard-monitor/backend/internal/scheduler"
	"shipyard-monitor/backend/internal/service"
	"shipyard-monitor/backend/pkg/clients/anthropic"
	"shipyard-monitor/backend/pkg/clients/telegram"
	"shipyard-monitor/backend/pkg/database"
	"shipyard-monitor/backend/pkg/jwt"
	applogger "shipyard-monitor/backend/pkg/logger"
	"shipyard-monitor/backend/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("SSK_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	// 4. Redis is optional: without it logout revocation and login rate limiting are off
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token blacklist and rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	deps := service.Deps{
		JWT:       jwtMgr,
		Telegram:  telegram.NewClient(cfg.Telegram),
		Anthropic: anthropic.NewClient(cfg.AI),
	}
	if rdb != nil {
		deps.Revoker = rdb
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, deps, logger)
	h := handler.NewHandler(svc)

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Auth.EnsureBootstrapAdmin(bootCtx); err != nil {
		logger.Fatal("failed to create bootstrap admin", zap.Error(err))
	}
	if _, err := svc.Notification.Sync(bootCtx); err != nil {
		logger.Warn("initial notification sync failed", zap.Error(err))
	}
	bootCancel()

	// 6. background notification sync
	sched := scheduler.New(cfg.Monitor.SyncSchedule, svc.Notification, applogger.Named(logger, "scheduler"))
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	// 7. HTTP server
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second, // report export waits on the analysis call
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 8. graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	sched.Stop(ctx)
	svc.Alert.Wait()

	if err := sqlDB.Close(); err != nil {
		logger.Warn("failed to close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
