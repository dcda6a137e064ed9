package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/config"
	"github.com/evercare-health/companion-api/internal/logging"
	"github.com/evercare-health/companion-api/internal/notify"
	redisclient "github.com/evercare-health/companion-api/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("reminder-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	scheduler := notify.NewRedisScheduler(rdb, logger)

	// Run once at startup
	runOnce(rootCtx, scheduler, logger)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			logger.Info("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, scheduler, logger)
		}
	}
}

func runOnce(ctx context.Context, scheduler *notify.RedisScheduler, logger *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	start := time.Now()
	due, err := scheduler.Due(runCtx, start)
	if err != nil {
		// Deliver whatever came back before giving up on this pass.
		logger.Error("reminder scan error", zap.Error(err))
	}

	// Delivery is a structured log line; the device picks reminders up from
	// there. Push transport is out of scope.
	for _, rem := range due {
		logger.Info("reminder due",
			zap.String("id", rem.ID),
			zap.String("title", rem.Title),
			zap.String("message", rem.Message),
			zap.Time("fire_at", rem.FireAt))
	}

	logger.Info("reminder run complete",
		zap.Int("delivered", len(due)),
		zap.Duration("took", time.Since(start)))
}
