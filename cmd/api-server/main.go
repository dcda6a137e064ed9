package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/api"
	"github.com/evercare-health/companion-api/internal/booking"
	"github.com/evercare-health/companion-api/internal/calendar"
	"github.com/evercare-health/companion-api/internal/config"
	"github.com/evercare-health/companion-api/internal/db"
	"github.com/evercare-health/companion-api/internal/falldetect"
	"github.com/evercare-health/companion-api/internal/kv"
	"github.com/evercare-health/companion-api/internal/logging"
	"github.com/evercare-health/companion-api/internal/medication"
	"github.com/evercare-health/companion-api/internal/notify"
	"github.com/evercare-health/companion-api/internal/provider"
	redisclient "github.com/evercare-health/companion-api/internal/redis"
	"github.com/evercare-health/companion-api/internal/settings"
)

const version = "0.4.0"

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

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("version", version))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	// Connect Redis
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

	registry, err := provider.NewRegistry(logger)
	if err != nil {
		logger.Fatal("provider registry error", zap.Error(err))
	}

	store := kv.NewRedisStore(rdb)
	ledger := booking.NewKVLedger(store, cfg.LedgerKey, logger)
	locker := redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)
	events := booking.NewPgEventLog(pgPool)
	cal := calendar.NewLogCalendar(logger)
	reminders := notify.NewRedisScheduler(rdb, logger)

	bookingSvc := booking.NewService(registry, ledger, locker, events, cal, reminders, cfg.ReminderLead, logger)
	fallsSvc := falldetect.NewService(falldetect.NewPgRepository(pgPool), logger)
	settingsStore := settings.NewStore(store, cfg.SettingsKey, logger)
	medsSvc := medication.NewService(medication.NewStore(store, cfg.MedicationsKey, logger), settingsStore, reminders, logger)

	router := api.NewRouter(api.RouterConfig{
		Booking:     bookingSvc,
		Falls:       fallsSvc,
		Medications: medsSvc,
		Settings:    settingsStore,
		PgPool:      pgPool,
		Redis:       rdb,
		Log:         logger,
		Env:         cfg.Env,
		Version:     version,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()

	logger.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
