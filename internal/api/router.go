package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/evercare-health/companion-api/internal/booking"
	"github.com/evercare-health/companion-api/internal/falldetect"
	"github.com/evercare-health/companion-api/internal/medication"
	"github.com/evercare-health/companion-api/internal/settings"
)

type RouterConfig struct {
	Booking     *booking.Service
	Falls       *falldetect.Service
	Medications *medication.Service
	Settings    *settings.Store
	PgPool      *pgxpool.Pool
	Redis       *redis.Client
	Log         *zap.Logger
	Env         string
	Version     string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Providers and availability
	r.Get("/providers", listProvidersHandler(cfg.Booking))
	r.Get("/providers/{id}/availability", availabilityHandler(cfg.Booking))

	// Appointments
	r.Post("/appointments", bookAppointmentHandler(cfg.Booking))
	r.Get("/appointments", listAppointmentsHandler(cfg.Booking))
	r.Get("/appointments/next", nextAppointmentHandler(cfg.Booking))
	r.Delete("/appointments", clearAppointmentsHandler(cfg.Booking))
	r.Delete("/appointments/{slotId}", cancelAppointmentHandler(cfg.Booking))

	// Fall events
	r.Post("/falls", recordFallHandler(cfg.Falls))
	r.Get("/falls", listFallsHandler(cfg.Falls))

	// Medications
	r.Post("/medications", addMedicationHandler(cfg.Medications))
	r.Get("/medications", listMedicationsHandler(cfg.Medications))
	r.Delete("/medications/{id}", removeMedicationHandler(cfg.Medications))

	// User settings
	r.Get("/settings", getSettingsHandler(cfg.Settings))
	r.Put("/settings", putSettingsHandler(cfg.Settings))

	return r
}
