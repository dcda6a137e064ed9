package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/evercare-health/companion-api/internal/booking"
	"github.com/evercare-health/companion-api/internal/falldetect"
	"github.com/evercare-health/companion-api/internal/medication"
	"github.com/evercare-health/companion-api/internal/settings"
)

func listProvidersHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Providers())
	}
}

func availabilityHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID := chi.URLParam(r, "id")

		byDay, err := svc.Resolve(r.Context(), providerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if byDay == nil {
			byDay = map[string][]booking.Slot{}
		}

		writeJSON(w, http.StatusOK, byDay)
	}
}

func bookAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.ProviderID == "" {
			writeError(w, http.StatusBadRequest, "invalid_provider_id", "provider_id is required")
			return
		}
		if req.SlotID == "" {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slot_id is required")
			return
		}

		appt, err := svc.Book(r.Context(), req.ProviderID, req.SlotID)
		if err != nil {
			handleBookError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrSlotNotFound):
		writeError(w, http.StatusNotFound, "slot_not_found", err.Error())
	case errors.Is(err, booking.ErrSlotNotOpen):
		writeError(w, http.StatusConflict, "slot_not_open", err.Error())
	case errors.Is(err, booking.ErrSlotAlreadyBooked):
		writeError(w, http.StatusConflict, "slot_already_booked", err.Error())
	case errors.Is(err, booking.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func listAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		part, err := svc.PartitionAt(r.Context(), time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		switch r.URL.Query().Get("when") {
		case "upcoming":
			writeJSON(w, http.StatusOK, map[string][]booking.Appointment{"upcoming": part.Upcoming})
		case "past":
			writeJSON(w, http.StatusOK, map[string][]booking.Appointment{"past": part.Past})
		default:
			writeJSON(w, http.StatusOK, part)
		}
	}
}

func nextAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		providerID := r.URL.Query().Get("provider_id")

		appt, err := svc.NextUpcoming(r.Context(), time.Now(), providerID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if appt == nil {
			writeError(w, http.StatusNotFound, "no_upcoming_appointment", "no upcoming appointment found")
			return
		}

		writeJSON(w, http.StatusOK, appt)
	}
}

func clearAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearAll(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func cancelAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slotID := chi.URLParam(r, "slotId")

		if err := svc.Cancel(r.Context(), slotID); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func recordFallHandler(svc *falldetect.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ev falldetect.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		saved, err := svc.Record(r.Context(), ev)
		if err != nil {
			if errors.Is(err, falldetect.ErrInvalidEvent) {
				writeError(w, http.StatusBadRequest, "invalid_fall_event", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, saved)
	}
}

func listFallsHandler(svc *falldetect.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
				return
			}
			limit = n
		}

		events, err := svc.ListRecent(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if events == nil {
			events = []falldetect.Event{}
		}

		writeJSON(w, http.StatusOK, events)
	}
}

func addMedicationHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var med medication.Medication
		if err := json.NewDecoder(r.Body).Decode(&med); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		saved, err := svc.Add(r.Context(), med)
		if err != nil {
			if errors.Is(err, medication.ErrInvalidMedication) {
				writeError(w, http.StatusBadRequest, "invalid_medication", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, saved)
	}
}

func listMedicationsHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meds, err := svc.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		if meds == nil {
			meds = []medication.Medication{}
		}

		writeJSON(w, http.StatusOK, meds)
	}
}

func removeMedicationHandler(svc *medication.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_medication_id", "id must be a UUID")
			return
		}

		if err := svc.Remove(r.Context(), id); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func getSettingsHandler(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := store.Load(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func putSettingsHandler(store *settings.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg settings.Settings
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := store.Save(r.Context(), cfg); err != nil {
			if errors.Is(err, settings.ErrInvalid) {
				writeError(w, http.StatusBadRequest, "invalid_settings", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, cfg)
	}
}
