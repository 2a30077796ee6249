// Package handlers provides HTTP handlers for the draw store.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/draws"
	"github.com/rs/zerolog"
)

// Handler handles draw store HTTP requests
type Handler struct {
	service *draws.Service
	log     zerolog.Logger
}

// NewHandler creates a new draws handler
func NewHandler(service *draws.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "draws").Logger(),
	}
}

// HandleRecordDraw handles POST /api/draws
func (h *Handler) HandleRecordDraw(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Number     int     `json:"number"`
		TimeSlot   string  `json:"time_slot"`
		OccurredAt *string `json:"occurred_at,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	slot, err := domain.ParseTimeSlot(request.TimeSlot)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	occurredAt := time.Now().UTC()
	if request.OccurredAt != nil {
		occurredAt, err = time.Parse(time.RFC3339, *request.OccurredAt)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid occurred_at: "+err.Error())
			return
		}
	}

	result, err := h.service.Record(request.Number, slot, occurredAt)
	if err != nil {
		if errors.Is(err, domain.ErrNumberOutOfRange) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to record draw: "+err.Error())
		return
	}

	status := http.StatusCreated
	if result.FrequencyStale {
		// Partial write: the draw is in but counts drifted. Still a
		// success, with the warning carried in the body.
		h.log.Warn().Int("number", request.Number).Msg("Draw recorded with stale frequency")
	}
	h.writeJSON(w, status, result)
}

// HandleListDraws handles GET /api/draws
func (h *Handler) HandleListDraws(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list draws: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"draws": history,
		"total": len(history),
	})
}

// HandleListFrequencies handles GET /api/frequencies
func (h *Handler) HandleListFrequencies(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Frequencies()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to list frequencies: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"frequencies": entries,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
