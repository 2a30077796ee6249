// Package handlers provides the HTTP surface for the prediction
// pipeline: generation, latest snapshot, backtesting, and validation.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/playwhe/internal/domain"
	"github.com/aristath/playwhe/internal/modules/backtest"
	"github.com/aristath/playwhe/internal/modules/prediction"
	"github.com/aristath/playwhe/internal/modules/snapshots"
	"github.com/aristath/playwhe/internal/modules/validation"
	"github.com/rs/zerolog"
)

// HistorySource fetches the draw log for the backtest and validation
// endpoints.
type HistorySource interface {
	History() ([]domain.DrawRecord, error)
}

// Handler handles prediction pipeline HTTP requests
type Handler struct {
	service   *prediction.Service
	snapshots *snapshots.Repository
	history   HistorySource
	validator *validation.Validator
	log       zerolog.Logger
}

// NewHandler creates a new prediction handler
func NewHandler(service *prediction.Service, snapshotRepo *snapshots.Repository, history HistorySource, validator *validation.Validator, log zerolog.Logger) *Handler {
	return &Handler{
		service:   service,
		snapshots: snapshotRepo,
		history:   history,
		validator: validator,
		log:       log.With().Str("handler", "prediction").Logger(),
	}
}

// HandleGenerate handles GET /api/predictions. Every generated set is
// also stored as a snapshot; a snapshot write failure is logged but
// does not fail the request.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	set, err := h.service.Generate()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to generate predictions: "+err.Error())
		return
	}

	if err := h.snapshots.Save(set); err != nil {
		h.log.Error().Err(err).Msg("Failed to store prediction snapshot")
	}

	h.writeJSON(w, http.StatusOK, set)
}

// HandleLatest handles GET /api/predictions/latest
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	set, err := h.snapshots.Latest()
	if err != nil {
		if errors.Is(err, snapshots.ErrNoSnapshot) {
			h.writeError(w, http.StatusNotFound, "No predictions generated yet")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "Failed to load latest predictions: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, set)
}

// HandleBacktest handles GET /api/backtest. An optional window query
// parameter overrides the default sliding window size.
func (h *Handler) HandleBacktest(w http.ResponseWriter, r *http.Request) {
	windowSize := backtest.DefaultWindowSize
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeError(w, http.StatusBadRequest, "Invalid window parameter")
			return
		}
		windowSize = parsed
	}

	history, err := h.history.History()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch draw history: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, backtest.Run(history, windowSize))
}

// HandleValidation handles GET /api/validation
func (h *Handler) HandleValidation(w http.ResponseWriter, r *http.Request) {
	history, err := h.history.History()
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Failed to fetch draw history: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, h.validator.Validate(history))
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
