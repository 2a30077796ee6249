// Package handlers provides the HTTP surface for bulk draw ingestion.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aristath/playwhe/internal/modules/ingestion"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles bulk ingestion HTTP requests
type Handler struct {
	service *ingestion.Service
	log     zerolog.Logger
}

// NewHandler creates a new ingestion handler
func NewHandler(service *ingestion.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "ingestion").Logger(),
	}
}

// RegisterRoutes registers ingestion routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/ingest", h.HandleImport)
}

// HandleImport handles POST /api/ingest. The body is the raw bulk text
// block, either as text/plain or as {"data": "..."} JSON.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Failed to read request body: "+err.Error())
		return
	}

	raw := string(body)
	if r.Header.Get("Content-Type") == "application/json" {
		var request struct {
			Data string `json:"data"`
		}
		if err := json.Unmarshal(body, &request); err != nil {
			h.writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
		raw = request.Data
	}

	if raw == "" {
		h.writeError(w, http.StatusBadRequest, "Empty import payload")
		return
	}

	result, err := h.service.Import(raw)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "Import failed: "+err.Error())
		return
	}

	h.writeJSON(w, http.StatusOK, result)
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
