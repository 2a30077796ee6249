package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers draw store routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/draws", func(r chi.Router) {
		r.Post("/", h.HandleRecordDraw)
		r.Get("/", h.HandleListDraws)
	})

	r.Get("/api/frequencies", h.HandleListFrequencies)
}
