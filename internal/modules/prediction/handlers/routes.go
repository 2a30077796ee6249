package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers prediction pipeline routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/predictions", func(r chi.Router) {
		r.Get("/", h.HandleGenerate)
		r.Get("/latest", h.HandleLatest)
	})

	r.Get("/api/backtest", h.HandleBacktest)
	r.Get("/api/validation", h.HandleValidation)
}
