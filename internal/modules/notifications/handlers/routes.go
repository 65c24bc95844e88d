package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all notification routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Patch("/{id}/read", h.HandleMarkRead)
		r.Delete("/{id}", h.HandleDelete)
	})
}
