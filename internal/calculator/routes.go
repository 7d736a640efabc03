package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the calculation endpoints onto the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/calculate", h.Calculate)
	r.Get("/operations", h.Operations)
}
