// internal/app/features/stream/routes.go
package stream

import "github.com/go-chi/chi/v5"

// Routes wires the SSE endpoints. Mounted behind RequireSignedIn in
// bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/spareparts", h.StreamParts)
	r.Get("/settings", h.StreamSettings)
	return r
}
