// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

// Routes wires the display-settings endpoints. Mounted behind
// RequireRole("admin") in bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSave)
	return r
}
