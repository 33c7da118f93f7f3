// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes wires the sign-in endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	return r
}
