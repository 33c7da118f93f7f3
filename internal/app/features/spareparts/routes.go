// internal/app/features/spareparts/routes.go
package spareparts

import "github.com/go-chi/chi/v5"

// Routes wires the admin spare-part endpoints. The whole subtree is
// mounted behind RequireRole("admin") in bootstrap.
func Routes(h *AdminHandler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/new", h.ServeNew)
	r.Post("/", h.HandleCreate)

	r.Get("/export.xlsx", h.ServeExport)
	r.Get("/template.xlsx", h.ServeTemplate)
	r.Get("/import", h.ServeImport)
	r.Post("/import", h.HandleImport)

	r.Get("/purge", h.ServePurge)
	r.Post("/purge", h.HandlePurge)

	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}", h.HandleUpdate)
	r.Post("/{id}/delete", h.HandleDelete)
	r.Post("/{id}/step", h.HandleToggleStep)
	r.Post("/{id}/hidden", h.HandleToggleHidden)

	return r
}
