// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/auth"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Handler serves the landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// ServeRoot handles GET /. Signed-in users go straight to their
// dashboard; visitors see the landing page.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		if u.Role == models.RoleAdmin {
			http.Redirect(w, r, "/spareparts", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	data := struct {
		viewdata.BaseVM
	}{
		BaseVM: viewdata.NewBaseVM(r, "Welcome", "/"),
	}

	templates.Render(w, r, "home", data)
}
