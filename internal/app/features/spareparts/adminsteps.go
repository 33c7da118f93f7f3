// internal/app/features/spareparts/adminsteps.go
package spareparts

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/app/system/timeouts"
)

// HandleToggleStep marks one progress step done or not done. The store
// enforces step ordering (and the urgency waiver), so a stale form post
// cannot skip ahead; the rejection comes back as a 400 with the reason.
func (h *AdminHandler) HandleToggleStep(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Handle(w, r, apperr.NotFound("spare part"), "toggle step")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	step := r.PostFormValue("step")
	done := r.PostFormValue("done") == "1"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.store().SetStep(ctx, id, step, done); err != nil {
		h.ErrLog.Handle(w, r, err, "toggle step")
		return
	}

	h.Log.Info("step toggled",
		zap.String("id", id.Hex()), zap.String("step", step), zap.Bool("done", done))
	redirectBack(w, r)
}

// HandleToggleHidden flips the archive flag that removes a record from
// operator views without deleting it.
func (h *AdminHandler) HandleToggleHidden(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Handle(w, r, apperr.NotFound("spare part"), "toggle hidden")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	hidden := r.PostFormValue("hidden") == "1"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.store().SetHidden(ctx, id, hidden); err != nil {
		h.ErrLog.Handle(w, r, err, "toggle hidden")
		return
	}
	redirectBack(w, r)
}

// redirectBack returns to the list view the action came from, keeping
// the caller's plant/tab/filter selection intact.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, httpnav.ResolveBackURL(r, "/spareparts"), http.StatusSeeOther)
}
