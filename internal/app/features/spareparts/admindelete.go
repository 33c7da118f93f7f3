// internal/app/features/spareparts/admindelete.go
package spareparts

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/plantfloor/sparetrack/internal/app/features/errors"
	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/app/system/authz"
	"github.com/plantfloor/sparetrack/internal/app/system/timeouts"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// HandleDelete removes a single record.
func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Handle(w, r, apperr.NotFound("spare part"), "delete spare part")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.store().Delete(ctx, id); err != nil {
		h.ErrLog.Handle(w, r, err, "delete spare part")
		return
	}

	h.Log.Info("spare part deleted", zap.String("id", id.Hex()))
	redirectBack(w, r)
}

type purgeVM struct {
	viewdata.BaseVM
	Plant string
	Count int64
}

// ServePurge shows the confirmation page for deleting every record in
// one plant.
func (h *AdminHandler) ServePurge(w http.ResponseWriter, r *http.Request) {
	plant := r.URL.Query().Get("plant")
	if !models.ValidPlant(plant) {
		plant = authz.UserPlant(r)
	}
	if !authz.CanManagePlant(r, plant) {
		uierrors.RenderForbidden(w, r, "You can only manage your own plant.", "/spareparts")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	count, err := h.store().Count(ctx, bson.M{"plant": plant})
	if err != nil {
		h.ErrLog.Handle(w, r, err, "purge confirmation")
		return
	}

	templates.Render(w, r, "spareparts_purge", purgeVM{
		BaseVM: viewdata.NewBaseVM(r, "Delete Plant Records", "/spareparts"),
		Plant:  plant,
		Count:  count,
	})
}

// HandlePurge deletes every record belonging to one plant. The form
// must echo the plant name back as confirmation; the admin must be
// allowed to manage that plant.
func (h *AdminHandler) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	plant := r.PostFormValue("plant")
	confirm := r.PostFormValue("confirm")

	if !authz.CanManagePlant(r, plant) {
		uierrors.RenderForbidden(w, r, "You can only manage your own plant.", "/spareparts")
		return
	}
	if confirm != plant {
		h.ErrLog.Handle(w, r, apperr.Validation("confirmation text does not match the plant name"), "purge plant")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	deleted, err := h.store().DeleteByPlant(ctx, plant)
	if err != nil {
		h.ErrLog.Handle(w, r, err, "purge plant")
		return
	}

	h.Log.Info("plant records purged",
		zap.String("plant", plant), zap.Int64("deleted", deleted))
	redirectToList(w, r, plant, "Deleted "+strconv.FormatInt(deleted, 10)+" records.")
}
