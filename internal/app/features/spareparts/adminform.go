// internal/app/features/spareparts/adminform.go
package spareparts

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/app/system/authz"
	"github.com/plantfloor/sparetrack/internal/app/system/htmlsanitize"
	"github.com/plantfloor/sparetrack/internal/app/system/timeouts"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

type formVM struct {
	viewdata.BaseVM
	Part   models.SparePart
	IsEdit bool
	Error  string
}

// ServeNew renders the blank order form.
func (h *AdminHandler) ServeNew(w http.ResponseWriter, r *http.Request) {
	data := formVM{
		BaseVM: viewdata.NewBaseVM(r, "New Spare Part", "/spareparts"),
		Part: models.SparePart{
			Plant:     authz.UserPlant(r),
			Quantity:  1,
			OrderDate: time.Now(),
		},
	}
	templates.Render(w, r, "spareparts_form", data)
}

// HandleCreate inserts a new order from the submitted form.
func (h *AdminHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	part, err := partFromForm(r.PostForm)
	if err != nil {
		h.renderForm(w, r, part, false, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.store().Create(ctx, part)
	if err != nil {
		if apperr.IsValidation(err) {
			h.renderForm(w, r, part, false, err.Error())
			return
		}
		h.ErrLog.Handle(w, r, err, "create spare part")
		return
	}

	h.Log.Info("spare part created",
		zap.String("id", created.ID.Hex()), zap.String("plant", created.Plant))
	redirectToList(w, r, created.Plant, "Spare part created.")
}

// ServeEdit renders the form pre-filled with an existing record.
func (h *AdminHandler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Handle(w, r, apperr.NotFound("spare part"), "edit spare part")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	part, err := h.store().GetByID(ctx, id)
	if err != nil {
		h.ErrLog.Handle(w, r, err, "edit spare part")
		return
	}
	h.renderForm(w, r, part, true, "")
}

// HandleUpdate applies the submitted form to an existing record.
func (h *AdminHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.Handle(w, r, apperr.NotFound("spare part"), "update spare part")
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	part, parseErr := partFromForm(r.PostForm)
	part.ID = id
	if parseErr != nil {
		h.renderForm(w, r, part, true, parseErr.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.store().Update(ctx, id, part); err != nil {
		if apperr.IsValidation(err) {
			h.renderForm(w, r, part, true, err.Error())
			return
		}
		h.ErrLog.Handle(w, r, err, "update spare part")
		return
	}

	redirectToList(w, r, part.Plant, "Spare part updated.")
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, part models.SparePart, isEdit bool, errMsg string) {
	title := "New Spare Part"
	if isEdit {
		title = "Edit Spare Part"
	}
	if errMsg != "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	templates.Render(w, r, "spareparts_form", formVM{
		BaseVM: viewdata.NewBaseVM(r, title, "/spareparts"),
		Part:   part,
		IsEdit: isEdit,
		Error:  errMsg,
	})
}

// partFromForm builds a SparePart from form values. The store performs
// its own validation; this only rejects values that cannot be parsed.
func partFromForm(form url.Values) (models.SparePart, error) {
	sp := models.SparePart{
		Name:            htmlsanitize.SanitizeText(strings.TrimSpace(form.Get("name"))),
		Specification:   htmlsanitize.SanitizeText(strings.TrimSpace(form.Get("specification"))),
		Machine:         htmlsanitize.SanitizeText(strings.TrimSpace(form.Get("machine"))),
		OrderedBy:       strings.TrimSpace(form.Get("ordered_by")),
		Vendor:          htmlsanitize.SanitizeText(strings.TrimSpace(form.Get("vendor"))),
		Plant:           form.Get("plant"),
		WorkOrderNumber: strings.TrimSpace(form.Get("work_order_number")),
		Urgency:         form.Get("urgency"),
		Notes:           htmlsanitize.Sanitize(form.Get("notes")),

		DocumentComplete:     form.Get("document") == "on",
		OnProcessComplete:    form.Get("on_process") == "on",
		ArrivedComplete:      form.Get("arrived") == "on",
		InstallationComplete: form.Get("installation") == "on",
		HiddenFromOperator:   form.Get("hidden") == "on",
	}

	if v := strings.TrimSpace(form.Get("quantity")); v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil {
			return sp, apperr.Validation("quantity must be a whole number")
		}
		sp.Quantity = qty
	}

	if v := strings.TrimSpace(form.Get("order_date")); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return sp, apperr.Validation("order date must be YYYY-MM-DD")
		}
		sp.OrderDate = d
	}

	return sp, nil
}

func redirectToList(w http.ResponseWriter, r *http.Request, plant, notice string) {
	dest := "/spareparts?plant=" + url.QueryEscape(plant)
	if notice != "" {
		dest += "&notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}
