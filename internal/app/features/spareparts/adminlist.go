// internal/app/features/spareparts/adminlist.go
package spareparts

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/plantfloor/sparetrack/internal/app/system/authz"
	"github.com/plantfloor/sparetrack/internal/app/system/timeouts"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/app/system/views"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

type listVM struct {
	viewdata.BaseVM
	Plant      string
	Tab        views.Tab
	Filters    views.TextFilters
	ShowHidden bool
	Parts      []models.SparePart
	Counts     views.Counts
	Notice     string
}

// ServeList displays the admin table of spare parts for one plant.
// Authorization: RequireRole("admin") middleware in routes.go ensures
// only admins reach this handler.
func (h *AdminHandler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	plant := q.Get("plant")
	if !models.ValidPlant(plant) {
		plant = authz.UserPlant(r)
	}

	crit := views.Criteria{
		Plant: plant,
		Tab:   views.ParseTab(q.Get("tab")),
		Text: views.TextFilters{
			Name:          q.Get("name"),
			Specification: q.Get("specification"),
			Machine:       q.Get("machine"),
			Vendor:        q.Get("vendor"),
		},
		ShowHidden: q.Get("hidden") == "1",
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	snapshot, err := h.store().Snapshot(ctx)
	if err != nil {
		h.ErrLog.Handle(w, r, err, "list spare parts")
		return
	}

	base := views.Derive(snapshot, views.Criteria{
		Plant: plant, Tab: views.TabAll, ShowHidden: crit.ShowHidden,
	})

	data := listVM{
		BaseVM:     viewdata.NewBaseVM(r, "Spare Parts", "/"),
		Plant:      plant,
		Tab:        crit.Tab,
		Filters:    crit.Text,
		ShowHidden: crit.ShowHidden,
		Parts:      views.Derive(snapshot, crit),
		Counts:     views.CountByStatus(base),
		Notice:     q.Get("notice"),
	}
	templates.Render(w, r, "spareparts_list", data)
}
