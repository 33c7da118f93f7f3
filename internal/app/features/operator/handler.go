// internal/app/features/operator/handler.go
package operator

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/system/authz"
	"github.com/plantfloor/sparetrack/internal/app/system/sync"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/app/system/views"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Handler serves the operator status board. It reads only from the live
// synchronizers; it never queries the store directly.
type Handler struct {
	Parts    *sync.Parts
	Settings *sync.Settings
	Log      *zap.Logger
}

func NewHandler(parts *sync.Parts, settings *sync.Settings, logger *zap.Logger) *Handler {
	return &Handler{Parts: parts, Settings: settings, Log: logger}
}

type dashboardVM struct {
	viewdata.BaseVM
	Plant   string
	Tab     views.Tab
	Filters views.TextFilters
	Parts   []models.SparePart
	Counts  views.Counts

	// Loading is true before the first snapshot arrives; Stale is true
	// when the feed has errored and the board shows last-good data.
	Loading bool
	Stale   bool

	AutoScrollEnabled bool
	AutoScrollSpeed   float64
}

// ServeDashboard handles GET /dashboard. Hidden records are never shown
// here regardless of query parameters.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
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
		ShowHidden: false,
	}

	snapshot, haveData := h.Parts.Snapshot()
	state := h.Parts.State()

	derived := views.Derive(snapshot, crit)
	base := views.Derive(snapshot, views.Criteria{Plant: plant, Tab: views.TabAll})

	data := dashboardVM{
		BaseVM:  viewdata.NewBaseVM(r, "Status Board", "/"),
		Plant:   plant,
		Tab:     crit.Tab,
		Filters: crit.Text,
		Parts:   derived,
		Counts:  views.CountByStatus(base),
		Loading: !haveData,
		Stale:   state == sync.StateError,
	}

	if settings, ok := h.Settings.Snapshot(); ok {
		data.AutoScrollEnabled = settings.AutoScrollEnabled
		data.AutoScrollSpeed = sync.ScrollSpeed(settings)
	} else {
		data.AutoScrollEnabled = false
		data.AutoScrollSpeed = models.DefaultAutoScrollSpeed
	}

	if data.Stale {
		h.Log.Warn("dashboard serving stale data", zap.Error(h.Parts.Err()), zap.String("plant", plant))
	}

	templates.Render(w, r, "dashboard", data)
}
