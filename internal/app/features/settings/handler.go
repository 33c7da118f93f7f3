// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/plantfloor/sparetrack/internal/app/features/errors"
	settingsstore "github.com/plantfloor/sparetrack/internal/app/store/settings"
	"github.com/plantfloor/sparetrack/internal/app/system/authz"
	"github.com/plantfloor/sparetrack/internal/app/system/timeouts"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Handler owns the admin display-settings page.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog}
}

type settingsVM struct {
	viewdata.BaseVM
	Settings models.AppSettings
	Speed    float64
	MinSpeed float64
	MaxSpeed float64
	Saved    bool
	Error    string
}

// ServeForm renders the current display settings.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	current, err := settingsstore.New(h.DB).Get(ctx)
	if err != nil {
		h.ErrLog.Handle(w, r, err, "load settings")
		return
	}
	h.renderForm(w, r, current, r.URL.Query().Get("saved") == "1", "")
}

// HandleSave applies the submitted settings. The speed is clamped to
// the allowed range rather than rejected, so a fat-fingered value still
// lands somewhere sane.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	store := settingsstore.New(h.DB)

	enabled := r.PostFormValue("auto_scroll_enabled") == "on"
	speed := models.DefaultAutoScrollSpeed
	if v := r.PostFormValue("auto_scroll_speed"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			current, _ := store.Get(ctx)
			w.WriteHeader(http.StatusUnprocessableEntity)
			h.renderForm(w, r, current, false, "Scroll speed must be a number.")
			return
		}
		speed = clampSpeed(parsed)
	}

	next := models.AppSettings{
		AutoScrollEnabled: enabled,
		AutoScrollSpeed:   speed,
	}
	if _, name, id, ok := authz.UserCtx(r); ok {
		next.UpdatedByID = &id
		next.UpdatedByName = name
	}

	if err := store.Save(ctx, next); err != nil {
		h.ErrLog.Handle(w, r, err, "save settings")
		return
	}

	h.Log.Info("display settings saved",
		zap.Bool("auto_scroll_enabled", enabled),
		zap.Float64("auto_scroll_speed", speed))
	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, s models.AppSettings, saved bool, errMsg string) {
	speed := s.AutoScrollSpeed
	if speed <= 0 {
		speed = models.DefaultAutoScrollSpeed
	}
	templates.Render(w, r, "settings", settingsVM{
		BaseVM:   viewdata.NewBaseVM(r, "Display Settings", "/spareparts"),
		Settings: s,
		Speed:    speed,
		MinSpeed: models.MinAutoScrollSpeed,
		MaxSpeed: models.MaxAutoScrollSpeed,
		Saved:    saved,
		Error:    errMsg,
	})
}

func clampSpeed(v float64) float64 {
	if v < models.MinAutoScrollSpeed {
		return models.MinAutoScrollSpeed
	}
	if v > models.MaxAutoScrollSpeed {
		return models.MaxAutoScrollSpeed
	}
	return v
}
