// internal/app/features/login/handler.go
package login

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	users "github.com/plantfloor/sparetrack/internal/app/store/users"
	"github.com/plantfloor/sparetrack/internal/app/system/auth"
	"github.com/plantfloor/sparetrack/internal/app/system/normalize"
	"github.com/plantfloor/sparetrack/internal/app/system/viewdata"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Handler serves the sign-in form and processes credential submissions.
type Handler struct {
	Users    *users.Store
	Sessions *auth.SessionManager
	Log      *zap.Logger
}

func NewHandler(userStore *users.Store, sessions *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: userStore, Sessions: sessions, Log: logger}
}

type formVM struct {
	viewdata.BaseVM
	Email     string
	ReturnURL string
	Error     string
}

// ServeForm renders the sign-in page. Already-authenticated users are
// sent to their role home instead.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		http.Redirect(w, r, roleHome(u.Role), http.StatusSeeOther)
		return
	}

	data := formVM{
		BaseVM:    viewdata.NewBaseVM(r, "Sign In", "/"),
		ReturnURL: r.URL.Query().Get("return"),
	}
	templates.Render(w, r, "login", data)
}

// HandleSubmit verifies the submitted credentials and establishes a
// session. Failures re-render the form with a generic message so the
// response does not reveal which field was wrong.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	email := normalize.Email(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	returnURL := r.PostFormValue("return")

	user, err := h.Users.GetByEmail(r.Context(), email)
	if err != nil || user.Status != models.StatusActive || !users.CheckPassword(user.PasswordHash, password) {
		if err != nil {
			h.Log.Info("sign-in rejected", zap.String("email", email))
		}
		h.renderFailure(w, r, email, returnURL)
		return
	}

	su := auth.SessionUser{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Email: user.Email,
		Role:  user.Role,
		Plant: user.Plant,
	}
	if err := h.Sessions.SignIn(w, r, su); err != nil {
		h.Log.Error("sign-in session write failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	dest := returnURL
	if !localPath(dest) {
		dest = roleHome(user.Role)
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *Handler) renderFailure(w http.ResponseWriter, r *http.Request, email, returnURL string) {
	data := formVM{
		BaseVM:    viewdata.NewBaseVM(r, "Sign In", "/"),
		Email:     email,
		ReturnURL: returnURL,
		Error:     "Invalid email or password.",
	}
	w.WriteHeader(http.StatusUnauthorized)
	templates.Render(w, r, "login", data)
}

// localPath reports whether p is a same-site path. A second leading
// slash ("//evil.example") is a scheme-relative URL, not a path.
func localPath(p string) bool {
	return len(p) > 0 && p[0] == '/' && !strings.HasPrefix(p, "//")
}

func roleHome(role string) string {
	if role == models.RoleAdmin {
		return "/spareparts"
	}
	return "/dashboard"
}
