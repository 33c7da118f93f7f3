// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	errorsfeature "github.com/plantfloor/sparetrack/internal/app/features/errors"
	healthfeature "github.com/plantfloor/sparetrack/internal/app/features/health"
	homefeature "github.com/plantfloor/sparetrack/internal/app/features/home"
	loginfeature "github.com/plantfloor/sparetrack/internal/app/features/login"
	logoutfeature "github.com/plantfloor/sparetrack/internal/app/features/logout"
	operatorfeature "github.com/plantfloor/sparetrack/internal/app/features/operator"
	settingsfeature "github.com/plantfloor/sparetrack/internal/app/features/settings"
	sparepartsfeature "github.com/plantfloor/sparetrack/internal/app/features/spareparts"
	streamfeature "github.com/plantfloor/sparetrack/internal/app/features/stream"
	userstore "github.com/plantfloor/sparetrack/internal/app/store/users"
	"github.com/plantfloor/sparetrack/internal/app/system/auth"
	"github.com/plantfloor/sparetrack/internal/domain/models"

	// Template registration happens in each feature's views init.
	_ "github.com/plantfloor/sparetrack/internal/app/features/home/views"
	_ "github.com/plantfloor/sparetrack/internal/app/features/login/views"
	_ "github.com/plantfloor/sparetrack/internal/app/features/operator/views"
	_ "github.com/plantfloor/sparetrack/internal/app/features/settings/views"
	_ "github.com/plantfloor/sparetrack/internal/app/features/spareparts/views"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// SpareTrack initializes the template engine, applies session and CSRF
// middleware, and mounts the feature routers: the public landing page,
// sign-in, the operator status board, the SSE streams, and the admin
// surfaces for spare parts and display settings.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(
		appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection on every state-changing form post.
	csrfMiddleware := csrf.Protect([]byte(appCfg.CSRFKey),
		csrf.Secure(secure),
		csrf.Path("/"))
	r.Use(csrfMiddleware)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	// Public pages
	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(userstore.New(deps.MongoDatabase), sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)
	r.NotFound(errorsHandler.NotFound)

	// Operator status board: any signed-in user.
	operatorHandler := operatorfeature.NewHandler(deps.SpareParts, deps.Settings, logger)
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Mount("/dashboard", operatorfeature.Routes(operatorHandler))
	})

	// Live streams backing the dashboards.
	streamHandler := streamfeature.NewHandler(deps.SpareParts, deps.Settings, logger)
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)
		r.Mount("/stream", streamfeature.Routes(streamHandler))
	})

	// Admin surfaces.
	sparepartsHandler := sparepartsfeature.NewAdminHandler(deps.MongoDatabase, errLog, logger)
	settingsHandler := settingsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireRole(models.RoleAdmin))
		r.Mount("/spareparts", sparepartsfeature.Routes(sparepartsHandler))
		r.Mount("/settings", settingsfeature.Routes(settingsHandler))
	})

	return r, nil
}
