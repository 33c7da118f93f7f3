// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// appConfigKeys defines the configuration keys for SpareTrack.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: SPARETRACK_MONGO_URI, SPARETRACK_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "sparetrack", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "sparetrack-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session lifetime (e.g., 720h for 30 days)"},

	{Name: "csrf_key", Default: "dev-only-change-me-0123456789ABCDEF", Desc: "CSRF token signing key (32 bytes, must be strong in production)"},

	{Name: "default_plant", Default: models.DefaultPlant, Desc: "Plant assigned to records created without one"},

	// Bootstrap admin account (created on first startup when no admin exists)
	{Name: "admin_email", Default: "", Desc: "Email of the bootstrap admin account (blank to skip)"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrap admin account"},
	{Name: "admin_name", Default: "Administrator", Desc: "Display name for the bootstrap admin account"},
	{Name: "admin_plant", Default: models.DefaultPlant, Desc: "Plant the bootstrap admin manages"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// CoreConfig comes from the shared WAFFLE layer; AppConfig is specific
// to this app and can be extended as the app grows.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SPARETRACK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SPARETRACK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 720*time.Hour),

		CSRFKey: appValues.String("csrf_key"),

		DefaultPlant: appValues.String("default_plant"),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
		AdminName:     appValues.String("admin_name"),
		AdminPlant:    appValues.String("admin_plant"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// This is the right place to enforce required fields or invariants that
// involve both the core and app configs.
//
// SpareTrack validates the MongoDB URI format and the plant names to
// catch configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if !models.ValidPlant(appCfg.DefaultPlant) {
		return fmt.Errorf("default_plant %q is not a configured plant (%s)",
			appCfg.DefaultPlant, strings.Join(models.Plants, ", "))
	}

	if appCfg.AdminEmail != "" {
		if appCfg.AdminPassword == "" {
			return fmt.Errorf("admin_email is set but admin_password is empty")
		}
		if !models.ValidPlant(appCfg.AdminPlant) {
			return fmt.Errorf("admin_plant %q is not a configured plant", appCfg.AdminPlant)
		}
	}

	return nil
}
