// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/resources"
	settingsstore "github.com/plantfloor/sparetrack/internal/app/store/settings"
	sparepartstore "github.com/plantfloor/sparetrack/internal/app/store/spareparts"
	userstore "github.com/plantfloor/sparetrack/internal/app/store/users"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// SpareTrack loads the shared templates, attaches the change-stream
// feeds to the live synchronizers, and creates the bootstrap admin
// account if none exists yet.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if err := deps.SpareParts.Start(sparepartstore.New(deps.MongoDatabase).Watch(logger)); err != nil {
		return err
	}
	if err := deps.Settings.Start(settingsstore.New(deps.MongoDatabase).Watch(logger)); err != nil {
		return err
	}

	return ensureAdmin(ctx, appCfg, deps, logger)
}

// ensureAdmin creates the configured admin account when the users
// collection has no admin yet. Subsequent startups are no-ops.
func ensureAdmin(ctx context.Context, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	store := userstore.New(deps.MongoDatabase)
	n, err := store.CountByRole(ctx, models.RoleAdmin)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := userstore.HashPassword(appCfg.AdminPassword)
	if err != nil {
		return err
	}
	created, err := store.Create(ctx, models.User{
		FullName:     appCfg.AdminName,
		Email:        appCfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Plant:        appCfg.AdminPlant,
		Status:       models.StatusActive,
	})
	if err != nil {
		return err
	}

	logger.Info("bootstrap admin account created",
		zap.String("email", created.Email),
		zap.String("plant", created.Plant))
	return nil
}
