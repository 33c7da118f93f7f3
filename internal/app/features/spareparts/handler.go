// internal/app/features/spareparts/handler.go
package spareparts

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/plantfloor/sparetrack/internal/app/features/errors"
	partstore "github.com/plantfloor/sparetrack/internal/app/store/spareparts"
)

// AdminHandler owns all admin-facing spare-part handlers
// (list, new, edit, delete, step toggles, import/export).
//
// It is constructed once at startup in bootstrap, using the shared
// Mongo database handle and logger.
type AdminHandler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
}

// NewAdminHandler constructs an AdminHandler bound to the given Mongo
// database and logger.
func NewAdminHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{DB: db, Log: logger, ErrLog: errLog}
}

func (h *AdminHandler) store() *partstore.Store {
	return partstore.New(h.DB)
}
