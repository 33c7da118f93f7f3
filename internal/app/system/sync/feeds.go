// internal/app/system/sync/feeds.go
package sync

import (
	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Parts is the Live View Synchronizer: the canonical ordered collection
// of spare-part records, replaced wholesale on every store snapshot.
type Parts = Synchronizer[[]models.SparePart]

// Settings is the Settings Synchronizer over the singleton AppSettings
// document. It is read by every dashboard and written only by admins.
type Settings = Synchronizer[models.AppSettings]

// NewParts builds the record synchronizer with slice-copy semantics so
// consumers never alias the canonical backing array.
func NewParts(log *zap.Logger) *Parts {
	return New(log, cloneParts)
}

// NewSettings builds the settings synchronizer. AppSettings is a plain
// value, so the identity copy is already independent.
func NewSettings(log *zap.Logger) *Settings {
	return New(log, func(s models.AppSettings) models.AppSettings { return s })
}

func cloneParts(in []models.SparePart) []models.SparePart {
	if in == nil {
		return nil
	}
	out := make([]models.SparePart, len(in))
	copy(out, in)
	return out
}

// ScrollSpeed returns the effective auto-scroll speed for a settings
// snapshot, falling back to the default when the document has no value
// yet. The synchronizer does not clamp; the editing surface does.
func ScrollSpeed(s models.AppSettings) float64 {
	if s.AutoScrollSpeed <= 0 {
		return models.DefaultAutoScrollSpeed
	}
	return s.AutoScrollSpeed
}
