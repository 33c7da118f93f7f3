// internal/domain/models/appsettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppSettings is the single shared configuration document consumed by
// every dashboard. It is created lazily on first write (upsert) and
// written only by admins.
type AppSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	// Auto-scroll behavior for wall-mounted operator displays.
	AutoScrollEnabled bool    `bson:"auto_scroll_enabled" json:"auto_scroll_enabled"`
	AutoScrollSpeed   float64 `bson:"auto_scroll_speed,omitempty" json:"auto_scroll_speed,omitempty"` // px/s

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// DefaultAutoScrollSpeed is used when no settings document exists yet.
// The editing UI clamps speed to [MinAutoScrollSpeed, MaxAutoScrollSpeed];
// the synchronizer itself does not enforce the clamp.
const (
	DefaultAutoScrollSpeed = 20.0
	MinAutoScrollSpeed     = 5.0
	MaxAutoScrollSpeed     = 200.0
)
