// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"time"

	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// docKey identifies the single settings document. The app has exactly
// one shared configuration, so the collection holds at most one doc.
const docKey = "app"

// Store provides access to the app_settings collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("app_settings")}
}

// Get returns the shared settings. When nothing has been written yet it
// returns zero-value defaults rather than an error, so callers never
// have to special-case the missing document.
func (s *Store) Get(ctx context.Context) (models.AppSettings, error) {
	var settings models.AppSettings
	err := s.c.FindOne(ctx, bson.M{"key": docKey}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return models.AppSettings{}, nil
	}
	if err != nil {
		return models.AppSettings{}, apperr.Unavailable("load settings", err)
	}
	return settings, nil
}

// Set writes one settings field by name, creating the document if it
// does not exist yet. Other fields are left untouched, so concurrent
// writers over different keys cannot clobber each other.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	switch key {
	case "auto_scroll_enabled":
		if _, ok := value.(bool); !ok {
			return apperr.Validation("auto_scroll_enabled must be a boolean")
		}
	case "auto_scroll_speed":
		v, ok := value.(float64)
		if !ok {
			return apperr.Validation("auto_scroll_speed must be a number")
		}
		if v < models.MinAutoScrollSpeed || v > models.MaxAutoScrollSpeed {
			return apperr.Validation("auto_scroll_speed out of range")
		}
	default:
		return apperr.Validation("unknown setting: " + key)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			key:          value,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
			"key": docKey,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"key": docKey}, update, opts); err != nil {
		return apperr.Unavailable("save setting", err)
	}
	return nil
}

// Save writes the full settings document, recording who changed it.
// Uses upsert so it works whether the document exists or not.
func (s *Store) Save(ctx context.Context, settings models.AppSettings) error {
	now := time.Now().UTC()
	settings.UpdatedAt = &now

	update := bson.M{
		"$set": bson.M{
			"auto_scroll_enabled": settings.AutoScrollEnabled,
			"auto_scroll_speed":   settings.AutoScrollSpeed,
			"updated_at":          settings.UpdatedAt,
			"updated_by_id":       settings.UpdatedByID,
			"updated_by_name":     settings.UpdatedByName,
		},
		"$setOnInsert": bson.M{
			"_id": primitive.NewObjectID(),
			"key": docKey,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"key": docKey}, update, opts); err != nil {
		return apperr.Unavailable("save settings", err)
	}
	return nil
}

// Exists reports whether the settings document has been created.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"key": docKey})
	if err != nil {
		return false, apperr.Unavailable("check settings", err)
	}
	return count > 0, nil
}
