package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/plantfloor/sparetrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSparePart inserts a spare-part record with sensible defaults.
// Returns the created record with its generated ID.
func (f *Fixtures) CreateSparePart(ctx context.Context, name, plant string) models.SparePart {
	f.t.Helper()

	now := time.Now().UTC()
	sp := models.SparePart{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Quantity:  1,
		OrderDate: now,
		Plant:     plant,
		Urgency:   models.UrgencyNormal,
		CreatedAt: now,
		UpdatedAt: &now,
	}

	_, err := f.db.Collection("spareparts").InsertOne(ctx, sp)
	if err != nil {
		f.t.Fatalf("failed to create test spare part: %v", err)
	}
	return sp
}

// CreateSparePartWith inserts the given record, filling in ID, NameCI
// and timestamps if unset. Use this when a test needs specific flags.
func (f *Fixtures) CreateSparePartWith(ctx context.Context, sp models.SparePart) models.SparePart {
	f.t.Helper()

	now := time.Now().UTC()
	if sp.ID == primitive.NilObjectID {
		sp.ID = primitive.NewObjectID()
	}
	if sp.NameCI == "" {
		sp.NameCI = text.Fold(sp.Name)
	}
	if sp.Urgency == "" {
		sp.Urgency = models.UrgencyNormal
	}
	if sp.OrderDate.IsZero() {
		sp.OrderDate = now
	}
	if sp.CreatedAt.IsZero() {
		sp.CreatedAt = now
	}
	if sp.UpdatedAt == nil {
		sp.UpdatedAt = &now
	}

	_, err := f.db.Collection("spareparts").InsertOne(ctx, sp)
	if err != nil {
		f.t.Fatalf("failed to create test spare part: %v", err)
	}
	return sp
}

// CreateUser inserts a user account. For admins, plant must be one of
// the configured plants.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email, role, plant string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Plant:      plant,
		Status:     models.StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := f.db.Collection("users").InsertOne(ctx, user)
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
