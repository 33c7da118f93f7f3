package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/plantfloor/sparetrack/internal/app/system/auth"
	"github.com/plantfloor/sparetrack/internal/app/system/authz"
	"github.com/plantfloor/sparetrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserCtx_NoUser(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	role, name, id, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false with no user in context")
	}
	if role != "visitor" || name != "" || id != primitive.NilObjectID {
		t.Errorf("got role=%q name=%q id=%v, want visitor defaults", role, name, id)
	}
}

func TestUserCtx_MalformedID(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{ID: "not-an-objectid", Role: "admin"})

	_, _, _, ok := authz.UserCtx(r)
	if ok {
		t.Error("expected ok=false for malformed user ID (fail closed)")
	}
}

func TestIsAdmin(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: "Admin", // role comparison is case-insensitive
	})

	if !authz.IsAdmin(r) {
		t.Error("expected IsAdmin=true")
	}
	if authz.IsOperator(r) {
		t.Error("expected IsOperator=false for an admin")
	}
}

func TestUserPlant_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if got := authz.UserPlant(r); got != models.DefaultPlant {
		t.Errorf("UserPlant with no user: got %q, want default", got)
	}

	r = auth.WithTestUser(r, &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Role:  models.RoleAdmin,
		Plant: "Hydraulic",
	})
	if got := authz.UserPlant(r); got != "Hydraulic" {
		t.Errorf("UserPlant: got %q, want Hydraulic", got)
	}
}

func TestCanManagePlant(t *testing.T) {
	admin := &auth.SessionUser{
		ID:    primitive.NewObjectID().Hex(),
		Role:  models.RoleAdmin,
		Plant: "Foundry",
	}

	r := httptest.NewRequest("GET", "/", nil)
	r = auth.WithTestUser(r, admin)

	if !authz.CanManagePlant(r, "Foundry") {
		t.Error("expected admin to manage their own plant")
	}
	if authz.CanManagePlant(r, "Assembly") {
		t.Error("expected admin not to manage another plant")
	}

	op := httptest.NewRequest("GET", "/", nil)
	op = auth.WithTestUser(op, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Role: models.RoleOperator,
	})
	if authz.CanManagePlant(op, "Foundry") {
		t.Error("expected operator not to manage any plant")
	}
}
