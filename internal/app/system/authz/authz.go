// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/plantfloor/sparetrack/internal/app/system/auth"
	"github.com/plantfloor/sparetrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false. This ensures callers can trust that
// ok=true means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsOperator reports whether the current request's user is an operator.
func IsOperator(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleOperator
}

// UserPlant returns the current user's home plant, or the default plant
// when none is set on the session (operators are not plant-scoped, so
// their dashboards start on the default).
func UserPlant(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok || user.Plant == "" {
		return models.DefaultPlant
	}
	return user.Plant
}

// CanManageRecords reports whether the current user can create, edit,
// or delete spare-part records. Operators get a read-only view.
func CanManageRecords(r *http.Request) bool {
	return IsAdmin(r)
}

// CanManagePlant reports whether the current user may run destructive
// plant-wide operations (bulk delete, import) for the given plant.
// Admins are scoped to their own plant.
func CanManagePlant(r *http.Request, plant string) bool {
	user, ok := auth.CurrentUser(r)
	if !ok || strings.ToLower(user.Role) != models.RoleAdmin {
		return false
	}
	return user.Plant == plant
}
