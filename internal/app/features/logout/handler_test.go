// internal/app/features/logout/handler_test.go
package logout_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/plantfloor/sparetrack/internal/app/features/logout"
	"github.com/plantfloor/sparetrack/internal/app/system/auth"
	"github.com/plantfloor/sparetrack/internal/testutil"
)

func TestHandleSignOut(t *testing.T) {
	sessions, err := auth.NewSessionManager(
		"0123456789abcdef0123456789abcdef", "sparetrack-test", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	h := logout.NewHandler(sessions, zap.NewNop())

	req := httptest.NewRequest("POST", "/logout", nil)
	rec := testutil.NewRecorder()

	h.HandleSignOut(rec, req)

	rec.AssertRedirect(t, "/")

	expired := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sparetrack-test" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected the session cookie to be expired")
	}
}
