package settingsstore_test

import (
	"testing"

	settingsstore "github.com/plantfloor/sparetrack/internal/app/store/settings"
	"github.com/plantfloor/sparetrack/internal/app/system/apperr"
	"github.com/plantfloor/sparetrack/internal/domain/models"
	"github.com/plantfloor/sparetrack/internal/testutil"
)

func TestStore_Get_MissingReturnsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.AutoScrollEnabled {
		t.Error("expected auto-scroll disabled by default")
	}
	if settings.AutoScrollSpeed != 0 {
		t.Errorf("AutoScrollSpeed: got %v, want zero value", settings.AutoScrollSpeed)
	}
}

func TestStore_Set_CreatesDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// First write lands on a missing document and must create it with
	// just this field set.
	if err := store.Set(ctx, "auto_scroll_speed", 40.0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.AutoScrollSpeed != 40 {
		t.Errorf("AutoScrollSpeed: got %v, want 40", settings.AutoScrollSpeed)
	}
	if settings.AutoScrollEnabled {
		t.Error("untouched field should keep its default")
	}
}

func TestStore_Set_MergesIntoExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Set(ctx, "auto_scroll_speed", 60.0); err != nil {
		t.Fatalf("Set speed failed: %v", err)
	}
	if err := store.Set(ctx, "auto_scroll_enabled", true); err != nil {
		t.Fatalf("Set enabled failed: %v", err)
	}

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !settings.AutoScrollEnabled {
		t.Error("expected auto-scroll enabled")
	}
	if settings.AutoScrollSpeed != 60 {
		t.Errorf("AutoScrollSpeed: got %v, want 60 (second Set must not clobber it)", settings.AutoScrollSpeed)
	}

	ok, err := store.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("expected settings document to exist")
	}
}

func TestStore_Set_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"unknown key", "theme", "dark"},
		{"wrong type for enabled", "auto_scroll_enabled", "yes"},
		{"wrong type for speed", "auto_scroll_speed", "fast"},
		{"speed below range", "auto_scroll_speed", 1.0},
		{"speed above range", "auto_scroll_speed", 999.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Set(ctx, tc.key, tc.value); !apperr.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestStore_Save(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	in := models.AppSettings{
		AutoScrollEnabled: true,
		AutoScrollSpeed:   25,
		UpdatedByName:     "Admin One",
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	settings, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !settings.AutoScrollEnabled || settings.AutoScrollSpeed != 25 {
		t.Errorf("settings = %+v, want enabled at speed 25", settings)
	}
	if settings.UpdatedAt == nil {
		t.Error("expected UpdatedAt to be set")
	}
	if settings.UpdatedByName != "Admin One" {
		t.Errorf("UpdatedByName: got %q, want %q", settings.UpdatedByName, "Admin One")
	}

	// Saving again must update the same document, not create a second.
	in.AutoScrollSpeed = 30
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	settings, err = store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if settings.AutoScrollSpeed != 30 {
		t.Errorf("AutoScrollSpeed: got %v, want 30", settings.AutoScrollSpeed)
	}
}
