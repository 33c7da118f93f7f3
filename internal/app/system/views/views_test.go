package views_test

import (
	"reflect"
	"testing"

	"github.com/plantfloor/sparetrack/internal/app/system/views"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

func canonical() []models.SparePart {
	return []models.SparePart{
		{Name: "Ball Valve", Specification: "1/2 inch", Machine: "Mixer 30T", Vendor: "PT Baja", Plant: "Foundry"},
		{Name: "Hydraulic Pump", Specification: "200 bar", Machine: "Press 80", Vendor: "PT Fluida", Plant: "Foundry", ArrivedComplete: true},
		{Name: "Bearing 6204", Specification: "sealed", Machine: "Conveyor 2", Vendor: "PT Baja", Plant: "Hydraulic"},
	}
}

func TestDerive_PlantScoping(t *testing.T) {
	got := views.Derive(canonical(), views.Criteria{Plant: "Foundry", Tab: views.TabAll})

	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	// Relative order of the canonical sequence is preserved.
	if got[0].Name != "Ball Valve" || got[1].Name != "Hydraulic Pump" {
		t.Errorf("order = %q, %q; want Ball Valve then Hydraulic Pump", got[0].Name, got[1].Name)
	}
}

func TestDerive_NoPlantExcluded(t *testing.T) {
	parts := append(canonical(), models.SparePart{Name: "Orphan", Plant: ""})
	got := views.Derive(parts, views.Criteria{Plant: "Foundry", Tab: views.TabAll})
	for _, sp := range got {
		if sp.Name == "Orphan" {
			t.Error("records without a plant must be excluded from plant-scoped views")
		}
	}
}

func TestDerive_Tabs(t *testing.T) {
	waiting := views.Derive(canonical(), views.Criteria{Plant: "Foundry", Tab: views.TabWaiting})
	if len(waiting) != 1 || waiting[0].Name != "Ball Valve" {
		t.Errorf("waiting = %+v, want only Ball Valve", waiting)
	}

	arrived := views.Derive(canonical(), views.Criteria{Plant: "Foundry", Tab: views.TabArrived})
	if len(arrived) != 1 || arrived[0].Name != "Hydraulic Pump" {
		t.Errorf("arrived = %+v, want only Hydraulic Pump", arrived)
	}
}

func TestDerive_TextFiltersANDed(t *testing.T) {
	c := views.Criteria{
		Plant: "Foundry",
		Tab:   views.TabAll,
		Text:  views.TextFilters{Name: "valve", Vendor: "baja"},
	}
	got := views.Derive(canonical(), c)
	if len(got) != 1 || got[0].Name != "Ball Valve" {
		t.Errorf("got %+v, want only Ball Valve (name AND vendor must both match)", got)
	}

	c.Text.Vendor = "fluida" // matches a different record than the name filter
	if got := views.Derive(canonical(), c); len(got) != 0 {
		t.Errorf("got %+v, want none when AND-ed filters match different records", got)
	}
}

func TestDerive_CaseInsensitive(t *testing.T) {
	c := views.Criteria{Plant: "Hydraulic", Tab: views.TabAll, Text: views.TextFilters{Machine: "CONVEYOR"}}
	if got := views.Derive(canonical(), c); len(got) != 1 {
		t.Errorf("got %d, want 1 (substring match must ignore case)", len(got))
	}
}

func TestDerive_EmptyTextEqualsBaseView(t *testing.T) {
	base := views.Criteria{Plant: "Foundry", Tab: views.TabWaiting}
	withBlanks := base
	withBlanks.Text = views.TextFilters{Name: "  ", Vendor: ""}

	a := views.Derive(canonical(), base)
	b := views.Derive(canonical(), withBlanks)
	if !reflect.DeepEqual(a, b) {
		t.Error("all-blank text filters must yield exactly the plant+tab+visibility view")
	}
}

func TestDerive_HiddenRecords(t *testing.T) {
	parts := canonical()
	parts[0].HiddenFromOperator = true

	shown := views.Derive(parts, views.Criteria{Plant: "Foundry", Tab: views.TabAll})
	if len(shown) != 1 {
		t.Errorf("got %d, want 1 (hidden record excluded when ShowHidden=false)", len(shown))
	}

	all := views.Derive(parts, views.Criteria{Plant: "Foundry", Tab: views.TabAll, ShowHidden: true})
	if len(all) != 2 {
		t.Errorf("got %d, want 2 (ShowHidden=true includes archived records)", len(all))
	}
}

func TestDerive_Pure(t *testing.T) {
	parts := canonical()
	c := views.Criteria{Plant: "Foundry", Tab: views.TabAll, Text: views.TextFilters{Name: "valve"}}

	first := views.Derive(parts, c)
	second := views.Derive(parts, c)
	if !reflect.DeepEqual(first, second) {
		t.Error("Derive must be idempotent for identical inputs")
	}
}

func TestCountByStatus_FromDerivedSet(t *testing.T) {
	parts := canonical()
	parts[0].HiddenFromOperator = true

	// Counts come from the displayed (hidden-excluded) view, so the tab
	// numbers always match the cards underneath.
	visible := views.Derive(parts, views.Criteria{Plant: "Foundry", Tab: views.TabAll})
	got := views.CountByStatus(visible)

	want := views.Counts{All: 1, Waiting: 0, Arrived: 1}
	if got != want {
		t.Errorf("counts = %+v, want %+v", got, want)
	}
}

func TestParseTab(t *testing.T) {
	if views.ParseTab("waiting") != views.TabWaiting {
		t.Error(`ParseTab("waiting") should be TabWaiting`)
	}
	if views.ParseTab("") != views.TabAll {
		t.Error("ParseTab of empty string should default to TabAll")
	}
	if views.ParseTab("nonsense") != views.TabAll {
		t.Error("ParseTab of unknown value should default to TabAll")
	}
}
