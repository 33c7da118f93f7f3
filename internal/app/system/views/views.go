// internal/app/system/views/views.go

// Package views derives the filtered sequences each dashboard surface
// displays from the canonical collection. Everything here is a pure
// function over its inputs: identical (canonical, criteria) always gives
// identical output, so views can be recomputed on every canonical update
// and every criteria change without drift.
package views

import (
	"strings"

	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// Tab selects the status slice of a view.
type Tab string

const (
	TabAll     Tab = "all"
	TabWaiting Tab = "waiting" // not yet arrived
	TabArrived Tab = "arrived"
)

// ParseTab maps a query-string value onto a Tab, defaulting to TabAll.
func ParseTab(v string) Tab {
	switch Tab(v) {
	case TabWaiting:
		return TabWaiting
	case TabArrived:
		return TabArrived
	default:
		return TabAll
	}
}

// TextFilters holds the per-field substring searches. Empty fields are
// ignored; non-empty fields are AND-ed together, case-insensitively.
type TextFilters struct {
	Name          string
	Specification string
	Machine       string
	Vendor        string
}

// Empty reports whether every text filter is blank (after trimming).
func (t TextFilters) Empty() bool {
	return strings.TrimSpace(t.Name) == "" &&
		strings.TrimSpace(t.Specification) == "" &&
		strings.TrimSpace(t.Machine) == "" &&
		strings.TrimSpace(t.Vendor) == ""
}

// Criteria is one surface's view selection.
type Criteria struct {
	// Plant scopes the view; records without a plant are excluded from
	// every plant-scoped view.
	Plant string
	Tab   Tab
	Text  TextFilters
	// ShowHidden includes archived (hidden-from-operator) records.
	// Operator surfaces always pass false.
	ShowHidden bool
}

// Derive computes the ordered subset of canonical matching criteria. The
// input's relative order is preserved. When every text filter is empty
// the result is exactly the plant+tab+visibility view, so clearing a
// search can never leave stale results behind.
func Derive(canonical []models.SparePart, c Criteria) []models.SparePart {
	out := make([]models.SparePart, 0, len(canonical))
	for _, sp := range canonical {
		if sp.Plant != c.Plant {
			continue
		}
		if !c.ShowHidden && sp.HiddenFromOperator {
			continue
		}
		switch c.Tab {
		case TabWaiting:
			if sp.Arrived() {
				continue
			}
		case TabArrived:
			if !sp.Arrived() {
				continue
			}
		}
		if !matchText(sp, c.Text) {
			continue
		}
		out = append(out, sp)
	}
	return out
}

func matchText(sp models.SparePart, t TextFilters) bool {
	return containsFold(sp.Name, t.Name) &&
		containsFold(sp.Specification, t.Specification) &&
		containsFold(sp.Machine, t.Machine) &&
		containsFold(sp.Vendor, t.Vendor)
}

// containsFold is a case-insensitive substring match; an empty needle
// matches everything.
func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Counts are the per-tab totals shown on the status tabs.
type Counts struct {
	All     int
	Waiting int
	Arrived int
}

// CountByStatus tallies a sequence that has already been scoped by plant
// and visibility. Counts are taken from the displayed (hidden-excluded)
// set, not the full canonical collection, so the numbers on the tabs
// always match the cards underneath them.
func CountByStatus(parts []models.SparePart) Counts {
	c := Counts{All: len(parts)}
	for _, sp := range parts {
		if sp.Arrived() {
			c.Arrived++
		} else {
			c.Waiting++
		}
	}
	return c
}
