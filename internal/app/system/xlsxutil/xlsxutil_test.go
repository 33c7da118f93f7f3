package xlsxutil_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/plantfloor/sparetrack/internal/app/system/xlsxutil"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// sheetBytes builds an in-memory workbook with the given rows under the
// standard header.
func sheetBytes(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, h := range xlsxutil.Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetCellValue(sheet, col+"1", h); err != nil {
			t.Fatalf("set header: %v", err)
		}
	}
	for r, row := range rows {
		for c, v := range row {
			col, _ := excelize.ColumnNumberToName(c + 1)
			cell, _ := excelize.JoinCellName(col, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestParseWorkbook(t *testing.T) {
	buf := sheetBytes(t, [][]interface{}{
		{"Hydraulic Pump", "200 bar", "Press 80", "2", "Budi", "15/03/2026", "PT Fluida", "WO-1201", "Yes", "yes", "", "", "check seals", "Foundry"},
		{"Bearing 6204", "sealed", "Conveyor 2", "1", "Sari", "2026-03-20", "PT Baja", "", "", "", "", "", "", "Hydraulic"},
	})

	parts, rejects, err := xlsxutil.ParseWorkbook(buf, "Foundry")
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(rejects) != 0 {
		t.Fatalf("unexpected rejects: %v", rejects)
	}
	if len(parts) != 2 {
		t.Fatalf("got %d records, want 2", len(parts))
	}

	p := parts[0]
	if p.Name != "Hydraulic Pump" || p.Quantity != 2 || p.Vendor != "PT Fluida" {
		t.Errorf("first record = %+v", p)
	}
	// dd/mm/yyyy
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC); !p.OrderDate.Equal(want) {
		t.Errorf("OrderDate: got %v, want %v", p.OrderDate, want)
	}
	if !p.DocumentComplete || !p.OnProcessComplete {
		t.Error("expected Yes/yes cells to read as complete")
	}
	if p.ArrivedComplete || p.InstallationComplete {
		t.Error("expected empty cells to read as incomplete")
	}

	// yyyy-mm-dd
	if want := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC); !parts[1].OrderDate.Equal(want) {
		t.Errorf("second OrderDate: got %v, want %v", parts[1].OrderDate, want)
	}
}

func TestParseWorkbook_DefaultPlant(t *testing.T) {
	buf := sheetBytes(t, [][]interface{}{
		{"Gasket", "", "", "1", "", "", "", "", "", "", "", "", "", ""},
	})

	parts, rejects, err := xlsxutil.ParseWorkbook(buf, "Assembly")
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(rejects) != 0 || len(parts) != 1 {
		t.Fatalf("parts=%d rejects=%v", len(parts), rejects)
	}
	if parts[0].Plant != "Assembly" {
		t.Errorf("Plant: got %q, want the default", parts[0].Plant)
	}
}

func TestParseWorkbook_Rejects(t *testing.T) {
	buf := sheetBytes(t, [][]interface{}{
		{"", "no name but has data", "", "", "", "", "", "", "", "", "", "", "", ""},
		{"Bad Date", "", "", "1", "", "someday", "", "", "", "", "", "", "", "Foundry"},
		{"Bad Qty", "", "", "lots", "", "", "", "", "", "", "", "", "", "Foundry"},
		{"Bad Plant", "", "", "1", "", "", "", "", "", "", "", "", "", "Atlantis"},
		{"Good", "", "", "1", "", "", "", "", "", "", "", "", "", "Foundry"},
	})

	parts, rejects, err := xlsxutil.ParseWorkbook(buf, "Foundry")
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(parts) != 1 || parts[0].Name != "Good" {
		t.Errorf("parts = %+v, want only the good row", parts)
	}
	if len(rejects) != 4 {
		t.Fatalf("got %d rejects, want 4: %v", len(rejects), rejects)
	}
	// Row numbers match what the spreadsheet application shows.
	if rejects[0].Row != 2 {
		t.Errorf("first reject row: got %d, want 2", rejects[0].Row)
	}
}

func TestParseWorkbook_EmptySheet(t *testing.T) {
	buf := sheetBytes(t, nil)

	parts, rejects, err := xlsxutil.ParseWorkbook(buf, "Foundry")
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(parts) != 0 || len(rejects) != 0 {
		t.Errorf("expected nothing from a header-only sheet, got parts=%d rejects=%d", len(parts), len(rejects))
	}
}

func TestParseWorkbook_StripsMarkup(t *testing.T) {
	buf := sheetBytes(t, [][]interface{}{
		{"<script>alert(1)</script>Bearing", `<img src=x onerror=alert(1)>sealed`, "Conveyor <b>2</b>", "1", "Sari", "", "<a href='javascript:x'>PT Baja</a>", "", "", "", "", "", "<p>fine</p><script>bad()</script>", "Hydraulic"},
	})

	parts, rejects, err := xlsxutil.ParseWorkbook(buf, "Foundry")
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(rejects) != 0 {
		t.Fatalf("unexpected rejects: %v", rejects)
	}
	if len(parts) != 1 {
		t.Fatalf("got %d records, want 1", len(parts))
	}

	sp := parts[0]
	if sp.Name != "Bearing" {
		t.Errorf("Name = %q, want markup stripped", sp.Name)
	}
	if sp.Specification != "sealed" {
		t.Errorf("Specification = %q, want markup stripped", sp.Specification)
	}
	if sp.Machine != "Conveyor 2" {
		t.Errorf("Machine = %q, want markup stripped", sp.Machine)
	}
	if sp.Vendor != "PT Baja" {
		t.Errorf("Vendor = %q, want markup stripped", sp.Vendor)
	}
	if strings.Contains(sp.Notes, "<script>") {
		t.Errorf("Notes = %q, script tag survived", sp.Notes)
	}
}

func TestParseWorkbook_NameAllMarkupRejected(t *testing.T) {
	buf := sheetBytes(t, [][]interface{}{
		{"<script>alert(1)</script>", "spec", "", "1", "", "", "", "", "", "", "", "", "", "Foundry"},
	})

	parts, rejects, err := xlsxutil.ParseWorkbook(buf, "Foundry")
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(parts) != 0 {
		t.Fatalf("got %d records, want 0", len(parts))
	}
	if len(rejects) != 1 || rejects[0].Reason != "sparepart name is required" {
		t.Fatalf("rejects = %v, want one name-required rejection", rejects)
	}
}

func TestBuildWorkbook_RoundTrip(t *testing.T) {
	now := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	in := []models.SparePart{
		{
			Name:            "Ball Valve",
			Specification:   "1/2 inch",
			Machine:         "Mixer 30T",
			Quantity:        3,
			OrderedBy:       "Budi",
			OrderDate:       now,
			Vendor:          "PT Baja",
			WorkOrderNumber: "WO-77",
			ArrivedComplete: true,
			Notes:           "spare for line 2",
			Plant:           "Foundry",
		},
	}

	f, err := xlsxutil.BuildWorkbook(in)
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	parts, rejects, err := xlsxutil.ParseWorkbook(&buf, "Foundry")
	if err != nil {
		t.Fatalf("ParseWorkbook failed: %v", err)
	}
	if len(rejects) != 0 || len(parts) != 1 {
		t.Fatalf("parts=%d rejects=%v", len(parts), rejects)
	}
	got := parts[0]
	if got.Name != in[0].Name || got.Quantity != in[0].Quantity || !got.OrderDate.Equal(now) {
		t.Errorf("round trip = %+v", got)
	}
	if !got.ArrivedComplete || got.InstallationComplete {
		t.Error("step flags did not survive the round trip")
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"05/01/2026", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)}, // day first
		{"2026-01-05", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"5/1/2026", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := xlsxutil.ParseDate(tc.in)
		if err != nil {
			t.Errorf("ParseDate(%q) failed: %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDate(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := xlsxutil.ParseDate("next tuesday"); err == nil {
		t.Error("expected error for unparsable date")
	}
}
