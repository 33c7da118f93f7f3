// Package xlsxutil reads and writes the spare-part spreadsheet format
// used for bulk import and export. The column set is fixed; imports are
// lenient about date formats because sheets come from several plants
// with different local conventions.
package xlsxutil

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/plantfloor/sparetrack/internal/app/system/htmlsanitize"
	"github.com/plantfloor/sparetrack/internal/domain/models"
)

// SheetName is the worksheet records are read from and written to.
const SheetName = "Spareparts"

// Headers is the fixed column order of the import/export format.
var Headers = []string{
	"Sparepart Name",
	"Specification",
	"Machine",
	"QTY",
	"Ordered By",
	"Order Date",
	"Vendor",
	"Work Order/Stock",
	"Document",
	"On Process",
	"Arrived",
	"Installation",
	"Notes",
	"Plant",
}

// RowError describes one rejected row of an imported sheet. Row numbers
// are 1-based as shown in the spreadsheet application.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ParseWorkbook reads spare-part records from the first sheet of an
// uploaded workbook. The first row is treated as the header and skipped.
// Rows without a name are rejected, not silently dropped; good rows are
// still returned alongside the per-row errors so the caller can report
// both.
func ParseWorkbook(r io.Reader, defaultPlant string) ([]models.SparePart, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, nil
	}

	var (
		parts   []models.SparePart
		rejects []RowError
	)
	for i, row := range rows[1:] {
		rowNum := i + 2 // 1-based, after the header

		name := htmlsanitize.SanitizeText(cell(row, 0))
		if name == "" {
			// Fully empty rows at the bottom of a sheet are common;
			// skip them silently, reject rows with data but no name.
			if rowHasData(row) {
				rejects = append(rejects, RowError{Row: rowNum, Reason: "sparepart name is required"})
			}
			continue
		}

		sp := models.SparePart{
			Name:            name,
			Specification:   htmlsanitize.SanitizeText(cell(row, 1)),
			Machine:         htmlsanitize.SanitizeText(cell(row, 2)),
			OrderedBy:       cell(row, 4),
			Vendor:          htmlsanitize.SanitizeText(cell(row, 6)),
			WorkOrderNumber: cell(row, 7),
			Notes:           htmlsanitize.Sanitize(cell(row, 12)),
			Plant:           cell(row, 13),
		}

		if q := cell(row, 3); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil || n < 0 {
				rejects = append(rejects, RowError{Row: rowNum, Reason: "QTY must be a non-negative number"})
				continue
			}
			sp.Quantity = n
		}

		if d := cell(row, 5); d != "" {
			when, err := ParseDate(d)
			if err != nil {
				rejects = append(rejects, RowError{Row: rowNum, Reason: err.Error()})
				continue
			}
			sp.OrderDate = when
		}

		sp.DocumentComplete = ParseBool(cell(row, 8))
		sp.OnProcessComplete = ParseBool(cell(row, 9))
		sp.ArrivedComplete = ParseBool(cell(row, 10))
		sp.InstallationComplete = ParseBool(cell(row, 11))

		if sp.Plant == "" {
			sp.Plant = defaultPlant
		}
		if !models.ValidPlant(sp.Plant) {
			rejects = append(rejects, RowError{Row: rowNum, Reason: "unknown plant: " + sp.Plant})
			continue
		}

		parts = append(parts, sp)
	}
	return parts, rejects, nil
}

// dateLayouts are tried in order. Day-first forms come before
// month-first because the plants write dates day-first.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"01-02-06", // excelize renders date cells in this US short form
}

// ParseDate accepts the date forms that appear in plant spreadsheets
// (dd/mm/yyyy and yyyy-mm-dd, with single-digit variants) and returns
// the date in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q (want dd/mm/yyyy or yyyy-mm-dd)", s)
}

// ParseBool interprets the progress-step cells. Anything not clearly
// affirmative reads as false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "done", "✓":
		return true
	}
	return false
}

// BuildWorkbook renders records into the export format, newest order
// first as given.
func BuildWorkbook(parts []models.SparePart) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range Headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(SheetName, cell, h)
		f.SetCellStyle(SheetName, cell, cell, boldStyle)
	}

	for rowIdx, sp := range parts {
		row := rowIdx + 2
		f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), sp.Name)
		f.SetCellValue(SheetName, fmt.Sprintf("B%d", row), sp.Specification)
		f.SetCellValue(SheetName, fmt.Sprintf("C%d", row), sp.Machine)
		f.SetCellValue(SheetName, fmt.Sprintf("D%d", row), sp.Quantity)
		f.SetCellValue(SheetName, fmt.Sprintf("E%d", row), sp.OrderedBy)
		if !sp.OrderDate.IsZero() {
			f.SetCellValue(SheetName, fmt.Sprintf("F%d", row), sp.OrderDate.Format("2006-01-02"))
		}
		f.SetCellValue(SheetName, fmt.Sprintf("G%d", row), sp.Vendor)
		f.SetCellValue(SheetName, fmt.Sprintf("H%d", row), sp.WorkOrderNumber)
		f.SetCellValue(SheetName, fmt.Sprintf("I%d", row), boolCell(sp.DocumentComplete))
		f.SetCellValue(SheetName, fmt.Sprintf("J%d", row), boolCell(sp.OnProcessComplete))
		f.SetCellValue(SheetName, fmt.Sprintf("K%d", row), boolCell(sp.ArrivedComplete))
		f.SetCellValue(SheetName, fmt.Sprintf("L%d", row), boolCell(sp.InstallationComplete))
		f.SetCellValue(SheetName, fmt.Sprintf("M%d", row), sp.Notes)
		f.SetCellValue(SheetName, fmt.Sprintf("N%d", row), sp.Plant)
	}

	colWidths := []float64{28, 22, 18, 6, 14, 12, 18, 16, 10, 10, 10, 11, 30, 12}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(SheetName, col, col, w)
	}

	return f, nil
}

// BuildTemplate returns an empty workbook with just the header row, for
// admins to fill in and re-upload.
func BuildTemplate() (*excelize.File, error) {
	return BuildWorkbook(nil)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func rowHasData(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}

func boolCell(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
