// Package xlsxtest writes small workbooks for tests.
package xlsxtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet describes one fixture sheet.
type Sheet struct {
	Name string
	// Origin is the top-left cell of Rows, e.g. "A1".
	Origin string
	Rows   [][]any
	// StyledEmptyRows are row numbers that get a fill but no value.
	StyledEmptyRows []int
	Date1904        bool
}

// Write saves s as name in a fresh temp directory and returns the path.
func Write(t testing.TB, name string, s Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := s.Name
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}
	if s.Date1904 {
		on := true
		if err := f.SetWorkbookProps(&excelize.WorkbookPropsOptions{Date1904: &on}); err != nil {
			t.Fatal(err)
		}
	}

	origin := s.Origin
	if origin == "" {
		origin = "A1"
	}
	col, row, err := excelize.CellNameToCoordinates(origin)
	if err != nil {
		t.Fatal(err)
	}
	for i, values := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(col, row+i)
		if err != nil {
			t.Fatal(err)
		}
		r := values
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}

	if len(s.StyledEmptyRows) > 0 {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"ADD8E6"}},
		})
		if err != nil {
			t.Fatal(err)
		}
		for _, r := range s.StyledEmptyRows {
			from, _ := excelize.CoordinatesToCellName(col, r)
			to, _ := excelize.CoordinatesToCellName(col+3, r)
			if err := f.SetCellStyle(sheet, from, to, style); err != nil {
				t.Fatal(err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

// Date returns midnight UTC on the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Products is a header row and two product rows.
func Products() [][]any {
	return [][]any{
		{"ProductID", "ProductDescription", "DateAdded", "Price"},
		{7, "Widget", Date(2024, time.January, 1), 9.99},
		{8, "Gadget", Date(2024, time.February, 1), 19.50},
	}
}
