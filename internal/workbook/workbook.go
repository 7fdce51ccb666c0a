// Package workbook wraps excelize as a read-only, single-sheet session.
// Rows and columns are 1-based, matching spreadsheet conventions.
package workbook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSessionClosed is returned when a closed session is read.
var ErrSessionClosed = errors.New("workbook session is closed")

// Kind classifies what a cell stores.
type Kind int

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindBool
	KindDate
	KindError
	KindFormula
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindError:
		return "error"
	case KindFormula:
		return "formula"
	}
	return "unknown"
}

// Cell is one cell as read from the sheet.
type Cell struct {
	Row, Column int
	// Raw is the stored value with no number format applied.
	Raw string
	// Display is the value as the spreadsheet would show it.
	Display string
	Kind    Kind
}

// Stats is the bounding box of non-empty cells in a sheet. A sheet with no
// values has all fields zero.
type Stats struct {
	StartRow    int
	EndRow      int
	StartColumn int
	EndColumn   int
}

// Empty reports whether the sheet holds no values at all.
func (s Stats) Empty() bool {
	return s.EndRow == 0
}

// Session is an open workbook bound to one sheet. Close must be called on
// every path once reading is done.
type Session struct {
	path     string
	sheet    string
	f        *excelize.File
	date1904 bool
}

// Open opens the workbook at path and binds the session to sheet. The
// file is closed again if the sheet does not exist.
func Open(path, sheet string) (*Session, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		f.Close()
		if err == nil {
			err = excelize.ErrSheetNotExist{SheetName: sheet}
		}
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read workbook properties: %w", err)
	}

	s := &Session{path: path, sheet: sheet, f: f}
	if props.Date1904 != nil {
		s.date1904 = *props.Date1904
	}
	return s, nil
}

// Path returns the workbook file path.
func (s *Session) Path() string { return s.path }

// Sheet returns the bound sheet name.
func (s *Session) Sheet() string { return s.sheet }

// Date1904 reports whether serial dates count from 1904 instead of 1900.
func (s *Session) Date1904() bool { return s.date1904 }

// Close releases the workbook. Calling it more than once is safe.
func (s *Session) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// Stats scans the sheet for the rectangle of cells holding a value. Cells
// that carry only formatting, or only whitespace, are not counted, so a
// styled but empty row below the data does not extend EndRow. Producers
// that report the used range including styled cells can give a larger
// EndRow for the same workbook.
func (s *Session) Stats() (Stats, error) {
	if s.f == nil {
		return Stats{}, ErrSessionClosed
	}

	rows, err := s.f.GetRows(s.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Stats{}, fmt.Errorf("read rows of %s: %w", s.sheet, err)
	}

	var st Stats
	for i, row := range rows {
		for j, v := range row {
			if strings.TrimSpace(v) == "" {
				continue
			}
			r, c := i+1, j+1
			if st.StartRow == 0 {
				st.StartRow = r
			}
			st.EndRow = r
			if st.StartColumn == 0 || c < st.StartColumn {
				st.StartColumn = c
			}
			if c > st.EndColumn {
				st.EndColumn = c
			}
		}
	}
	return st, nil
}

// Cell reads the cell at (row, column).
func (s *Session) Cell(row, column int) (Cell, error) {
	if s.f == nil {
		return Cell{}, ErrSessionClosed
	}

	name, err := excelize.CoordinatesToCellName(column, row)
	if err != nil {
		return Cell{}, err
	}

	raw, err := s.f.GetCellValue(s.sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Cell{}, fmt.Errorf("read %s: %w", name, err)
	}
	display, err := s.f.GetCellValue(s.sheet, name)
	if err != nil {
		return Cell{}, fmt.Errorf("read %s: %w", name, err)
	}
	ct, err := s.f.GetCellType(s.sheet, name)
	if err != nil {
		return Cell{}, fmt.Errorf("read type of %s: %w", name, err)
	}

	return Cell{
		Row:     row,
		Column:  column,
		Raw:     raw,
		Display: display,
		Kind:    kindOf(ct, raw),
	}, nil
}

// kindOf maps excelize cell types. Plain numeric cells carry no type
// attribute and come back as CellTypeUnset.
func kindOf(ct excelize.CellType, raw string) Kind {
	switch ct {
	case excelize.CellTypeBool:
		return KindBool
	case excelize.CellTypeDate:
		return KindDate
	case excelize.CellTypeError:
		return KindError
	case excelize.CellTypeFormula:
		return KindFormula
	case excelize.CellTypeInlineString, excelize.CellTypeSharedString:
		return KindText
	case excelize.CellTypeNumber:
		return KindNumber
	}
	if raw == "" {
		return KindEmpty
	}
	return KindNumber
}
