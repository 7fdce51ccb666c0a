package converter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nconklindev/xl2xml/internal/schema"
	"github.com/nconklindev/xl2xml/internal/workbook"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	ErrBlank      = errors.New("cell is blank")
	ErrNotNumber  = errors.New("not a number")
	ErrNotInteger = errors.New("not a whole number")
	ErrNotDate    = errors.New("not a date")
	ErrCellKind   = errors.New("cell kind cannot hold this type")
)

// Text layouts tried, in order, for timestamps stored as text.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

// CoercionError reports a cell whose content cannot be read as the
// requested type.
type CoercionError struct {
	Row    int
	Column int
	Type   schema.FieldType
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	cell, _ := excelize.CoordinatesToCellName(e.Column, e.Row)
	return fmt.Sprintf("cell %s (row %d, column %d): cannot read %q as %s: %v",
		cell, e.Row, e.Column, e.Value, e.Type, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// CellSource is the read side of a workbook session.
type CellSource interface {
	Cell(row, column int) (workbook.Cell, error)
	Date1904() bool
}

// Coercer reads single cells as typed values. It never modifies the
// source.
type Coercer struct {
	src CellSource
}

// NewCoercer returns a coercer reading from src.
func NewCoercer(src CellSource) *Coercer {
	return &Coercer{src: src}
}

// Coerce reads (row, column) as a value of type t. The returned value has
// the Go type schema.FieldType.Accepts expects.
func (c *Coercer) Coerce(row, column int, t schema.FieldType) (any, error) {
	switch t {
	case schema.FieldInteger:
		return c.Integer(row, column)
	case schema.FieldText:
		return c.Text(row, column)
	case schema.FieldTimestamp:
		return c.Timestamp(row, column)
	case schema.FieldDecimal:
		return c.Decimal(row, column)
	}
	return nil, fmt.Errorf("unsupported field type %s", t)
}

// Integer reads the cell as a whole number. Numeric text is accepted, and so
// is a decimal with no fractional part such as "7.0". Blank cells fail with
// ErrBlank.
func (c *Coercer) Integer(row, column int) (int64, error) {
	cell, err := c.src.Cell(row, column)
	if err != nil {
		return 0, err
	}
	v, err := ParseInteger(cell)
	if err != nil {
		return 0, coercionError(cell, schema.FieldInteger, err)
	}
	return v, nil
}

// Text returns the cell as displayed. Blank cells read as "".
func (c *Coercer) Text(row, column int) (string, error) {
	cell, err := c.src.Cell(row, column)
	if err != nil {
		return "", err
	}
	return cell.Display, nil
}

// Timestamp reads the cell as a point in time: either a date serial in the
// workbook's date system or text in one of the accepted layouts. Results
// are in UTC.
func (c *Coercer) Timestamp(row, column int) (time.Time, error) {
	cell, err := c.src.Cell(row, column)
	if err != nil {
		return time.Time{}, err
	}
	v, err := ParseTimestamp(cell, c.src.Date1904())
	if err != nil {
		return time.Time{}, coercionError(cell, schema.FieldTimestamp, err)
	}
	return v, nil
}

// Decimal reads the cell as an exact decimal, parsed from the stored text
// rather than through a float.
func (c *Coercer) Decimal(row, column int) (decimal.Decimal, error) {
	cell, err := c.src.Cell(row, column)
	if err != nil {
		return decimal.Decimal{}, err
	}
	v, err := ParseDecimal(cell)
	if err != nil {
		return decimal.Decimal{}, coercionError(cell, schema.FieldDecimal, err)
	}
	return v, nil
}

func coercionError(cell workbook.Cell, t schema.FieldType, err error) *CoercionError {
	return &CoercionError{Row: cell.Row, Column: cell.Column, Type: t, Value: cell.Raw, Err: err}
}

// ParseInteger reads a base-10 whole number. Numeric values written with a
// zero fraction ("7.0") are accepted; any other fraction is rejected.
func ParseInteger(cell workbook.Cell) (int64, error) {
	s, err := numericText(cell)
	if err != nil {
		return 0, err
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrNotNumber
	}
	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, ErrNotInteger
	}
	return d.IntPart(), nil
}

// ParseDecimal reads an exact fixed-point number from the stored value,
// so 9.99 stays 9.99 rather than its nearest float.
func ParseDecimal(cell workbook.Cell) (decimal.Decimal, error) {
	s, err := numericText(cell)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrNotNumber
	}
	return d, nil
}

// ParseTimestamp reads a date-time. Numbers are spreadsheet serial dates
// in the workbook's date system; ISO date cells and text are parsed by
// layout. Results are in UTC.
func ParseTimestamp(cell workbook.Cell, date1904 bool) (time.Time, error) {
	s := strings.TrimSpace(cell.Raw)
	if s == "" {
		return time.Time{}, ErrBlank
	}

	switch cell.Kind {
	case workbook.KindBool, workbook.KindError:
		return time.Time{}, ErrCellKind
	case workbook.KindText, workbook.KindDate:
		return parseTimestampText(s)
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return parseTimestampText(s)
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNotDate, err)
	}
	return t.UTC(), nil
}

func parseTimestampText(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrNotDate
}

func numericText(cell workbook.Cell) (string, error) {
	switch cell.Kind {
	case workbook.KindBool, workbook.KindError, workbook.KindDate:
		return "", ErrCellKind
	}
	s := strings.TrimSpace(cell.Raw)
	if s == "" {
		return "", ErrBlank
	}
	return s, nil
}
