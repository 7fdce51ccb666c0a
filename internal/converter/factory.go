package converter

import (
	"fmt"

	"github.com/nconklindev/xl2xml/internal/record"
	"github.com/nconklindev/xl2xml/internal/schema"
)

// RowBuildError reports a data row that could not be turned into a
// record.
type RowBuildError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowBuildError) Error() string {
	return fmt.Sprintf("row %d: field %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowBuildError) Unwrap() error { return e.Err }

// BuildValues reads one value per schema field from row, field i coming
// from column startColumn+i.
func BuildValues(c *Coercer, row, startColumn int, s schema.Schema) ([]any, error) {
	values := make([]any, s.Len())
	for i := range values {
		f := s.Field(i)
		v, err := c.Coerce(row, startColumn+i, f.Type)
		if err != nil {
			return nil, &RowBuildError{Row: row, Field: f.Name, Err: err}
		}
		values[i] = v
	}
	return values, nil
}

// BuildProduct reads a Product from row, assigning each field by name.
func BuildProduct(c *Coercer, row, startColumn int) (record.Product, error) {
	b := record.NewProduct()
	for i, f := range schema.Product.Fields() {
		v, err := c.Coerce(row, startColumn+i, f.Type)
		if err != nil {
			return record.Product{}, &RowBuildError{Row: row, Field: f.Name, Err: err}
		}
		if err := b.Set(f.Name, v); err != nil {
			return record.Product{}, &RowBuildError{Row: row, Field: f.Name, Err: err}
		}
	}
	return b.Build()
}

// LoadTable appends one positional row to t for every data row in b,
// top to bottom. It stops at the first row that fails. progress, when not
// nil, is called after each row with the count done so far.
func LoadTable(c *Coercer, b Bounds, t *record.Table, progress func(done int)) error {
	for row := b.FirstDataRow; row <= b.LastDataRow; row++ {
		values, err := BuildValues(c, row, b.StartColumn, t.Schema())
		if err != nil {
			return err
		}
		if err := t.Add(values...); err != nil {
			return &RowBuildError{Row: row, Field: "*", Err: err}
		}
		if progress != nil {
			progress(row - b.FirstDataRow + 1)
		}
	}
	return nil
}

// LoadProducts is LoadTable for the typed table.
func LoadProducts(c *Coercer, b Bounds, t *record.ProductTable, progress func(done int)) error {
	for row := b.FirstDataRow; row <= b.LastDataRow; row++ {
		p, err := BuildProduct(c, row, b.StartColumn)
		if err != nil {
			return err
		}
		t.Add(p)
		if progress != nil {
			progress(row - b.FirstDataRow + 1)
		}
	}
	return nil
}
