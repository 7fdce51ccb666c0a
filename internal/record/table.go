// Package record holds ordered, single-schema record collections. Table is
// the schema-driven generic form; ProductTable is bound to the Product
// record type. Both are exported through Collection.
package record

import (
	"errors"
	"fmt"

	"github.com/nconklindev/xl2xml/internal/schema"
)

var (
	// ErrArity is returned when a row has the wrong number of values.
	ErrArity = errors.New("value count does not match schema")
	// ErrTypeMismatch is returned when a value does not have its field's type.
	ErrTypeMismatch = errors.New("value does not match field type")
	// ErrIncomplete is returned when a record is built with unset fields.
	ErrIncomplete = errors.New("record has unset fields")
)

// Collection is what the exporter needs: a label, a schema and rows of
// values in schema order.
type Collection interface {
	Name() string
	Schema() schema.Schema
	Len() int
	Values(i int) []any
}

// Row is one record of a Table, one value per schema field.
type Row []any

// Table is an append-only list of rows checked against a schema.
type Table struct {
	name   string
	schema schema.Schema
	rows   []Row
}

// NewTable creates an empty table.
func NewTable(name string, s schema.Schema) *Table {
	return &Table{name: name, schema: s}
}

func (t *Table) Name() string          { return t.name }
func (t *Table) Schema() schema.Schema { return t.schema }
func (t *Table) Len() int              { return len(t.rows) }

// Values returns a copy of row i.
func (t *Table) Values(i int) []any {
	out := make([]any, len(t.rows[i]))
	copy(out, t.rows[i])
	return out
}

// Add appends one row given positionally in schema order. Nil values and
// values of the wrong type are rejected.
func (t *Table) Add(values ...any) error {
	if len(values) != t.schema.Len() {
		return fmt.Errorf("%s: %w: got %d, want %d", t.name, ErrArity, len(values), t.schema.Len())
	}
	for i, v := range values {
		f := t.schema.Field(i)
		if !f.Type.Accepts(v) {
			return fmt.Errorf("%s: field %s: %w: %T is not %s", t.name, f.Name, ErrTypeMismatch, v, f.Type)
		}
	}
	row := make(Row, len(values))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}
