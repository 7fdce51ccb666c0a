package record

import (
	"fmt"
	"strings"
	"time"

	"github.com/nconklindev/xl2xml/internal/schema"

	"github.com/shopspring/decimal"
)

// Product is one row of the product sheet.
type Product struct {
	ProductID          int64
	ProductDescription string
	DateAdded          time.Time
	Price              decimal.Decimal
}

// Values returns the fields in schema.Product order.
func (p Product) Values() []any {
	return []any{p.ProductID, p.ProductDescription, p.DateAdded, p.Price}
}

// ProductBuilder assembles a Product field by field. Build fails until
// every field has been set.
type ProductBuilder struct {
	p   Product
	set [4]bool
}

// NewProduct starts a builder with every field at the schema default.
// Defaults do not count as set.
func NewProduct() *ProductBuilder {
	z := schema.Product.Zero()
	return &ProductBuilder{p: Product{
		ProductID:          z[0].(int64),
		ProductDescription: z[1].(string),
		DateAdded:          z[2].(time.Time),
		Price:              z[3].(decimal.Decimal),
	}}
}

func (b *ProductBuilder) ID(v int64) *ProductBuilder {
	b.p.ProductID, b.set[0] = v, true
	return b
}

func (b *ProductBuilder) Description(v string) *ProductBuilder {
	b.p.ProductDescription, b.set[1] = v, true
	return b
}

func (b *ProductBuilder) DateAdded(v time.Time) *ProductBuilder {
	b.p.DateAdded, b.set[2] = v, true
	return b
}

func (b *ProductBuilder) Price(v decimal.Decimal) *ProductBuilder {
	b.p.Price, b.set[3] = v, true
	return b
}

// Set assigns a field by its schema name.
func (b *ProductBuilder) Set(field string, v any) error {
	i, ok := schema.Product.Index(field)
	if !ok {
		return fmt.Errorf("product has no field %q", field)
	}
	ft := schema.Product.Field(i).Type
	if !ft.Accepts(v) {
		return fmt.Errorf("field %s: %w: %T is not %s", field, ErrTypeMismatch, v, ft)
	}
	switch i {
	case 0:
		b.ID(v.(int64))
	case 1:
		b.Description(v.(string))
	case 2:
		b.DateAdded(v.(time.Time))
	case 3:
		b.Price(v.(decimal.Decimal))
	}
	return nil
}

// Build returns the finished record.
func (b *ProductBuilder) Build() (Product, error) {
	var missing []string
	for i, ok := range b.set {
		if !ok {
			missing = append(missing, schema.Product.Field(i).Name)
		}
	}
	if len(missing) > 0 {
		return Product{}, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	return b.p, nil
}

// ProductTable is an append-only list of Product records.
type ProductTable struct {
	name string
	rows []Product
}

// NewProductTable creates an empty table.
func NewProductTable(name string) *ProductTable {
	return &ProductTable{name: name}
}

func (t *ProductTable) Name() string          { return t.name }
func (t *ProductTable) Schema() schema.Schema { return schema.Product }
func (t *ProductTable) Len() int              { return len(t.rows) }
func (t *ProductTable) Values(i int) []any    { return t.rows[i].Values() }

// Row returns record i.
func (t *ProductTable) Row(i int) Product { return t.rows[i] }

// Add appends a record.
func (t *ProductTable) Add(p Product) {
	t.rows = append(t.rows, p)
}
