package record

import (
	"errors"
	"testing"
	"time"

	"github.com/nconklindev/xl2xml/internal/schema"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func TestTableAdd(t *testing.T) {
	tbl := NewTable("Products", schema.Product)

	require.NoError(t, tbl.Add(int64(7), "Widget", day, decimal.RequireFromString("9.99")))
	require.NoError(t, tbl.Add(int64(8), "", day, decimal.Zero))

	assert.Equal(t, "Products", tbl.Name())
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []any{int64(8), "", day, decimal.Zero}, tbl.Values(1))
}

func TestTableAddRejects(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   error
	}{
		{"Too few", []any{int64(1), "x", day}, ErrArity},
		{"Too many", []any{int64(1), "x", day, decimal.Zero, "extra"}, ErrArity},
		{"Wrong integer type", []any{1, "x", day, decimal.Zero}, ErrTypeMismatch},
		{"Nil text", []any{int64(1), nil, day, decimal.Zero}, ErrTypeMismatch},
		{"Float price", []any{int64(1), "x", day, 9.99}, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := NewTable("Products", schema.Product)
			err := tbl.Add(tt.values...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Add() error = %v; want %v", err, tt.want)
			}
			assert.Equal(t, 0, tbl.Len())
		})
	}
}

func TestTableValuesIsCopy(t *testing.T) {
	tbl := NewTable("Products", schema.Product)
	require.NoError(t, tbl.Add(int64(7), "Widget", day, decimal.Zero))

	v := tbl.Values(0)
	v[1] = "Changed"
	assert.Equal(t, "Widget", tbl.Values(0)[1])
}

func TestProductBuilder(t *testing.T) {
	p, err := NewProduct().
		ID(2048).
		Description("I'll be back").
		DateAdded(time.Date(2029, time.January, 1, 0, 0, 0, 0, time.UTC)).
		Price(decimal.NewFromInt(78371200)).
		Build()
	require.NoError(t, err)

	assert.Equal(t, int64(2048), p.ProductID)
	assert.Equal(t, "I'll be back", p.ProductDescription)
	assert.Equal(t, []any{p.ProductID, p.ProductDescription, p.DateAdded, p.Price}, p.Values())
}

func TestProductBuilderIncomplete(t *testing.T) {
	_, err := NewProduct().ID(1).Price(decimal.Zero).Build()
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "ProductDescription, DateAdded")
}

func TestNewProductStartsAtDefaults(t *testing.T) {
	b := NewProduct()
	assert.Equal(t, schema.Product.Zero(), b.p.Values())
	assert.True(t, b.p.DateAdded.IsZero())
	assert.Equal(t, [4]bool{}, b.set)
}

func TestProductBuilderSet(t *testing.T) {
	b := NewProduct()
	require.NoError(t, b.Set(schema.ProductID, int64(7)))
	require.NoError(t, b.Set(schema.ProductDescription, "Widget"))
	require.NoError(t, b.Set(schema.DateAdded, day))
	require.NoError(t, b.Set(schema.Price, decimal.RequireFromString("9.99")))

	p, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ProductID)
	assert.Equal(t, day, p.DateAdded)

	assert.Error(t, b.Set("Colour", "red"))
	assert.ErrorIs(t, b.Set(schema.ProductID, "7"), ErrTypeMismatch)
}

func TestProductTableMatchesTable(t *testing.T) {
	price := decimal.RequireFromString("19.50")

	generic := NewTable("Generic", schema.Product)
	require.NoError(t, generic.Add(int64(8), "Gadget", day, price))

	typed := NewProductTable("Typed")
	p, err := NewProduct().ID(8).Description("Gadget").DateAdded(day).Price(price).Build()
	require.NoError(t, err)
	typed.Add(p)

	var c Collection = typed
	assert.True(t, c.Schema().Equal(generic.Schema()))
	assert.Equal(t, generic.Values(0), c.Values(0))
	assert.Equal(t, p, typed.Row(0))
}
