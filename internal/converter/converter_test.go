package converter

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nconklindev/xl2xml/internal/export"
	"github.com/nconklindev/xl2xml/internal/record"
	"github.com/nconklindev/xl2xml/internal/schema"
	"github.com/nconklindev/xl2xml/internal/workbook"
	"github.com/nconklindev/xl2xml/internal/workbook/xlsxtest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(t *testing.T, input string) Options {
	dir := t.TempDir()
	return Options{
		InputFile:       input,
		Sheet:           "Sheet1",
		BulkOutputFile:  filepath.Join(dir, "bulk.xml"),
		BulkTableName:   "ProductStrongTyping",
		TypedOutputFile: filepath.Join(dir, "typed.xml"),
		TypedTableName:  "ProductSchwarzeneggerTyping",
		Logger:          slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
	}
}

func TestBuildStylesAgree(t *testing.T) {
	path := xlsxtest.Write(t, "products.xlsx", xlsxtest.Sheet{Origin: "B3", Rows: xlsxtest.Products()})
	sess, err := workbook.Open(path, "Sheet1")
	require.NoError(t, err)
	defer sess.Close()

	c := NewCoercer(sess)
	for row := 4; row <= 5; row++ {
		values, err := BuildValues(c, row, 2, schema.Product)
		require.NoError(t, err)

		p, err := BuildProduct(c, row, 2)
		require.NoError(t, err)

		assert.Equal(t, values, p.Values(), "row %d", row)
	}
}

func TestExtract(t *testing.T) {
	path := xlsxtest.Write(t, "products.xlsx", xlsxtest.Sheet{Rows: xlsxtest.Products()})

	progress := make(chan float64, 10)
	x, err := Extract(testOptions(t, path), progress)
	require.NoError(t, err)

	assert.Equal(t, Bounds{HeaderRow: 1, FirstDataRow: 2, LastDataRow: 3, StartColumn: 1}, x.Bounds)
	require.Equal(t, 2, x.Bulk.Len())
	require.Equal(t, 2, x.Typed.Len())

	want := []record.Product{
		{ProductID: 7, ProductDescription: "Widget", DateAdded: xlsxtest.Date(2024, time.January, 1), Price: decimal.RequireFromString("9.99")},
		{ProductID: 8, ProductDescription: "Gadget", DateAdded: xlsxtest.Date(2024, time.February, 1), Price: decimal.RequireFromString("19.50")},
	}
	for i, w := range want {
		got := x.Typed.Row(i)
		assert.Equal(t, w.ProductID, got.ProductID)
		assert.Equal(t, w.ProductDescription, got.ProductDescription)
		assert.True(t, w.DateAdded.Equal(got.DateAdded), "DateAdded = %v", got.DateAdded)
		assert.True(t, w.Price.Equal(got.Price), "Price = %s", got.Price)

		assert.Equal(t, x.Bulk.Values(i), x.Typed.Values(i))
	}

	close(progress)
	var last float64
	for p := range progress {
		assert.GreaterOrEqual(t, p, last)
		last = p
	}
	assert.Equal(t, 1.0, last)
}

func TestExtractRecordCount(t *testing.T) {
	header := xlsxtest.Products()[0]
	row := xlsxtest.Products()[1]

	for _, n := range []int{0, 1, 5, 20} {
		rows := [][]any{header}
		for i := 0; i < n; i++ {
			rows = append(rows, row)
		}
		path := xlsxtest.Write(t, "products.xlsx", xlsxtest.Sheet{Origin: "D2", Rows: rows})

		x, err := Extract(testOptions(t, path), nil)
		require.NoError(t, err)
		assert.Equal(t, n, x.Bulk.Len())
		assert.Equal(t, n, x.Typed.Len())
		assert.Equal(t, x.Stats.EndRow-x.Bounds.HeaderRow, x.Bulk.Len())
	}
}

func TestExtractEmptySheet(t *testing.T) {
	path := xlsxtest.Write(t, "empty.xlsx", xlsxtest.Sheet{})

	x, err := Extract(testOptions(t, path), nil)
	require.NoError(t, err)
	assert.True(t, x.Bounds.Empty())
	assert.Equal(t, 0, x.Bulk.Len())
	assert.Equal(t, 0, x.Typed.Len())
}

func TestExtractAbortsOnBadCell(t *testing.T) {
	rows := xlsxtest.Products()
	rows = append(rows, []any{"nine", "Thing", xlsxtest.Date(2024, time.March, 1), 1.25})
	path := xlsxtest.Write(t, "bad.xlsx", xlsxtest.Sheet{Rows: rows})

	_, err := Extract(testOptions(t, path), nil)

	var rbe *RowBuildError
	require.ErrorAs(t, err, &rbe)
	assert.Equal(t, 4, rbe.Row)
	assert.Equal(t, schema.ProductID, rbe.Field)

	var ce *CoercionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 4, ce.Row)
	assert.Equal(t, 1, ce.Column)
	assert.Equal(t, schema.FieldInteger, ce.Type)
}

func TestExtractMissingInput(t *testing.T) {
	_, err := Extract(testOptions(t, filepath.Join(t.TempDir(), "missing.xlsx")), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExport(t *testing.T) {
	path := xlsxtest.Write(t, "products.xlsx", xlsxtest.Sheet{Rows: xlsxtest.Products()})
	opts := testOptions(t, path)

	result, err := Export(opts, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2, result.RowsProcessed)
	require.Len(t, result.Outputs, 2)
	assert.Equal(t, opts.BulkOutputFile, result.Outputs[0].Path)
	assert.Equal(t, 3, result.Outputs[0].Records)
	assert.Equal(t, opts.TypedOutputFile, result.Outputs[1].Path)
	assert.Equal(t, 3, result.Outputs[1].Records)

	typed, err := os.ReadFile(opts.TypedOutputFile)
	require.NoError(t, err)
	want := `<?xml version="1.0" encoding="UTF-8"?>
<ProductSchwarzeneggerTyping>
  <Product>
    <ProductID>7</ProductID>
    <ProductDescription>Widget</ProductDescription>
    <DateAdded>2024-01-01T00:00:00Z</DateAdded>
    <Price>9.99</Price>
  </Product>
  <Product>
    <ProductID>8</ProductID>
    <ProductDescription>Gadget</ProductDescription>
    <DateAdded>2024-02-01T00:00:00Z</DateAdded>
    <Price>19.5</Price>
  </Product>
  <Product>
    <ProductID>2048</ProductID>
    <ProductDescription>I&#39;ll be back</ProductDescription>
    <DateAdded>2029-01-01T00:00:00Z</DateAdded>
    <Price>78371200</Price>
  </Product>
</ProductSchwarzeneggerTyping>
`
	assert.Equal(t, want, string(typed))

	bulk, err := os.ReadFile(opts.BulkOutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(bulk), "<ProductStrongTyping>")
	assert.Contains(t, string(bulk), "<ProductID>1024</ProductID>")
}

func TestExportIsReproducible(t *testing.T) {
	path := xlsxtest.Write(t, "products.xlsx", xlsxtest.Sheet{Rows: xlsxtest.Products()})

	first := testOptions(t, path)
	second := testOptions(t, path)
	_, err := Export(first, nil)
	require.NoError(t, err)
	_, err = Export(second, nil)
	require.NoError(t, err)

	for _, pair := range [][2]string{
		{first.BulkOutputFile, second.BulkOutputFile},
		{first.TypedOutputFile, second.TypedOutputFile},
	} {
		a, err := os.ReadFile(pair[0])
		require.NoError(t, err)
		b, err := os.ReadFile(pair[1])
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestExportWritesNothingOnFailure(t *testing.T) {
	rows := append(xlsxtest.Products(), []any{9, "Thing", "not a date", 1.25})
	path := xlsxtest.Write(t, "bad.xlsx", xlsxtest.Sheet{Rows: rows})
	opts := testOptions(t, path)

	_, err := Export(opts, nil)
	require.Error(t, err)

	_, statErr := os.Stat(opts.BulkOutputFile)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestExportRejectsBadTableName(t *testing.T) {
	path := xlsxtest.Write(t, "products.xlsx", xlsxtest.Sheet{Rows: xlsxtest.Products()})

	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"Bulk", func(o *Options) { o.BulkTableName = "1Bad" }},
		{"Typed", func(o *Options) { o.TypedTableName = "1Bad" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t, path)
			tt.modify(&opts)
			require.NoError(t, os.WriteFile(opts.BulkOutputFile, []byte("previous"), 0o644))

			_, err := Export(opts, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), `"1Bad"`)

			data, err := os.ReadFile(opts.BulkOutputFile)
			require.NoError(t, err)
			assert.Equal(t, "previous", string(data))

			_, statErr := os.Stat(opts.TypedOutputFile)
			assert.ErrorIs(t, statErr, os.ErrNotExist)
		})
	}
}

func TestCheckSchemas(t *testing.T) {
	other := schema.MustNew("Order", schema.Field{Name: "OrderID", Type: schema.FieldInteger})

	assert.NoError(t, checkSchemas(record.NewTable("Bulk", schema.Product), record.NewProductTable("Typed")))

	err := checkSchemas(record.NewProductTable("Typed"), record.NewTable("Orders", other))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table Orders: schema Order does not match Product")
}

func TestAppendSyntheticComesLast(t *testing.T) {
	x := &Extraction{
		Bulk:  record.NewTable("Bulk", schema.Product),
		Typed: record.NewProductTable("Typed"),
	}
	require.NoError(t, AppendSynthetic(x))
	require.NoError(t, AppendSynthetic(x))

	assert.Equal(t, 2, x.Typed.Len())
	assert.Equal(t, int64(2048), x.Typed.Row(1).ProductID)
	assert.Equal(t, int64(1024), x.Bulk.Values(1)[0])

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, x.Typed, export.Options{}))
	assert.Contains(t, buf.String(), "<Price>78371200</Price>")
}
