// Package converter extracts the product rows of a worksheet into typed
// record tables and writes them out as XML.
//
// Rows are read twice, once per construction style: positionally into a
// schema-driven record.Table and field by field into a
// record.ProductTable. Both hold the same values for the same sheet.
package converter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nconklindev/xl2xml/internal/export"
	"github.com/nconklindev/xl2xml/internal/record"
	"github.com/nconklindev/xl2xml/internal/schema"
	"github.com/nconklindev/xl2xml/internal/types"
	"github.com/nconklindev/xl2xml/internal/workbook"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options configures one run.
type Options struct {
	InputFile string
	Sheet     string

	BulkOutputFile  string
	BulkTableName   string
	TypedOutputFile string
	TypedTableName  string

	WriteSchema bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Extraction is the result of reading a sheet, before anything is
// appended or written.
type Extraction struct {
	Stats  workbook.Stats
	Bounds Bounds
	Bulk   *record.Table
	Typed  *record.ProductTable
}

// Extract opens the sheet, reads every data row into both tables and
// closes the workbook again, whether or not reading succeeded. The first
// row that cannot be read aborts the extraction.
func Extract(opts Options, progressChan chan<- float64) (*Extraction, error) {
	logger := opts.logger()

	sess, err := workbook.Open(opts.InputFile, opts.Sheet)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	stats, err := sess.Stats()
	if err != nil {
		return nil, err
	}
	bounds := Locate(stats)
	logger.Info("worksheet opened",
		"file", sess.Path(),
		"sheet", sess.Sheet(),
		"header_row", bounds.HeaderRow,
		"first_data_row", bounds.FirstDataRow,
		"last_data_row", bounds.LastDataRow,
		"start_column", bounds.StartColumn,
		"end_column", stats.EndColumn,
		"date1904", sess.Date1904(),
	)
	if bounds.Empty() {
		logger.Warn("worksheet has no data rows", "sheet", sess.Sheet())
	}
	if n := schema.Product.Len(); !stats.Empty() && stats.EndColumn-stats.StartColumn+1 < n {
		logger.Warn("worksheet is narrower than the schema",
			"columns", stats.EndColumn-stats.StartColumn+1, "fields", n)
	}

	// Both passes share one progress scale: the bulk pass fills the first
	// half, the typed pass the second.
	total := bounds.Rows() * 2
	reportProgress := func(current int) {
		if progressChan != nil && total > 0 {
			select {
			case progressChan <- float64(current) / float64(total):
			default:
			}
		}
	}

	c := NewCoercer(sess)

	bulk := record.NewTable(opts.BulkTableName, schema.Product)
	if err := LoadTable(c, bounds, bulk, reportProgress); err != nil {
		logger.Error("bulk load failed", "error", err)
		return nil, err
	}
	logger.Debug("bulk rows loaded", "table", bulk.Name(), "rows", bulk.Len())

	typed := record.NewProductTable(opts.TypedTableName)
	if err := LoadProducts(c, bounds, typed, func(done int) { reportProgress(bounds.Rows() + done) }); err != nil {
		logger.Error("typed load failed", "error", err)
		return nil, err
	}
	logger.Debug("typed rows loaded", "table", typed.Name(), "rows", typed.Len())

	if err := sess.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}

	return &Extraction{Stats: stats, Bounds: bounds, Bulk: bulk, Typed: typed}, nil
}

// AppendSynthetic adds one row built in code, not read from the sheet, to
// the end of each table.
func AppendSynthetic(x *Extraction) error {
	if err := x.Bulk.Add(
		int64(1024),
		"I change keyboards every month because they can't handle my strong typing skills",
		time.Date(2029, time.February, 1, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString("2.78"),
	); err != nil {
		return err
	}

	p, err := record.NewProduct().
		ID(2048).
		Description("I'll be back").
		DateAdded(time.Date(2029, time.January, 1, 0, 0, 0, 0, time.UTC)).
		Price(decimal.NewFromInt(78371200)).
		Build()
	if err != nil {
		return err
	}
	x.Typed.Add(p)
	return nil
}

// Export runs a full conversion: extract, append the synthetic rows and
// write one XML document per table.
func Export(opts Options, progressChan chan<- float64) (*types.ConversionResult, error) {
	runID := uuid.NewString()
	opts.Logger = opts.logger().With("run_id", runID)
	logger := opts.Logger

	for _, name := range []string{opts.BulkTableName, opts.TypedTableName} {
		if !schema.ValidName(name) {
			return nil, fmt.Errorf("table name %q is not a valid XML element name", name)
		}
	}

	x, err := Extract(opts, progressChan)
	if err != nil {
		return nil, err
	}
	rowsProcessed := x.Bulk.Len()

	if err := AppendSynthetic(x); err != nil {
		return nil, err
	}

	result := &types.ConversionResult{
		RunID:         runID,
		InputFile:     opts.InputFile,
		Sheet:         opts.Sheet,
		HeaderRow:     x.Bounds.HeaderRow,
		FirstDataRow:  x.Bounds.FirstDataRow,
		LastDataRow:   x.Bounds.LastDataRow,
		StartColumn:   x.Bounds.StartColumn,
		RowsProcessed: rowsProcessed,
	}

	xo := export.Options{WriteSchema: opts.WriteSchema}
	outputs := []struct {
		path string
		c    record.Collection
	}{
		{opts.BulkOutputFile, x.Bulk},
		{opts.TypedOutputFile, x.Typed},
	}
	if err := checkSchemas(x.Bulk, x.Typed); err != nil {
		return nil, err
	}
	for _, o := range outputs {
		if err := export.WriteFile(o.path, o.c, xo); err != nil {
			logger.Error("export failed", "file", o.path, "error", err)
			return nil, err
		}
		logger.Info("xml written", "file", o.path, "table", o.c.Name(), "records", o.c.Len())
		result.Outputs = append(result.Outputs, types.OutputFile{
			Path:    o.path,
			Table:   o.c.Name(),
			Records: o.c.Len(),
		})
	}

	return result, nil
}

// checkSchemas fails unless every collection is laid out as a Product.
func checkSchemas(cs ...record.Collection) error {
	for _, c := range cs {
		if !c.Schema().Equal(schema.Product) {
			return fmt.Errorf("table %s: schema %s does not match %s", c.Name(), c.Schema().Name(), schema.Product.Name())
		}
	}
	return nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
