// Package export writes record collections as XML documents.
//
// A document has one root element named after the collection, holding one
// element per record named after the schema, each holding one element per
// field in schema order:
//
//	<?xml version="1.0" encoding="UTF-8"?>
//	<ProductStrongTyping>
//	  <Product>
//	    <ProductID>7</ProductID>
//	    <ProductDescription>Widget</ProductDescription>
//	    <DateAdded>2024-01-01T00:00:00Z</DateAdded>
//	    <Price>9.99</Price>
//	  </Product>
//	</ProductStrongTyping>
//
// Output depends only on the collection, so equal collections produce
// identical bytes.
package export

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nconklindev/xl2xml/internal/record"
	"github.com/nconklindev/xl2xml/internal/schema"

	"github.com/shopspring/decimal"
)

// Options controls optional parts of the document.
type Options struct {
	// WriteSchema adds a <schema> element listing each field and its type
	// ahead of the records.
	WriteSchema bool
}

// WriteFile writes c to path, replacing any existing file. The document is
// written to a temporary file in the same directory and renamed into place,
// so path holds either the previous contents or the complete new document.
func WriteFile(path string, c record.Collection, opts Options) (err error) {
	if err := checkNames(c); err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := Write(w, c, opts); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}

// checkNames rejects collections whose table, record or field names cannot
// be used as element names.
func checkNames(c record.Collection) error {
	s := c.Schema()
	for _, name := range append([]string{c.Name(), s.Name()}, fieldNames(c)...) {
		if !schema.ValidName(name) {
			return fmt.Errorf("write xml: %q is not a valid element name", name)
		}
	}
	return nil
}

// Write encodes c to w.
func Write(w io.Writer, c record.Collection, opts Options) error {
	if err := checkNames(c); err != nil {
		return err
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: c.Name()}}
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}

	if opts.WriteSchema {
		if err := writeSchema(enc, c); err != nil {
			return err
		}
	}

	for i := 0; i < c.Len(); i++ {
		if err := writeRecord(enc, c, c.Values(i)); err != nil {
			return fmt.Errorf("write xml: record %d: %w", i, err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func writeSchema(enc *xml.Encoder, c record.Collection) error {
	start := xml.StartElement{Name: xml.Name{Local: "schema"}}
	start.Attr = []xml.Attr{{Name: xml.Name{Local: "record"}, Value: c.Schema().Name()}}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	for _, f := range c.Schema().Fields() {
		el := xml.StartElement{
			Name: xml.Name{Local: "field"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "name"}, Value: f.Name},
				{Name: xml.Name{Local: "type"}, Value: f.Type.String()},
			},
		}
		if err := enc.EncodeToken(el); err != nil {
			return fmt.Errorf("write xml: %w", err)
		}
		if err := enc.EncodeToken(el.End()); err != nil {
			return fmt.Errorf("write xml: %w", err)
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("write xml: %w", err)
	}
	return nil
}

func writeRecord(enc *xml.Encoder, c record.Collection, values []any) error {
	s := c.Schema()
	if len(values) != s.Len() {
		return fmt.Errorf("%d values for %d fields", len(values), s.Len())
	}

	start := xml.StartElement{Name: xml.Name{Local: s.Name()}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for i, v := range values {
		text, err := FormatValue(v)
		if err != nil {
			return fmt.Errorf("field %s: %w", s.Field(i).Name, err)
		}
		el := xml.StartElement{Name: xml.Name{Local: s.Field(i).Name}}
		if err := enc.EncodeElement(text, el); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// FormatValue renders one field value as element text. Timestamps are
// RFC 3339 in UTC.
func FormatValue(v any) (string, error) {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case string:
		return v, nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case decimal.Decimal:
		return v.String(), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

func fieldNames(c record.Collection) []string {
	fields := c.Schema().Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
