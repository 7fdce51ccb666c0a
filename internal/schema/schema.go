// Package schema declares the fixed, ordered field layouts that extracted
// records conform to.
package schema

import (
	"fmt"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// FieldType is the semantic type of a field.
type FieldType int

const (
	FieldInteger FieldType = iota
	FieldText
	FieldTimestamp
	FieldDecimal
)

func (t FieldType) String() string {
	switch t {
	case FieldInteger:
		return "integer"
	case FieldText:
		return "text"
	case FieldTimestamp:
		return "timestamp"
	case FieldDecimal:
		return "decimal"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// Zero returns the default value for the type. Timestamps default to the
// zero time, never to the wall clock.
func (t FieldType) Zero() any {
	switch t {
	case FieldInteger:
		return int64(0)
	case FieldText:
		return ""
	case FieldTimestamp:
		return time.Time{}
	case FieldDecimal:
		return decimal.Zero
	default:
		return nil
	}
}

// Accepts reports whether v has the Go type used to hold values of t.
func (t FieldType) Accepts(v any) bool {
	switch v.(type) {
	case int64:
		return t == FieldInteger
	case string:
		return t == FieldText
	case time.Time:
		return t == FieldTimestamp
	case decimal.Decimal:
		return t == FieldDecimal
	default:
		return false
	}
}

// Field describes one column of a record.
type Field struct {
	Name string
	Type FieldType
}

// Schema is a named, ordered list of fields. Field order defines the column
// offset each field is read from. A Schema is never modified after New.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// New builds a schema from fields in order. The name labels one record;
// field names must be unique and non-empty.
func New(name string, fields ...Field) (Schema, error) {
	if name == "" {
		return Schema{}, fmt.Errorf("schema has no name")
	}
	s := Schema{
		name:   name,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("field %d has no name", i)
		}
		if _, dup := s.index[f.Name]; dup {
			return Schema{}, fmt.Errorf("duplicate field %q", f.Name)
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s, nil
}

// MustNew is New for package-level schemas.
func MustNew(name string, fields ...Field) Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the record label.
func (s Schema) Name() string { return s.name }

// Len returns the number of fields.
func (s Schema) Len() int { return len(s.fields) }

// Field returns the field at position i.
func (s Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the field list.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Index returns the position of the named field.
func (s Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Zero returns one default value per field, in schema order.
func (s Schema) Zero() []any {
	out := make([]any, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Type.Zero()
	}
	return out
}

// Equal reports whether both schemas have the same name and the same
// fields in the same order.
func (s Schema) Equal(o Schema) bool {
	if s.name != o.name || len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != o.fields[i] {
			return false
		}
	}
	return true
}

// ValidName reports whether s can be used as an XML element name: a letter
// or underscore followed by letters, digits, underscores, hyphens or dots.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
