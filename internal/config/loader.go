package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/nconklindev/xl2xml/internal/schema"

	"github.com/joho/godotenv"
)

// Load reads .env (if present) and the environment, applies defaults and
// validates the result. Variables already set in the environment win over
// .env.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config load: .env: %w", err)
	}

	cfg := &Config{}
	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value, ok := os.LookupEnv(envName)
		if !ok || value == "" {
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.Input.File) == "" {
		errs = append(errs, "INPUT_FILE must not be empty")
	}
	if strings.TrimSpace(c.Input.Sheet) == "" {
		errs = append(errs, "INPUT_SHEET must not be empty")
	}

	if c.Output.BulkFile == "" || c.Output.TypedFile == "" {
		errs = append(errs, "BULK_OUTPUT_FILE and TYPED_OUTPUT_FILE must not be empty")
	} else if c.Output.BulkFile == c.Output.TypedFile {
		errs = append(errs, fmt.Sprintf("BULK_OUTPUT_FILE and TYPED_OUTPUT_FILE must differ (both %q)", c.Output.BulkFile))
	}
	for _, table := range []struct{ env, name string }{
		{"BULK_TABLE_NAME", c.Output.BulkTable},
		{"TYPED_TABLE_NAME", c.Output.TypedTable},
	} {
		if !schema.ValidName(table.name) {
			errs = append(errs, fmt.Sprintf("%s (%q) must be a valid XML element name", table.env, table.name))
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a one-line representation for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Input: {File: %q, Sheet: %q}, ", c.Input.File, c.Input.Sheet))
	b.WriteString(fmt.Sprintf("Output: {BulkFile: %q, BulkTable: %q, TypedFile: %q, TypedTable: %q, WriteSchema: %v}, ",
		c.Output.BulkFile, c.Output.BulkTable, c.Output.TypedFile, c.Output.TypedTable, c.Output.WriteSchema))
	b.WriteString(fmt.Sprintf("UI: {Enabled: %v}, ", c.UI.Enabled))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, File: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.File))
	b.WriteString("}")
	return b.String()
}
