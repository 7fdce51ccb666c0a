// Package config loads run settings from the environment, after reading an
// optional .env file from the working directory. The program takes no
// flags; every setting has a default.
package config

// Config holds all settings for one run.
type Config struct {
	Input   InputConfig
	Output  OutputConfig
	UI      UIConfig
	Logging LoggingConfig
}

// InputConfig names the workbook and sheet to read.
type InputConfig struct {
	// File is the xlsx workbook to read
	File string `env:"INPUT_FILE" default:"ExportToDataTableExample.xlsx"`

	// Sheet is the worksheet holding the product table
	Sheet string `env:"INPUT_SHEET" default:"Sheet1"`
}

// OutputConfig names the two XML documents and their root elements.
type OutputConfig struct {
	BulkFile  string `env:"BULK_OUTPUT_FILE" default:"ExportToDataTableExampleStrongTyping.xml"`
	BulkTable string `env:"BULK_TABLE_NAME" default:"ProductStrongTyping"`

	TypedFile  string `env:"TYPED_OUTPUT_FILE" default:"ExportToDataTableExampleSchwarzeneggerTyping.xml"`
	TypedTable string `env:"TYPED_TABLE_NAME" default:"ProductSchwarzeneggerTyping"`

	// WriteSchema adds a <schema> element ahead of the records (default: false)
	WriteSchema bool `env:"EXPORT_WRITE_SCHEMA" default:"false"`
}

// UIConfig controls terminal output.
type UIConfig struct {
	// Enabled shows a progress bar while converting (default: true)
	Enabled bool `env:"UI_ENABLED" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File receives log output. When empty, logs go to stderr, or nowhere
	// while the progress UI is on.
	File string `env:"LOG_FILE"`
}
