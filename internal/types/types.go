package types

// ConversionResult summarizes one run.
type ConversionResult struct {
	RunID         string
	InputFile     string
	Sheet         string
	HeaderRow     int
	FirstDataRow  int
	LastDataRow   int
	StartColumn   int
	RowsProcessed int
	Outputs       []OutputFile
}

// OutputFile is one written document.
type OutputFile struct {
	Path    string
	Table   string
	Records int
}
