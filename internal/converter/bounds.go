package converter

import "github.com/nconklindev/xl2xml/internal/workbook"

// Bounds is the region of a sheet to read: one header row followed by data
// rows, with the first schema field in StartColumn.
type Bounds struct {
	HeaderRow    int
	FirstDataRow int
	LastDataRow  int
	StartColumn  int
}

// Locate takes the first non-empty row as the header and every row after
// it, up to the last non-empty row, as data. Trailing rows that carry only
// formatting inflate the statistics of some producers; Locate trusts what
// it is given.
func Locate(st workbook.Stats) Bounds {
	return Bounds{
		HeaderRow:    st.StartRow,
		FirstDataRow: st.StartRow + 1,
		LastDataRow:  st.EndRow,
		StartColumn:  st.StartColumn,
	}
}

// Empty reports whether there are no data rows. That is a valid sheet,
// not an error.
func (b Bounds) Empty() bool {
	return b.LastDataRow < b.FirstDataRow
}

// Rows returns the number of data rows.
func (b Bounds) Rows() int {
	if b.Empty() {
		return 0
	}
	return b.LastDataRow - b.FirstDataRow + 1
}
