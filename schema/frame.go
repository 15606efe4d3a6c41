package schema

// Frame is one bounded batch of raw tabular rows: an ordered header row and
// string cell values. Both source previews and chunks use this shape, so
// detection and normalization stay independent of the file format behind it.
type Frame struct {
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewFrame builds a Frame over the given headers and rows.
func NewFrame(headers []string, rows [][]string) *Frame {
	f := &Frame{Headers: headers, Rows: rows}
	f.index = make(map[string]int, len(headers))
	for i, h := range headers {
		// First occurrence wins for duplicate headers.
		if _, ok := f.index[h]; !ok {
			f.index[h] = i
		}
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// HasColumn reports whether the frame carries the given header.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Cell returns the value of the named column in the given row. Missing
// columns and ragged rows read as the empty string.
func (f *Frame) Cell(row int, name string) string {
	idx, ok := f.index[name]
	if !ok || row < 0 || row >= len(f.Rows) || idx >= len(f.Rows[row]) {
		return ""
	}
	return f.Rows[row][idx]
}

// Column returns all values of the named column, padded with empty strings
// for ragged rows. Nil when the column is absent.
func (f *Frame) Column(name string) []string {
	idx, ok := f.index[name]
	if !ok {
		return nil
	}
	values := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}
