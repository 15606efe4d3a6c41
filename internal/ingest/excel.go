package ingest

import (
	"fmt"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
	"github.com/xuri/excelize/v2"
)

// ExcelSource reads one XLSX workbook. The first sheet with a header row and
// at least one data row is used; vendor exports put the data in the first
// sheet but sometimes behind empty cover sheets.
type ExcelSource struct {
	path string
}

var _ contract.Source = (*ExcelSource)(nil) // Compile-time check

// NewExcelSource creates a source over the given XLSX file.
func NewExcelSource(path string) *ExcelSource {
	return &ExcelSource{path: path}
}

// Path returns the file path.
func (s *ExcelSource) Path() string {
	return s.path
}

// Preview returns up to limit data rows after the header.
func (s *ExcelSource) Preview(limit int) (*schema.Frame, error) {
	headers, rows, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return schema.NewFrame(headers, rows), nil
}

// Chunks slices the loaded rows into batches of at most size rows. XLSX has
// no streaming row reader worth the complexity here; workbooks are small
// next to the CSV exports.
func (s *ExcelSource) Chunks(size int, fn func(*schema.Frame) error) error {
	headers, rows, err := s.load()
	if err != nil {
		return err
	}
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		if err := fn(schema.NewFrame(headers, rows[start:end])); err != nil {
			return err
		}
	}
	return nil
}

// load opens the workbook and returns the header row and data rows of the
// first usable sheet.
func (s *ExcelSource) load() ([]string, [][]string, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		return rows[0], rows[1:], nil
	}
	return nil, nil, fmt.Errorf("no sheet with data rows in %s", s.path)
}
