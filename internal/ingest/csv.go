package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pulsewatch/pulsewatch/internal/contract"
	"github.com/pulsewatch/pulsewatch/schema"
)

// CSVSource reads one CSV file. Each Preview/Chunks call opens the file
// fresh, so the source itself holds no state between calls.
type CSVSource struct {
	path string
}

var _ contract.Source = (*CSVSource)(nil) // Compile-time check

// NewCSVSource creates a source over the given CSV file.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Path returns the file path.
func (s *CSVSource) Path() string {
	return s.path
}

// Preview returns up to limit data rows after the header.
func (s *CSVSource) Preview(limit int) (*schema.Frame, error) {
	file, reader, err := s.open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	rows, _, err := readRows(reader, limit)
	if err != nil {
		return nil, err
	}
	return schema.NewFrame(headers, rows), nil
}

// Chunks reads the whole file in batches of at most size data rows.
func (s *CSVSource) Chunks(size int, fn func(*schema.Frame) error) error {
	file, reader, err := s.open()
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("reading CSV header: %w", err)
	}
	for {
		rows, eof, err := readRows(reader, size)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := fn(schema.NewFrame(headers, rows)); err != nil {
				return err
			}
		}
		if eof {
			return nil
		}
	}
}

func (s *CSVSource) open() (*os.File, *csv.Reader, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, nil, err
	}
	reader := csv.NewReader(file)
	// Health exports are frequently ragged; tolerate varying field counts.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return file, reader, nil
}

// readRows reads up to limit records. The bool result reports end of file.
func readRows(reader *csv.Reader, limit int) ([][]string, bool, error) {
	var rows [][]string
	for len(rows) < limit {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, true, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("reading CSV row: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, false, nil
}
