package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter streams rows to an io.Writer.
type CSVWriter struct {
	writer *csv.Writer
	rows   int
}

// NewCSVWriter writes the optional BOM and the header row.
func NewCSVWriter(w io.Writer, headers []string, options WriteOptions) (*CSVWriter, error) {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := &CSVWriter{writer: csv.NewWriter(w)}
	if len(headers) > 0 {
		if err := cw.writer.Write(headers); err != nil {
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}
	return cw, nil
}

// WriteRecord writes a single record
func (c *CSVWriter) WriteRecord(record []string) error {
	if err := c.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record %d: %w", c.rows, err)
	}
	c.rows++
	return nil
}

// Close flushes buffered rows.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.writer.Error()
}

// WriteCSV writes headers and records in one call.
func WriteCSV(w io.Writer, headers []string, records [][]string, options WriteOptions) error {
	cw, err := NewCSVWriter(w, headers, options)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := cw.WriteRecord(record); err != nil {
			return err
		}
	}
	return cw.Close()
}
