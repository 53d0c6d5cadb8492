// Package table reads and writes the CSV tables the pipeline operates on:
// the product export itself and the issue report.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"shopscrub/internal/core"
)

// Table is a header-ordered set of rows keyed by column name.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// Read loads a CSV file. The first line is the header; short rows are
// padded with empty strings so every row exposes every column.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()
	return ReadFrom(f)
}

// ReadFrom parses CSV from a reader.
func ReadFrom(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("read table: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read table header: %w", err)
	}

	t := &Table{Headers: header}
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table row %d: %w", len(t.Rows)+2, err)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Write serializes the table back to CSV, preserving header order. Missing
// fields come out as empty strings.
func Write(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	defer f.Close()
	if err := WriteTo(f, t); err != nil {
		return err
	}
	return f.Close()
}

// WriteTo serializes the table to a writer.
func WriteTo(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for i, row := range t.Rows {
		fields := make([]string, len(t.Headers))
		for j, h := range t.Headers {
			fields[j] = row[h]
		}
		if err := cw.Write(fields); err != nil {
			return fmt.Errorf("write table row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// issueHeaders is the fixed column order of the issue report.
var issueHeaders = []string{
	"Row", "Timestamp", "Handle", "Product Title", "Field",
	"Original", "Updated", "Reason", "Severity", "Phase",
}

// WriteIssues writes the issue report CSV. An empty issue list still
// produces a header-only file so downstream tooling finds the columns.
func WriteIssues(path string, issues []core.Issue) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create issue report: %w", err)
	}
	defer f.Close()
	if err := WriteIssuesTo(f, issues); err != nil {
		return err
	}
	return f.Close()
}

// WriteIssuesTo writes the issue report to a writer.
func WriteIssuesTo(w io.Writer, issues []core.Issue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(issueHeaders); err != nil {
		return fmt.Errorf("write issue header: %w", err)
	}
	for _, is := range issues {
		rec := []string{
			strconv.Itoa(is.Row),
			is.Timestamp.Format(time.RFC3339),
			is.Handle,
			is.ProductTitle,
			is.Field,
			is.Original,
			is.Updated,
			is.Reason,
			string(is.Severity),
			string(is.Phase),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write issue row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
