// Package export writes frequency sweeps as CSV or Excel workbooks.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names used in exported workbooks.
const (
	SweepSheet   = "Sweep"
	SummarySheet = "Summary"

	defaultSheet = "Sheet1" // created by excelize.NewFile
)

var (
	// ErrShape indicates columns of unequal length or an empty table.
	ErrShape = errors.New("malformed table")
	// ErrFormat indicates an unsupported file extension.
	ErrFormat = errors.New("unsupported export format")
)

// Column is one named series of a sweep.
type Column struct {
	Name   string
	Values []float64
}

// Field is a named scalar shown on the summary sheet.
type Field struct {
	Name  string
	Value any
}

// Table is a set of equal-length columns plus optional summary fields.
type Table struct {
	Columns []Column
	Summary []Field
}

// Rows returns the common column length.
func (t Table) Rows() (int, error) {
	if len(t.Columns) == 0 {
		return 0, fmt.Errorf("%w: no columns", ErrShape)
	}
	n := len(t.Columns[0].Values)
	for _, c := range t.Columns[1:] {
		if len(c.Values) != n {
			return 0, fmt.Errorf("%w: column %q has %d rows, want %d", ErrShape, c.Name, len(c.Values), n)
		}
	}
	return n, nil
}

func (t Table) header() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Name
	}
	return h
}

// WriteCSV writes the columns with a header row. Summary fields are omitted.
func WriteCSV(w io.Writer, t Table) error {
	n, err := t.Rows()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.header()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	record := make([]string, len(t.Columns))
	for i := range n {
		for j, c := range t.Columns {
			record[j] = strconv.FormatFloat(c.Values[i], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) (Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("%w: missing header", ErrShape)
	}

	cols := make([]Column, len(records[0]))
	for j, name := range records[0] {
		cols[j] = Column{Name: name, Values: make([]float64, 0, len(records)-1)}
	}
	for i, rec := range records[1:] {
		for j, s := range rec {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Table{}, fmt.Errorf("row %d column %q: %w", i+1, cols[j].Name, err)
			}
			cols[j].Values = append(cols[j].Values, v)
		}
	}
	return Table{Columns: cols}, nil
}

// WriteXLSX writes a workbook with the columns on the sweep sheet and the
// summary fields, if any, on a second sheet.
func WriteXLSX(w io.Writer, t Table) error {
	n, err := t.Rows()
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(defaultSheet, SweepSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SweepSheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]any, len(t.Columns))
	for i, h := range t.header() {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	row := make([]any, len(t.Columns))
	for i := range n {
		for j, c := range t.Columns {
			row[j] = c.Values[i]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sweep sheet: %w", err)
	}

	if len(t.Summary) > 0 {
		if _, err := f.NewSheet(SummarySheet); err != nil {
			return fmt.Errorf("failed to add summary sheet: %w", err)
		}
		for i, fld := range t.Summary {
			if err := f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", i+1), fld.Name); err != nil {
				return err
			}
			if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", i+1), fld.Value); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save writes t to path, choosing CSV or XLSX by extension.
func Save(path string, t Table) (err error) {
	var write func(io.Writer, Table) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = WriteCSV
	case ".xlsx":
		write = WriteXLSX
	default:
		return fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return write(f, t)
}
