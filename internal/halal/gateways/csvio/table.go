// Package csvio reads material tables from CSV and writes them back
// atomically. The whole table is held in memory.
package csvio

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a CSV file has no header row.
	ErrEmptyInput = errors.New("csv input is empty")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")
)

// Table is a header plus rows. Every row has exactly len(Header) fields.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable builds a table, padding short rows to the header width.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmptyInput
	}
	t := &Table{Header: header, Rows: rows}
	for i, row := range t.Rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(header))
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		t.Rows[i] = row
	}
	t.reindex()
	return t, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		// first occurrence wins for duplicate headers
		if _, ok := t.index[h]; !ok {
			t.index[h] = i
		}
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns the index of a named column.
func (t *Table) Column(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// RequireColumn returns the index of a named column or ErrMissingColumn.
func (t *Table) RequireColumn(name string) (int, error) {
	i, ok := t.Column(name)
	if !ok {
		return -1, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	return i, nil
}

// EnsureColumn returns the index of a named column, appending an empty
// column when it does not exist yet.
func (t *Table) EnsureColumn(name string) int {
	if i, ok := t.Column(name); ok {
		return i
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], "")
	}
	idx := len(t.Header) - 1
	t.index[name] = idx
	return idx
}
