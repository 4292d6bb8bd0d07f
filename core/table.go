//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Copyright (C) 2025 Aaron Mathis aaron.mathis@gmail.com
//
// This file is part of SalesETL.
//
// SalesETL is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SalesETL is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with SalesETL. If not, see https://www.gnu.org/licenses/.

package core

import (
	"fmt"
)

// Column is a named, typed sequence of cells aligned by row index.
type Column struct {
	Name  string
	Type  ColumnType
	Cells []Cell
}

// NewColumn creates a column with the given name, type, and cells.
func NewColumn(name string, typ ColumnType, cells []Cell) *Column {
	return &Column{Name: name, Type: typ, Cells: cells}
}

// Clone returns a deep copy of the column under a new name.
func (c *Column) Clone(name string) *Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return &Column{Name: name, Type: c.Type, Cells: cells}
}

// MissingCount returns the number of missing cells in the column.
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

// Table is an ordered set of equally sized columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable builds a table from columns. All columns must have the same number
// of cells and distinct names.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if i == 0 {
			t.rows = len(col.Cells)
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, &TableError{Op: "new_table", Column: col.Name, Err: ErrDuplicateColumn}
		}
		if len(col.Cells) != t.rows {
			return nil, &TableError{
				Op:     "new_table",
				Column: col.Name,
				Err:    fmt.Errorf("%w: got %d cells, want %d", ErrLengthMismatch, len(col.Cells), t.rows),
			}
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.rows
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Column looks up a column by its exact, case-sensitive name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// HasColumn reports whether a column with the exact name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// SetColumn appends the column, or replaces an existing column of the same
// name in place so the column order is preserved.
func (t *Table) SetColumn(col *Column) error {
	if len(col.Cells) != t.rows {
		return &TableError{
			Op:     "set_column",
			Column: col.Name,
			Err:    fmt.Errorf("%w: got %d cells, want %d", ErrLengthMismatch, len(col.Cells), t.rows),
		}
	}
	if i, ok := t.index[col.Name]; ok {
		t.columns[i] = col
		return nil
	}
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
	return nil
}

// Row returns a copy of the cells at row i, in column order.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.Cells[i]
	}
	return row
}

// KeepRows retains only the rows for which keep returns true and returns the
// number of rows removed. Kept rows preserve their relative order.
func (t *Table) KeepRows(keep func(row int) bool) int {
	kept := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if keep(i) {
			kept = append(kept, i)
		}
	}
	if len(kept) == t.rows {
		return 0
	}
	for _, col := range t.columns {
		cells := make([]Cell, len(kept))
		for j, i := range kept {
			cells[j] = col.Cells[i]
		}
		col.Cells = cells
	}
	removed := t.rows - len(kept)
	t.rows = len(kept)
	return removed
}
