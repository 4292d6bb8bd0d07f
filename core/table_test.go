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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intColumn(name string, values ...int64) *Column {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = IntCell(v)
	}
	return NewColumn(name, IntColumn, cells)
}

func TestFloatCell_NaNIsMissing(t *testing.T) {
	assert.True(t, FloatCell(math.NaN()).IsMissing())
	assert.False(t, FloatCell(math.Inf(1)).IsMissing())

	v, ok := FloatCell(2.5).Number()
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)
}

func TestCell_NumberOnNonNumeric(t *testing.T) {
	v, ok := TextCell("abc").Number()
	assert.False(t, ok)
	assert.True(t, math.IsNaN(v))

	v, ok = MissingCell().Number()
	assert.False(t, ok)
	assert.True(t, math.IsNaN(v))
}

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable(intColumn("a", 1, 2), intColumn("a", 3, 4))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	_, err = NewTable(intColumn("a", 1, 2), intColumn("b", 3))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLengthMismatch))

	var tableErr *TableError
	require.True(t, errors.As(err, &tableErr))
	assert.Equal(t, "b", tableErr.Column)
}

func TestTable_LookupIsCaseSensitive(t *testing.T) {
	table, err := NewTable(intColumn("Sales", 1))
	require.NoError(t, err)

	_, ok := table.Column("sales")
	assert.False(t, ok)

	col, ok := table.Column("Sales")
	require.True(t, ok)
	assert.Equal(t, "Sales", col.Name)
}

func TestTable_SetColumnAppendsOrReplaces(t *testing.T) {
	table, err := NewTable(intColumn("a", 1, 2), intColumn("b", 3, 4))
	require.NoError(t, err)

	require.NoError(t, table.SetColumn(intColumn("c", 5, 6)))
	assert.Equal(t, []string{"a", "b", "c"}, table.Names())

	require.NoError(t, table.SetColumn(intColumn("a", 7, 8)))
	assert.Equal(t, []string{"a", "b", "c"}, table.Names())
	col, _ := table.Column("a")
	assert.Equal(t, int64(7), col.Cells[0].Int)

	err = table.SetColumn(intColumn("d", 1))
	assert.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestTable_KeepRows(t *testing.T) {
	table, err := NewTable(intColumn("a", 1, 2, 3, 4), intColumn("b", 10, 20, 30, 40))
	require.NoError(t, err)

	removed := table.KeepRows(func(row int) bool { return row%2 == 1 })
	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, []Cell{IntCell(2), IntCell(20)}, table.Row(0))
	assert.Equal(t, []Cell{IntCell(4), IntCell(40)}, table.Row(1))

	assert.Equal(t, 0, table.KeepRows(func(int) bool { return true }))
}

func TestColumn_CloneIsIndependent(t *testing.T) {
	col := intColumn("a", 1, 2)
	clone := col.Clone("b")
	clone.Cells[0] = MissingCell()

	assert.Equal(t, "b", clone.Name)
	assert.Equal(t, IntColumn, clone.Type)
	assert.Equal(t, int64(1), col.Cells[0].Int)
	assert.Equal(t, 1, clone.MissingCount())
}
