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

package writers

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/salesetl/core"
)

// Mock writer for CSV testing
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func newTable(t *testing.T) *core.Table {
	t.Helper()
	table, err := core.NewTable(
		core.NewColumn("id", core.IntColumn, []core.Cell{core.IntCell(1), core.IntCell(2)}),
		core.NewColumn("name", core.TextColumn, []core.Cell{core.TextCell("Smith, J"), core.MissingCell()}),
		core.NewColumn("price", core.FloatColumn, []core.Cell{core.FloatCell(100), core.MissingCell()}),
	)
	require.NoError(t, err)
	return table
}

// TestCSVWriter_BasicFunctionality tests header order, quoting and missing cells
func TestCSVWriter_BasicFunctionality(t *testing.T) {
	out, err := WriteCSV(context.Background(), newTable(t))
	require.NoError(t, err)

	assert.Equal(t, "id,name,price\n1,\"Smith, J\",100.0\n2,,\n", string(out))

	records, err := csv.NewReader(strings.NewReader(string(out))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestCSVWriter_Options(t *testing.T) {
	var sb strings.Builder
	writer := NewCSVWriter(&sb, WithComma(';'), WithUseCRLF(true), WithWriteHeader(false), WithNARep("NULL"))
	require.NoError(t, writer.WriteTable(context.Background(), newTable(t)))

	assert.Equal(t, "1;Smith, J;100.0\r\n2;NULL;NULL\r\n", sb.String())

	stats := writer.Stats()
	assert.Equal(t, int64(2), stats.RecordsWritten)
	assert.Equal(t, int64(1), stats.NullValueCounts["name"])
	assert.Equal(t, int64(1), stats.NullValueCounts["price"])
}

func TestCSVWriter_HeaderOnlyTable(t *testing.T) {
	table, err := core.NewTable(core.NewColumn("Sales", core.FloatColumn, nil))
	require.NoError(t, err)

	out, err := WriteCSV(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, "Sales\n", string(out))
}

func TestCSVWriter_WriteError(t *testing.T) {
	err := NewCSVWriter(failingWriter{}).WriteTable(context.Background(), newTable(t))
	require.Error(t, err)

	var writerErr *CSVWriterError
	assert.True(t, errors.As(err, &writerErr))
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{20, "20.0"},
		{25, "25.0"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{0.5, "0.5"},
		{-12.345, "-12.345"},
		{0.30000000000000004, "0.30000000000000004"},
		{1.0 / 3.0, "0.3333333333333333"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{0.000015, "1.5e-05"},
		{123456789012345.0, "123456789012345.0"},
		{9999999999999998, "9999999999999998.0"},
		{1e16, "1e+16"},
		{1.5e300, "1.5e+300"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFloat(tt.in), "FormatFloat(%v)", tt.in)
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "7", FormatCell(core.IntColumn, core.IntCell(7)))
	assert.Equal(t, "7.0", FormatCell(core.FloatColumn, core.IntCell(7)))
	assert.Equal(t, "abc", FormatCell(core.TextColumn, core.TextCell("abc")))
	assert.Equal(t, "", FormatCell(core.FloatColumn, core.MissingCell()))
}
