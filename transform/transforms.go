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

package transform

import (
	"context"
	"fmt"

	"github.com/aaronlmathis/salesetl/core"
)

// Package transform provides reusable, composable table transformations for SalesETL pipelines.
//
// This package includes computed columns, column copies, ratios, and missing value filling.
// All functions return core.Transformer implementations for use in pipelines.

// AddColumn creates a transformer that sets a column computed row by row.
// The value is computed by fn, which receives the table and the row index.
// An existing column of the same name is replaced in place; otherwise the
// column is appended.
func AddColumn(field string, typ core.ColumnType, fn func(t *core.Table, row int) core.Cell) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, table *core.Table) error {
		cells := make([]core.Cell, table.NumRows())
		for i := range cells {
			cells[i] = fn(table, i)
		}
		return table.SetColumn(core.NewColumn(field, typ, cells))
	})
}

// Copy creates a transformer that sets field to a copy of the source column,
// keeping its type.
func Copy(source, field string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, table *core.Table) error {
		src, ok := table.Column(source)
		if !ok {
			return fmt.Errorf("copy %s to %s: source column not found", source, field)
		}
		return table.SetColumn(src.Clone(field))
	})
}

// Ratio creates a transformer that sets field to numerator / denominator * scale
// for every row. The result is a float column. Missing or non-numeric operands
// and 0/0 give NaN; a non-zero value over zero gives an infinity.
func Ratio(field, numerator, denominator string, scale float64) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, table *core.Table) error {
		num, ok := table.Column(numerator)
		if !ok {
			return fmt.Errorf("ratio %s: numerator column %s not found", field, numerator)
		}
		den, ok := table.Column(denominator)
		if !ok {
			return fmt.Errorf("ratio %s: denominator column %s not found", field, denominator)
		}
		return AddColumn(field, core.FloatColumn, func(_ *core.Table, row int) core.Cell {
			n, _ := num.Cells[row].Number()
			d, _ := den.Cells[row].Number()
			return core.FloatCell(n / d * scale)
		}).Transform(ctx, table)
	})
}

// FillNumericMissing creates a transformer that replaces missing cells in
// integer and float columns with value. Text columns are left untouched.
func FillNumericMissing(value float64) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, table *core.Table) error {
		for _, col := range table.Columns() {
			if !col.Type.IsNumeric() {
				continue
			}
			for i, cell := range col.Cells {
				if !cell.IsMissing() {
					continue
				}
				if col.Type == core.IntColumn {
					col.Cells[i] = core.IntCell(int64(value))
				} else {
					col.Cells[i] = core.FloatCell(value)
				}
			}
		}
		return nil
	})
}
