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

package filter

import (
	"context"

	"github.com/aaronlmathis/salesetl/core"
)

// Package filter provides row filters for SalesETL pipelines.
//
// All functions return core.RowFilter implementations.

// AnyPresent creates a filter that keeps rows with at least one non-missing
// cell. Rows where every cell is missing are dropped; all other rows are kept
// unchanged.
func AnyPresent() core.RowFilter {
	return core.RowFilterFunc(func(ctx context.Context, row []core.Cell) (bool, error) {
		for _, cell := range row {
			if !cell.IsMissing() {
				return true, nil
			}
		}
		return false, nil
	})
}
