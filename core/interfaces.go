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
	"context"
)

// Package core defines the core interfaces for the SalesETL transform.
//
// This file contains the interfaces for whole-table transformation and row filtering.

// Transformer defines the interface for table transformation steps.
// Transformers add, replace, or rewrite columns in place.
type Transformer interface {
	// Transform applies the transformation to the table.
	Transform(ctx context.Context, table *Table) error
}

// TransformFunc is a function adapter for the Transformer interface.
// Allows ordinary functions to be used as Transformers.
type TransformFunc func(ctx context.Context, table *Table) error

// Transform implements the Transformer interface for TransformFunc.
func (f TransformFunc) Transform(ctx context.Context, table *Table) error {
	return f(ctx, table)
}

// RowFilter defines the interface for row filtering.
// Filters determine whether a row should be kept in the table.
type RowFilter interface {
	// ShouldInclude returns true if the row should be kept.
	ShouldInclude(ctx context.Context, row []Cell) (bool, error)
}

// RowFilterFunc is a function adapter for the RowFilter interface.
type RowFilterFunc func(ctx context.Context, row []Cell) (bool, error)

// ShouldInclude implements the RowFilter interface for RowFilterFunc.
func (f RowFilterFunc) ShouldInclude(ctx context.Context, row []Cell) (bool, error) {
	return f(ctx, row)
}
