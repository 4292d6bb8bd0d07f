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

package salesetl

import (
	"github.com/aaronlmathis/salesetl/core"
)

// Package salesetl defines the core interfaces and types for the SalesETL transform.
//
// SalesETL reads a CSV object that landed in a storage bucket, derives profit
// margin and unit price columns, and writes the result to a processed location.
//
// The aliases below let callers build pipelines without importing core directly.

// Table is an ordered set of typed columns. See core.Table.
type Table = core.Table

// Transformer rewrites a table in place. See core.Transformer.
type Transformer = core.Transformer

// TransformFunc is a function adapter for the Transformer interface.
type TransformFunc = core.TransformFunc

// RowFilter decides whether a row is kept. See core.RowFilter.
type RowFilter = core.RowFilter

// RowFilterFunc is a function adapter for the RowFilter interface.
type RowFilterFunc = core.RowFilterFunc
