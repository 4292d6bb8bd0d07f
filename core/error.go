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
	"fmt"
)

// Package core defines the error types for the SalesETL transform.

var (
	// ErrDuplicateColumn is returned when two columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrLengthMismatch is returned when a column does not match the table's row count.
	ErrLengthMismatch = errors.New("column length mismatch")
)

// TableError wraps structured error information for table operations.
type TableError struct {
	Op     string
	Column string
	Err    error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("table %s column %q: %v", e.Op, e.Column, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}
