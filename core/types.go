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

import "math"

// Package core defines the core types for the SalesETL transform.
//
// A Table holds columns of tagged cells. Each cell is either missing, a number,
// or text, and the kind is fixed when the CSV is parsed so later steps never
// need to guess at types.
//
// This file contains the cell and column type definitions.

// Kind tags the variant held by a Cell.
type Kind uint8

const (
	// Missing marks an empty or NA cell.
	Missing Kind = iota
	// Number marks a cell holding a float64 (and, for integer columns, an int64).
	Number
	// Text marks a cell holding a string that is not a number.
	Text
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is a single tagged value in a column.
type Cell struct {
	Kind  Kind
	Float float64
	Int   int64
	Str   string
}

// MissingCell returns a cell with no value.
func MissingCell() Cell {
	return Cell{Kind: Missing}
}

// IntCell returns a numeric cell carrying an exact integer.
func IntCell(v int64) Cell {
	return Cell{Kind: Number, Float: float64(v), Int: v}
}

// FloatCell returns a numeric cell. NaN is stored as a missing cell, matching
// how floating-point columns represent absent values.
func FloatCell(v float64) Cell {
	if math.IsNaN(v) {
		return MissingCell()
	}
	return Cell{Kind: Number, Float: v, Int: int64(v)}
}

// TextCell returns a text cell.
func TextCell(s string) Cell {
	return Cell{Kind: Text, Str: s}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == Missing
}

// Number returns the numeric value of the cell. Missing and text cells report
// NaN and false.
func (c Cell) Number() (float64, bool) {
	if c.Kind != Number {
		return math.NaN(), false
	}
	return c.Float, true
}

// ColumnType is the type a column was given when it was parsed or derived.
type ColumnType uint8

const (
	// TextColumn holds at least one non-numeric value.
	TextColumn ColumnType = iota
	// IntColumn holds only integers and no missing values.
	IntColumn
	// FloatColumn holds numbers and possibly missing values.
	FloatColumn
)

func (t ColumnType) String() string {
	switch t {
	case IntColumn:
		return "int"
	case FloatColumn:
		return "float"
	default:
		return "text"
	}
}

// IsNumeric reports whether the column type is integer or floating point.
func (t ColumnType) IsNumeric() bool {
	return t == IntColumn || t == FloatColumn
}
