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
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aaronlmathis/salesetl/core"
)

// CSVWriterError wraps CSV-specific write errors with context.
type CSVWriterError struct {
	Op  string
	Err error
}

func (e *CSVWriterError) Error() string {
	return fmt.Sprintf("csv writer %s: %v", e.Op, e.Err)
}

func (e *CSVWriterError) Unwrap() error {
	return e.Err
}

// CSVWriterStats holds CSV write statistics.
type CSVWriterStats struct {
	RecordsWritten  int64
	WriteDuration   time.Duration
	NullValueCounts map[string]int64
}

// CSVWriterOptions configures CSV output.
type CSVWriterOptions struct {
	Comma       rune
	UseCRLF     bool
	WriteHeader bool
	NARep       string
}

// WriterOptionCSV is a functional option.
type WriterOptionCSV func(*CSVWriterOptions)

func WithComma(delim rune) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.Comma = delim
	}
}

func WithWriteHeader(write bool) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.WriteHeader = write
	}
}

func WithUseCRLF(useCRLF bool) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.UseCRLF = useCRLF
	}
}

// WithNARep sets the text written for missing cells. Defaults to the empty string.
func WithNARep(rep string) WriterOptionCSV {
	return func(opts *CSVWriterOptions) {
		opts.NARep = rep
	}
}

// CSVWriter serializes a core.Table as delimited text, header row first and
// without a row index column.
type CSVWriter struct {
	writer  *csv.Writer
	options CSVWriterOptions
	stats   CSVWriterStats
}

// NewCSVWriter creates a new CSV writer.
func NewCSVWriter(w io.Writer, opts ...WriterOptionCSV) *CSVWriter {
	options := CSVWriterOptions{
		Comma:       ',',
		UseCRLF:     false,
		WriteHeader: true,
	}

	for _, opt := range opts {
		opt(&options)
	}

	cw := csv.NewWriter(w)
	cw.Comma = options.Comma
	cw.UseCRLF = options.UseCRLF

	return &CSVWriter{
		writer:  cw,
		options: options,
		stats:   CSVWriterStats{NullValueCounts: make(map[string]int64)},
	}
}

// WriteCSV serializes the table and returns the encoded bytes.
func WriteCSV(ctx context.Context, table *core.Table, opts ...WriterOptionCSV) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewCSVWriter(&buf, opts...).WriteTable(ctx, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTable writes the header and every row, then flushes.
func (c *CSVWriter) WriteTable(ctx context.Context, table *core.Table) error {
	start := time.Now()
	defer func() { c.stats.WriteDuration += time.Since(start) }()

	columns := table.Columns()

	if c.options.WriteHeader {
		if err := c.writer.Write(table.Names()); err != nil {
			return &CSVWriterError{Op: "write_header", Err: err}
		}
	}

	row := make([]string, len(columns))
	for i := 0; i < table.NumRows(); i++ {
		select {
		case <-ctx.Done():
			return &CSVWriterError{Op: "write", Err: ctx.Err()}
		default:
		}

		for j, col := range columns {
			cell := col.Cells[i]
			if cell.IsMissing() {
				c.stats.NullValueCounts[col.Name]++
				row[j] = c.options.NARep
				continue
			}
			row[j] = FormatCell(col.Type, cell)
		}
		if err := c.writer.Write(row); err != nil {
			return &CSVWriterError{
				Op:  "write_row",
				Err: fmt.Errorf("failed to write CSV row %d: %w", i, err),
			}
		}
		c.stats.RecordsWritten++
	}

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return &CSVWriterError{Op: "flush", Err: err}
	}
	return nil
}

// Stats returns write statistics.
func (c *CSVWriter) Stats() CSVWriterStats {
	return c.stats
}

// FormatCell renders a non-missing cell the way its column type prints it.
// Integer columns print integers; float columns print floats.
func FormatCell(typ core.ColumnType, cell core.Cell) string {
	switch cell.Kind {
	case core.Missing:
		return ""
	case core.Text:
		return cell.Str
	}
	if typ == core.IntColumn {
		return strconv.FormatInt(cell.Int, 10)
	}
	return FormatFloat(cell.Float)
}

// FormatFloat renders f as the shortest decimal that round-trips, always with
// a fractional part ("20.0"), switching to exponent form below 1e-4 or at
// 1e16 and above ("1e-05", "1.5e+16"). NaN renders empty.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	// e.g. "-1.2345e+02"
	s := strconv.FormatFloat(f, 'e', -1, 64)
	sign := ""
	if s[0] == '-' {
		sign = "-"
		s = s[1:]
	}
	mantissa, expPart, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mantissa, ".", "", 1)

	if exp < -4 || exp >= 16 {
		m := digits[:1]
		if len(digits) > 1 {
			m += "." + digits[1:]
		}
		expSign := "+"
		if exp < 0 {
			expSign = "-"
			exp = -exp
		}
		return fmt.Sprintf("%s%se%s%02d", sign, m, expSign, exp)
	}

	var intPart, fracPart string
	switch {
	case exp < 0:
		intPart = "0"
		fracPart = strings.Repeat("0", -exp-1) + digits
	case len(digits) <= exp+1:
		intPart = digits + strings.Repeat("0", exp+1-len(digits))
		fracPart = "0"
	default:
		intPart = digits[:exp+1]
		fracPart = digits[exp+1:]
	}
	return sign + intPart + "." + fracPart
}
