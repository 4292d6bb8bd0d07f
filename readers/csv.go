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

package readers

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aaronlmathis/salesetl/core"
)

var (
	// ErrNoColumns is returned when the input has no header row.
	ErrNoColumns = errors.New("no columns to parse from file")
	// ErrInvalidUTF8 is returned when the input is not valid UTF-8 text.
	ErrInvalidUTF8 = errors.New("input is not valid utf-8")
)

// DefaultNAValues are the cell contents treated as missing, in addition to the
// empty string.
var DefaultNAValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVReaderError wraps structured error information for the CSV reader.
type CSVReaderError struct {
	Op  string
	Err error
}

func (e *CSVReaderError) Error() string {
	return fmt.Sprintf("csv reader %s: %v", e.Op, e.Err)
}

func (e *CSVReaderError) Unwrap() error {
	return e.Err
}

// CSVReaderStats holds statistics about the CSV reader's performance.
type CSVReaderStats struct {
	RecordsRead     int64
	ReadDuration    time.Duration
	NullValueCounts map[string]int64
}

// CSVReaderOptions configures the CSV reader.
type CSVReaderOptions struct {
	Comma      rune
	Comment    rune
	LazyQuotes bool
	NAValues   []string
}

// ReaderOptionCSV allows functional customization of CSVReader.
type ReaderOptionCSV func(*CSVReaderOptions)

func WithCSVComma(r rune) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.Comma = r }
}

func WithCSVComment(r rune) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.Comment = r }
}

func WithCSVLazyQuotes(lazy bool) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.LazyQuotes = lazy }
}

// WithCSVNAValues replaces the set of tokens read as missing values.
// The empty string is always missing.
func WithCSVNAValues(values ...string) ReaderOptionCSV {
	return func(o *CSVReaderOptions) { o.NAValues = append([]string(nil), values...) }
}

// CSVReader parses delimited text into a core.Table.
type CSVReader struct {
	reader *csv.Reader
	stats  CSVReaderStats
	opts   CSVReaderOptions
	na     map[string]struct{}
}

// NewCSVReader creates a CSVReader with default or overridden options.
func NewCSVReader(r io.Reader, options ...ReaderOptionCSV) *CSVReader {
	opts := CSVReaderOptions{
		Comma:      ',',
		LazyQuotes: true,
		NAValues:   DefaultNAValues,
	}

	for _, opt := range options {
		opt(&opts)
	}

	csvReader := csv.NewReader(r)
	csvReader.Comma = opts.Comma
	csvReader.Comment = opts.Comment
	csvReader.LazyQuotes = opts.LazyQuotes
	csvReader.FieldsPerRecord = -1

	na := make(map[string]struct{}, len(opts.NAValues)+1)
	na[""] = struct{}{}
	for _, v := range opts.NAValues {
		na[v] = struct{}{}
	}

	return &CSVReader{
		reader: csvReader,
		opts:   opts,
		na:     na,
		stats:  CSVReaderStats{NullValueCounts: make(map[string]int64)},
	}
}

// ReadCSV decodes data as UTF-8 text and parses it into a table.
// A leading byte order mark is ignored.
func ReadCSV(ctx context.Context, data []byte, options ...ReaderOptionCSV) (*core.Table, error) {
	if !utf8.Valid(data) {
		return nil, &CSVReaderError{Op: "decode", Err: ErrInvalidUTF8}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	return NewCSVReader(bytes.NewReader(data), options...).ReadTable(ctx)
}

// ReadTable reads the header row and every data row, then types each column.
//
// A column is an integer column when every cell is an integer and none is
// missing, a float column when every non-missing cell is a number, and a text
// column otherwise. Rows shorter than the header are padded with missing cells;
// longer rows are an error. Lines holding only whitespace are skipped.
func (c *CSVReader) ReadTable(ctx context.Context) (*core.Table, error) {
	start := time.Now()
	defer func() { c.stats.ReadDuration += time.Since(start) }()

	header, err := c.readLine()
	if err != nil {
		if err == io.EOF {
			return nil, &CSVReaderError{Op: "read_headers", Err: ErrNoColumns}
		}
		return nil, &CSVReaderError{Op: "read_headers", Err: err}
	}
	names := normalizeHeaders(header)

	raw := make([][]string, len(names))
	for {
		select {
		case <-ctx.Done():
			return nil, &CSVReaderError{Op: "read", Err: ctx.Err()}
		default:
		}

		record, err := c.readLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &CSVReaderError{Op: "read_record", Err: err}
		}
		if len(record) > len(names) {
			line, _ := c.reader.FieldPos(0)
			return nil, &CSVReaderError{
				Op:  "read_record",
				Err: fmt.Errorf("expected %d fields in line %d, saw %d", len(names), line, len(record)),
			}
		}
		for i := range names {
			if i < len(record) {
				raw[i] = append(raw[i], record[i])
			} else {
				raw[i] = append(raw[i], "")
			}
		}
		c.stats.RecordsRead++
	}

	columns := make([]*core.Column, len(names))
	for i, name := range names {
		columns[i] = c.buildColumn(name, raw[i], int(c.stats.RecordsRead))
	}

	table, err := core.NewTable(columns...)
	if err != nil {
		return nil, &CSVReaderError{Op: "build_table", Err: err}
	}
	return table, nil
}

// readLine returns the next record that is not a blank line. encoding/csv
// already skips empty lines; a line of spaces comes back as one field.
func (c *CSVReader) readLine() ([]string, error) {
	for {
		record, err := c.reader.Read()
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		return record, nil
	}
}

// Stats returns CSV reader performance stats.
func (c *CSVReader) Stats() CSVReaderStats {
	return c.stats
}

// buildColumn infers the column type from its raw values and converts every cell.
func (c *CSVReader) buildColumn(name string, values []string, rows int) *core.Column {
	if values == nil {
		values = make([]string, rows)
	}

	var (
		numbers  = make([]float64, len(values))
		ints     = make([]int64, len(values))
		missing  = make([]bool, len(values))
		allInt   = true
		allNum   = true
		anyValue bool
	)

	for i, v := range values {
		if c.isNA(v) {
			missing[i] = true
			continue
		}
		s := strings.TrimSpace(v)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			ints[i] = n
			numbers[i] = float64(n)
			anyValue = true
			continue
		}
		allInt = false
		if isHexLiteral(s) {
			allNum = false
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !isRangeErr(err) {
			allNum = false
			continue
		}
		if math.IsNaN(f) {
			missing[i] = true
			continue
		}
		numbers[i] = f
		anyValue = true
	}

	cells := make([]core.Cell, len(values))
	nulls := int64(0)
	for i := range missing {
		if missing[i] {
			nulls++
		}
	}
	if nulls > 0 {
		c.stats.NullValueCounts[name] += nulls
	}

	switch {
	case allNum && allInt && anyValue && nulls == 0:
		for i := range cells {
			cells[i] = core.IntCell(ints[i])
		}
		return core.NewColumn(name, core.IntColumn, cells)
	case allNum:
		for i := range cells {
			if missing[i] {
				cells[i] = core.MissingCell()
			} else {
				cells[i] = core.FloatCell(numbers[i])
			}
		}
		return core.NewColumn(name, core.FloatColumn, cells)
	default:
		for i, v := range values {
			if missing[i] {
				cells[i] = core.MissingCell()
			} else {
				cells[i] = core.TextCell(v)
			}
		}
		return core.NewColumn(name, core.TextColumn, cells)
	}
}

func (c *CSVReader) isNA(v string) bool {
	_, ok := c.na[v]
	return ok
}

// isRangeErr reports whether a float parse failed only because the value is
// out of range; strconv still returns the correctly signed infinity or zero.
func isRangeErr(err error) bool {
	var numErr *strconv.NumError
	return errors.As(err, &numErr) && numErr.Err == strconv.ErrRange
}

// isHexLiteral reports whether s is a hexadecimal literal such as "0x1p4",
// which strconv.ParseFloat accepts but which is text in a CSV file.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// normalizeHeaders names blank headers "Unnamed: <index>" and suffixes
// repeated names with ".1", ".2", and so on.
func normalizeHeaders(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))

	for i, h := range header {
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		names[i] = h
	}
	for _, n := range names {
		taken[n] = false
	}
	for i, n := range names {
		if !taken[n] {
			taken[n] = true
			continue
		}
		count := seen[n]
		candidate := n
		for {
			if _, exists := taken[candidate]; !exists {
				break
			}
			count++
			candidate = n + "." + strconv.Itoa(count)
		}
		seen[n] = count
		taken[candidate] = true
		names[i] = candidate
	}
	return names
}
