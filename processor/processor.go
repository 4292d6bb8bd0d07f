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

package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/aaronlmathis/salesetl"
	"github.com/aaronlmathis/salesetl/filter"
	"github.com/aaronlmathis/salesetl/readers"
	"github.com/aaronlmathis/salesetl/transform"
	"github.com/aaronlmathis/salesetl/writers"
)

// Storage fetches and stores whole objects.
type Storage interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
	Store(ctx context.Context, bucket, key string, data []byte) error
}

// Report describes a completed run.
type Report struct {
	Source       Location
	Destination  Location
	RowsRead     int
	RowsWritten  int
	Columns      []string
	SalesColumn  string // empty when no sales column was found
	ProfitColumn string // empty when no profit column was found
	BytesWritten int
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. Defaults to a logger that discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) { p.logger = logger }
}

// WithDestinationRules overrides DefaultDestinationRules.
func WithDestinationRules(rules DestinationRules) Option {
	return func(p *Processor) { p.rules = rules }
}

// WithEventOptions sets how notifications are parsed.
func WithEventOptions(opts EventOptions) Option {
	return func(p *Processor) { p.eventOpts = opts }
}

// Processor turns an uploaded sales CSV into its processed counterpart.
//
// A Processor holds no per-invocation state and may serve concurrent invocations.
type Processor struct {
	storage   Storage
	logger    *slog.Logger
	rules     DestinationRules
	eventOpts EventOptions
}

// New creates a Processor backed by storage.
func New(storage Storage, opts ...Option) *Processor {
	if storage == nil {
		panic("storage is required")
	}
	p := &Processor{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		rules:   DefaultDestinationRules(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle is the Lambda handler entry point. Failures are reported in the
// Result, so the returned error is always nil.
func (p *Processor) Handle(ctx context.Context, payload json.RawMessage) (Result, error) {
	return p.Process(ctx, payload), nil
}

// Process reads the notification payload, runs the transform and converts the
// outcome into a Result: 200 naming the destination, or 500 with the error text.
func (p *Processor) Process(ctx context.Context, payload []byte) Result {
	src, err := ParseEvent(payload, p.eventOpts)
	if err != nil {
		p.logger.Error("error processing file", "error", err)
		return Failed(err)
	}

	report, err := p.Run(ctx, src)
	if err != nil {
		p.logger.Error("error processing file", "bucket", src.Bucket, "key", src.Key, "error", err)
		return Failed(err)
	}
	return Succeeded(report.Destination)
}

// Run fetches src, derives the sales columns, and stores the result at the
// destination location. Nothing is stored unless every earlier step succeeds.
func (p *Processor) Run(ctx context.Context, src Location) (*Report, error) {
	logger := p.logger.With("bucket", src.Bucket, "key", src.Key)
	logger.Info("processing file")

	data, err := p.storage.Fetch(ctx, src.Bucket, src.Key)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src, err)
	}

	table, err := readers.ReadCSV(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	logger.Info("detected columns", "columns", table.Names(), "rows", table.NumRows())

	report := &Report{Source: src, RowsRead: table.NumRows()}

	builder := salesetl.NewPipeline().Filter(filter.AnyPresent())

	sales, hasSales := transform.DetectSalesColumn(table)
	if hasSales {
		report.SalesColumn = sales.Name
	} else {
		logger.Warn("no sales column found", "accepted", []string{transform.SalesColumn, transform.AmountColumn})
	}

	profit, hasProfit := transform.DetectProfitColumn(table)
	if hasProfit {
		report.ProfitColumn = profit.Name
	} else {
		logger.Warn("no profit column found", "accepted", []string{transform.ProfitColumn})
	}

	if hasSales && hasProfit {
		builder.Transform(transform.ProfitMargin(profit.Name, sales.Name))
	}
	if hasSales {
		builder.Transform(transform.UnitPrice(sales.Name))
	}
	builder.Transform(transform.FillNumericMissing(0))

	pipeline, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if err := pipeline.Execute(ctx, table); err != nil {
		return nil, fmt.Errorf("transform %s: %w", src, err)
	}
	stats := pipeline.Stats()
	if stats.RowsDropped > 0 {
		logger.Info("dropped empty rows", "count", stats.RowsDropped)
	}

	out, err := writers.WriteCSV(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", src, err)
	}

	dest := p.rules.Destination(src)
	if err := p.storage.Store(ctx, dest.Bucket, dest.Key, out); err != nil {
		return nil, fmt.Errorf("store %s: %w", dest, err)
	}

	report.Destination = dest
	report.RowsWritten = table.NumRows()
	report.Columns = table.Names()
	report.BytesWritten = len(out)

	logger.Info("processing complete",
		"destination_bucket", dest.Bucket,
		"destination_key", dest.Key,
		"rows_read", report.RowsRead,
		"rows_written", report.RowsWritten,
	)
	return report, nil
}
