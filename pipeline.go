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
	"context"
	"errors"
	"fmt"

	"github.com/aaronlmathis/salesetl/core"
)

// Package salesetl provides the step pipeline used to transform a parsed table.
//
// Core Concepts:
//   - Transformer: rewrites the table in place (derive a column, fill missing values).
//   - RowFilter: decides which rows survive (drop rows that are entirely empty).
//   - Pipeline: an ordered list of steps executed strictly in sequence.
//
// Example usage:
//
//   pipeline, err := salesetl.NewPipeline().
//       Filter(filter.AnyPresent()).
//       Transform(transform.ProfitMargin("Profit", "Sales")).
//       Transform(transform.FillNumericMissing(0)).
//       Build()
//   if err != nil { return err }
//   if err := pipeline.Execute(ctx, table); err != nil { return err }
//
// Steps run in the order they were added. The first failing step stops the pipeline.

// PipelineBuilder provides a fluent API for constructing transformation pipelines.
// Use NewPipeline() to create a new builder, then chain Transform and Filter.
type PipelineBuilder struct {
	pipeline *Pipeline
	err      error
}

// NewPipeline creates a new PipelineBuilder.
func NewPipeline() *PipelineBuilder {
	return &PipelineBuilder{
		pipeline: &Pipeline{
			steps: make([]step, 0),
		},
	}
}

// Transform adds a Transformer step to the pipeline.
func (pb *PipelineBuilder) Transform(transformer Transformer) *PipelineBuilder {
	if transformer == nil {
		pb.err = errors.Join(pb.err, fmt.Errorf("step %d: nil transformer", len(pb.pipeline.steps)))
		return pb
	}
	pb.pipeline.steps = append(pb.pipeline.steps, step{transformer: transformer})
	return pb
}

// Filter adds a row filtering step to the pipeline.
func (pb *PipelineBuilder) Filter(filter RowFilter) *PipelineBuilder {
	if filter == nil {
		pb.err = errors.Join(pb.err, fmt.Errorf("step %d: nil filter", len(pb.pipeline.steps)))
		return pb
	}
	pb.pipeline.steps = append(pb.pipeline.steps, step{filter: filter})
	return pb
}

// Map adds a transformation step using a function.
func (pb *PipelineBuilder) Map(fn func(ctx context.Context, table *Table) error) *PipelineBuilder {
	return pb.Transform(TransformFunc(fn))
}

// Where adds a filtering step using a function.
func (pb *PipelineBuilder) Where(fn func(ctx context.Context, row []core.Cell) (bool, error)) *PipelineBuilder {
	return pb.Filter(RowFilterFunc(fn))
}

// Build validates and constructs the Pipeline from the builder.
func (pb *PipelineBuilder) Build() (*Pipeline, error) {
	if pb.err != nil {
		return nil, fmt.Errorf("invalid pipeline: %w", pb.err)
	}
	return pb.pipeline, nil
}

type step struct {
	transformer Transformer
	filter      RowFilter
}

// PipelineStats reports what the last Execute call did to the table.
type PipelineStats struct {
	RowsIn         int
	RowsOut        int
	RowsDropped    int
	ColumnsIn      int
	ColumnsOut     int
	StepsCompleted int
}

// Pipeline is an ordered sequence of table transformation and filtering steps.
type Pipeline struct {
	steps []step
	stats PipelineStats
}

// Execute runs every step against the table in order.
//
// The table is modified in place. Context cancellation is checked between steps.
func (p *Pipeline) Execute(ctx context.Context, table *Table) error {
	p.stats = PipelineStats{
		RowsIn:    table.NumRows(),
		ColumnsIn: table.NumColumns(),
	}
	defer func() {
		p.stats.RowsOut = table.NumRows()
		p.stats.ColumnsOut = table.NumColumns()
	}()

	for i, s := range p.steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if s.filter != nil {
			dropped, err := p.applyFilter(ctx, table, s.filter)
			if err != nil {
				return fmt.Errorf("step %d: %w", i, err)
			}
			p.stats.RowsDropped += dropped
		} else if err := s.transformer.Transform(ctx, table); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		p.stats.StepsCompleted++
	}
	return nil
}

// Stats returns statistics for the most recent Execute call.
func (p *Pipeline) Stats() PipelineStats {
	return p.stats
}

// applyFilter evaluates the filter against every row, then drops the rejected rows.
func (p *Pipeline) applyFilter(ctx context.Context, table *Table, filter RowFilter) (int, error) {
	keep := make([]bool, table.NumRows())
	for i := range keep {
		include, err := filter.ShouldInclude(ctx, table.Row(i))
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
		keep[i] = include
	}
	return table.KeepRows(func(row int) bool { return keep[row] }), nil
}
