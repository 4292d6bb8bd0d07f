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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronlmathis/salesetl/core"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	table, err := core.NewTable(
		core.NewColumn("a", core.FloatColumn, []core.Cell{core.FloatCell(1), core.MissingCell(), core.FloatCell(3)}),
		core.NewColumn("b", core.TextColumn, []core.Cell{core.TextCell("x"), core.MissingCell(), core.MissingCell()}),
	)
	require.NoError(t, err)
	return table
}

func TestPipeline_StepsRunInOrder(t *testing.T) {
	var order []string

	pipeline, err := NewPipeline().
		Map(func(ctx context.Context, table *Table) error {
			order = append(order, "first")
			assert.Equal(t, 3, table.NumRows())
			return nil
		}).
		Where(func(ctx context.Context, row []core.Cell) (bool, error) {
			return !row[0].IsMissing(), nil
		}).
		Map(func(ctx context.Context, table *Table) error {
			order = append(order, "second")
			assert.Equal(t, 2, table.NumRows())
			return nil
		}).
		Build()
	require.NoError(t, err)

	table := newTestTable(t)
	require.NoError(t, pipeline.Execute(context.Background(), table))

	assert.Equal(t, []string{"first", "second"}, order)
	stats := pipeline.Stats()
	assert.Equal(t, 3, stats.RowsIn)
	assert.Equal(t, 2, stats.RowsOut)
	assert.Equal(t, 1, stats.RowsDropped)
	assert.Equal(t, 3, stats.StepsCompleted)
}

func TestPipeline_StopsOnFirstError(t *testing.T) {
	boom := errors.New("boom")
	called := false

	pipeline, err := NewPipeline().
		Map(func(ctx context.Context, table *Table) error { return boom }).
		Map(func(ctx context.Context, table *Table) error {
			called = true
			return nil
		}).
		Build()
	require.NoError(t, err)

	err = pipeline.Execute(context.Background(), newTestTable(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.False(t, called)
	assert.Equal(t, 0, pipeline.Stats().StepsCompleted)
}

func TestPipeline_FilterErrorStops(t *testing.T) {
	boom := errors.New("bad row")
	pipeline, err := NewPipeline().
		Where(func(ctx context.Context, row []core.Cell) (bool, error) { return false, boom }).
		Build()
	require.NoError(t, err)

	table := newTestTable(t)
	err = pipeline.Execute(context.Background(), table)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 3, table.NumRows())
}

func TestPipeline_RejectsNilSteps(t *testing.T) {
	_, err := NewPipeline().Transform(nil).Build()
	assert.Error(t, err)

	_, err = NewPipeline().Filter(nil).Build()
	assert.Error(t, err)
}

func TestPipeline_ContextCancelled(t *testing.T) {
	pipeline, err := NewPipeline().
		Map(func(ctx context.Context, table *Table) error { return nil }).
		Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pipeline.Execute(ctx, newTestTable(t))
	assert.True(t, errors.Is(err, context.Canceled))
}
