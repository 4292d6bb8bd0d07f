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

package transform

import (
	"context"

	"github.com/aaronlmathis/salesetl/core"
)

// Column names recognised by the sales derivations. Matching is exact and case-sensitive.
const (
	SalesColumn        = "Sales"
	AmountColumn       = "Amount"
	ProfitColumn       = "Profit"
	QuantityColumn     = "Quantity"
	ProfitMarginColumn = "Profit_Margin"
	UnitPriceColumn    = "Unit_Price"
)

// salesAliases lists accepted sales column names in order of preference.
var salesAliases = []string{SalesColumn, AmountColumn}

// DetectSalesColumn selects Sales if present, otherwise Amount.
func DetectSalesColumn(table *core.Table) (*core.Column, bool) {
	return detect(table, salesAliases...)
}

// DetectProfitColumn selects Profit if present.
func DetectProfitColumn(table *core.Table) (*core.Column, bool) {
	return detect(table, ProfitColumn)
}

func detect(table *core.Table, aliases ...string) (*core.Column, bool) {
	for _, name := range aliases {
		if col, ok := table.Column(name); ok {
			return col, true
		}
	}
	return nil, false
}

// ProfitMargin sets Profit_Margin = profit / sales * 100.
func ProfitMargin(profit, sales string) core.Transformer {
	return Ratio(ProfitMarginColumn, profit, sales, 100)
}

// UnitPrice sets Unit_Price = sales / Quantity when a Quantity column exists,
// otherwise a straight copy of the sales column.
func UnitPrice(sales string) core.Transformer {
	return core.TransformFunc(func(ctx context.Context, table *core.Table) error {
		if table.HasColumn(QuantityColumn) {
			return Ratio(UnitPriceColumn, sales, QuantityColumn, 1).Transform(ctx, table)
		}
		return Copy(sales, UnitPriceColumn).Transform(ctx, table)
	})
}
