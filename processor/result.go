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
	"fmt"
	"net/http"
)

// Result is the invocation outcome returned to the caller, serialized as
// {"statusCode": ..., "body": ...}.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Succeeded builds the 200 result naming the destination.
func Succeeded(dest Location) Result {
	return Result{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf("Processing complete. File saved as %s", dest),
	}
}

// Failed builds the 500 result carrying the error text.
func Failed(err error) Result {
	return Result{
		StatusCode: http.StatusInternalServerError,
		Body:       err.Error(),
	}
}

// OK reports whether the result is a success.
func (r Result) OK() bool {
	return r.StatusCode == http.StatusOK
}
