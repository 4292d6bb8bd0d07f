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

import "strings"

// DestinationRules derive the output location from the source location by
// replacing the first occurrence of a token in the bucket and in the key.
type DestinationRules struct {
	BucketToken       string
	BucketReplacement string
	KeyToken          string
	KeyReplacement    string
}

// DefaultDestinationRules maps "raw" buckets to "processed" buckets and
// "name.csv" keys to "name-Processed.csv".
func DefaultDestinationRules() DestinationRules {
	return DestinationRules{
		BucketToken:       "raw",
		BucketReplacement: "processed",
		KeyToken:          ".csv",
		KeyReplacement:    "-Processed.csv",
	}
}

// Destination returns the output location for src. When a token is absent the
// corresponding part is returned unchanged, so a key without ".csv" maps onto
// itself.
func (r DestinationRules) Destination(src Location) Location {
	return Location{
		Bucket: replaceFirst(src.Bucket, r.BucketToken, r.BucketReplacement),
		Key:    replaceFirst(src.Key, r.KeyToken, r.KeyReplacement),
	}
}

func replaceFirst(s, token, replacement string) string {
	if token == "" {
		return s
	}
	return strings.Replace(s, token, replacement, 1)
}
