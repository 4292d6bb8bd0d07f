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
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// maxEnvelopeDepth bounds how many SQS/SNS wrappers are unwrapped.
const maxEnvelopeDepth = 3

var (
	// ErrInvalidEvent is returned when the payload is not JSON.
	ErrInvalidEvent = errors.New("event is not valid JSON")
	// ErrNoRecords is returned when the payload has no notification records.
	ErrNoRecords = errors.New("event contains no records")
	// ErrMessageBatch is returned for an SQS batch of more than one message;
	// each message body must be processed on its own.
	ErrMessageBatch = errors.New("event holds more than one queue message")
)

// s3TestEvent is the message S3 sends when a notification is first configured.
const s3TestEvent = "s3:TestEvent"

// IsTestEvent reports whether payload is the S3 test notification, which
// carries no object.
func IsTestEvent(payload []byte) bool {
	return gjson.GetBytes(payload, "Event").String() == s3TestEvent
}

// EventError provides structured error information for notification parsing.
type EventError struct {
	Path string // JSON path that could not be read
	Err  error
}

func (e *EventError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("event: %v", e.Err)
	}
	return fmt.Sprintf("event %s: %v", e.Path, e.Err)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// Location identifies an object in a bucket.
type Location struct {
	Bucket string
	Key    string
}

func (l Location) String() string {
	return l.Bucket + "/" + l.Key
}

// EventOptions controls how a notification is read.
type EventOptions struct {
	// DecodeKey URL-decodes the object key as S3 encodes it in notifications.
	DecodeKey bool
}

// ParseEvent reads the bucket name and object key of the first record in an
// S3 notification. The notification may be delivered directly, inside the
// body of an SQS record, inside an SNS record, or as an SNS message delivered
// to SQS.
func ParseEvent(payload []byte, opts EventOptions) (Location, error) {
	return parseEvent(payload, opts, 0)
}

func parseEvent(payload []byte, opts EventOptions, depth int) (Location, error) {
	if !gjson.ValidBytes(payload) {
		return Location{}, &EventError{Err: ErrInvalidEvent}
	}
	if depth > maxEnvelopeDepth {
		return Location{}, &EventError{Err: fmt.Errorf("more than %d nested envelopes", maxEnvelopeDepth)}
	}

	root := gjson.ParseBytes(payload)

	// SNS notification JSON delivered to SQS without raw delivery.
	if msg := root.Get("Message"); msg.Type == gjson.String && !root.Get("Records").Exists() {
		return parseEvent([]byte(msg.String()), opts, depth+1)
	}

	records := root.Get("Records")
	if !records.Exists() {
		return Location{}, &EventError{Path: "Records", Err: ErrNoRecords}
	}
	if !records.IsArray() || len(records.Array()) == 0 {
		return Location{}, &EventError{Path: "Records", Err: ErrNoRecords}
	}
	first := records.Array()[0]

	switch {
	case first.Get("s3").Exists():
		return readS3Record(first, opts)
	case first.Get("eventSource").String() == "aws:sqs" || first.Get("body").Type == gjson.String:
		if n := len(records.Array()); n > 1 {
			return Location{}, &EventError{Path: "Records", Err: fmt.Errorf("%w: got %d", ErrMessageBatch, n)}
		}
		return parseEvent([]byte(first.Get("body").String()), opts, depth+1)
	case first.Get("Sns.Message").Type == gjson.String:
		return parseEvent([]byte(first.Get("Sns.Message").String()), opts, depth+1)
	default:
		return Location{}, &EventError{Path: "Records.0.s3", Err: errors.New("missing")}
	}
}

func readS3Record(record gjson.Result, opts EventOptions) (Location, error) {
	bucket, err := readString(record, "s3.bucket.name")
	if err != nil {
		return Location{}, err
	}
	key, err := readString(record, "s3.object.key")
	if err != nil {
		return Location{}, err
	}
	if opts.DecodeKey {
		decoded, err := url.QueryUnescape(key)
		if err != nil {
			return Location{}, &EventError{Path: "Records.0.s3.object.key", Err: err}
		}
		key = decoded
	}
	return Location{Bucket: bucket, Key: key}, nil
}

func readString(record gjson.Result, path string) (string, error) {
	v := record.Get(path)
	switch {
	case !v.Exists():
		return "", &EventError{Path: "Records.0." + path, Err: errors.New("missing")}
	case v.Type != gjson.String:
		return "", &EventError{Path: "Records.0." + path, Err: fmt.Errorf("expected string, got %s", v.Type)}
	case v.String() == "":
		return "", &EventError{Path: "Records.0." + path, Err: errors.New("empty")}
	}
	return v.String(), nil
}
