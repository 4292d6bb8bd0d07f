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
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s3Event(t *testing.T, bucket, key string) []byte {
	t.Helper()
	data, err := json.Marshal(events.S3Event{
		Records: []events.S3EventRecord{{
			EventSource: "aws:s3",
			EventName:   "ObjectCreated:Put",
			S3: events.S3Entity{
				Bucket: events.S3Bucket{Name: bucket},
				Object: events.S3Object{Key: key, Size: 42},
			},
		}},
	})
	require.NoError(t, err)
	return data
}

func TestParseEvent_Direct(t *testing.T) {
	loc, err := ParseEvent(s3Event(t, "raw-sales-data", "2024/jan.csv"), EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, Location{Bucket: "raw-sales-data", Key: "2024/jan.csv"}, loc)
}

func TestParseEvent_UsesFirstRecordOnly(t *testing.T) {
	payload := []byte(`{"Records":[
		{"s3":{"bucket":{"name":"first"},"object":{"key":"a.csv"}}},
		{"s3":{"bucket":{"name":"second"},"object":{"key":"b.csv"}}}
	]}`)
	loc, err := ParseEvent(payload, EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, "first", loc.Bucket)
	assert.Equal(t, "a.csv", loc.Key)
}

func TestParseEvent_SQSEnvelope(t *testing.T) {
	data, err := json.Marshal(events.SQSEvent{
		Records: []events.SQSMessage{{
			MessageId:   "m-1",
			EventSource: "aws:sqs",
			Body:        string(s3Event(t, "raw-bkt", "in.csv")),
		}},
	})
	require.NoError(t, err)

	loc, err := ParseEvent(data, EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, Location{Bucket: "raw-bkt", Key: "in.csv"}, loc)
}

func TestParseEvent_SNSEnvelope(t *testing.T) {
	data, err := json.Marshal(events.SNSEvent{
		Records: []events.SNSEventRecord{{
			EventSource: "aws:sns",
			SNS:         events.SNSEntity{Message: string(s3Event(t, "raw-bkt", "in.csv"))},
		}},
	})
	require.NoError(t, err)

	loc, err := ParseEvent(data, EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, "raw-bkt", loc.Bucket)

	// SNS notification delivered to SQS without raw message delivery
	wrapped, err := json.Marshal(map[string]string{
		"Type":    "Notification",
		"Message": string(s3Event(t, "raw-bkt", "x.csv")),
	})
	require.NoError(t, err)
	loc, err = ParseEvent(wrapped, EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, "x.csv", loc.Key)
}

func TestParseEvent_DecodeKey(t *testing.T) {
	payload := s3Event(t, "raw-bkt", "reports/q1+sales%282024%29.csv")

	loc, err := ParseEvent(payload, EventOptions{})
	require.NoError(t, err)
	assert.Equal(t, "reports/q1+sales%282024%29.csv", loc.Key)

	loc, err = ParseEvent(payload, EventOptions{DecodeKey: true})
	require.NoError(t, err)
	assert.Equal(t, "reports/q1 sales(2024).csv", loc.Key)
}

func TestParseEvent_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		path    string
		target  error
	}{
		{"not json", `{"Records":`, "", ErrInvalidEvent},
		{"no records", `{}`, "Records", ErrNoRecords},
		{"empty records", `{"Records":[]}`, "Records", ErrNoRecords},
		{"no s3", `{"Records":[{"eventSource":"aws:dynamodb"}]}`, "Records.0.s3", nil},
		{"no bucket", `{"Records":[{"s3":{"object":{"key":"a.csv"}}}]}`, "Records.0.s3.bucket.name", nil},
		{"no key", `{"Records":[{"s3":{"bucket":{"name":"b"}}}]}`, "Records.0.s3.object.key", nil},
		{"numeric key", `{"Records":[{"s3":{"bucket":{"name":"b"},"object":{"key":5}}}]}`, "Records.0.s3.object.key", nil},
		{"empty bucket", `{"Records":[{"s3":{"bucket":{"name":""},"object":{"key":"a"}}}]}`, "Records.0.s3.bucket.name", nil},
		{"s3 test event", `{"Service":"Amazon S3","Event":"s3:TestEvent","Bucket":"b"}`, "Records", ErrNoRecords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent([]byte(tt.payload), EventOptions{})
			require.Error(t, err)

			var eventErr *EventError
			require.True(t, errors.As(err, &eventErr))
			assert.Equal(t, tt.path, eventErr.Path)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target))
			}
		})
	}
}
