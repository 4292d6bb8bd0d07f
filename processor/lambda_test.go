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
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqsBatch(bodies map[string]string, order ...string) events.SQSEvent {
	var batch events.SQSEvent
	for _, id := range order {
		batch.Records = append(batch.Records, events.SQSMessage{
			MessageId:   id,
			EventSource: "aws:sqs",
			Body:        bodies[id],
		})
	}
	return batch
}

func TestHandleSQS_ProcessesEveryMessage(t *testing.T) {
	storage := newFakeStorage()
	storage.put("raw", "a.csv", "Sales\n1\n")
	storage.put("raw", "b.csv", "Sales\n2\n")

	batch := sqsBatch(map[string]string{
		"m-a":       string(event("raw", "a.csv")),
		"m-b":       string(event("raw", "b.csv")),
		"m-missing": string(event("raw", "missing.csv")),
		"m-test":    `{"Service":"Amazon S3","Event":"s3:TestEvent","Bucket":"raw"}`,
	}, "m-a", "m-missing", "m-b", "m-test")

	resp := New(storage).HandleSQS(context.Background(), batch)

	assert.Equal(t, []events.SQSBatchItemFailure{{ItemIdentifier: "m-missing"}}, resp.BatchItemFailures)
	require.Len(t, storage.stores, 2)
	assert.Equal(t, "a-Processed.csv", storage.stores[0].key)
	assert.Equal(t, "b-Processed.csv", storage.stores[1].key)
}

func TestInvoke_SQSBatch(t *testing.T) {
	storage := newFakeStorage()
	storage.put("raw", "a.csv", "Sales\n1\n")
	storage.put("raw", "b.csv", "Sales\n2\n")

	payload, err := json.Marshal(sqsBatch(map[string]string{
		"1": string(event("raw", "a.csv")),
		"2": string(event("raw", "b.csv")),
	}, "1", "2"))
	require.NoError(t, err)

	out, err := New(storage).Invoke(context.Background(), payload)
	require.NoError(t, err)

	resp, ok := out.(events.SQSEventResponse)
	require.True(t, ok, "got %T", out)
	assert.Empty(t, resp.BatchItemFailures)
	assert.Len(t, storage.stores, 2)
}

func TestInvoke_DirectNotification(t *testing.T) {
	storage := newFakeStorage()
	storage.put("raw", "a.csv", "Sales\n1\n")

	out, err := New(storage).Invoke(context.Background(), event("raw", "a.csv"))
	require.NoError(t, err)

	res, ok := out.(Result)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, 200, res.StatusCode)
}

func TestProcess_RejectsMessageBatch(t *testing.T) {
	storage := newFakeStorage()
	storage.put("raw", "a.csv", "Sales\n1\n")

	payload, err := json.Marshal(sqsBatch(map[string]string{
		"1": string(event("raw", "a.csv")),
		"2": string(event("raw", "a.csv")),
	}, "1", "2"))
	require.NoError(t, err)

	_, err = ParseEvent(payload, EventOptions{})
	assert.True(t, errors.Is(err, ErrMessageBatch))

	res := New(storage).Process(context.Background(), payload)
	assert.Equal(t, 500, res.StatusCode)
	assert.Empty(t, storage.stores)
}

func TestIsTestEvent(t *testing.T) {
	assert.True(t, IsTestEvent([]byte(`{"Service":"Amazon S3","Event":"s3:TestEvent"}`)))
	assert.False(t, IsTestEvent(event("raw", "a.csv")))
	assert.False(t, IsTestEvent([]byte(`not json`)))
}
