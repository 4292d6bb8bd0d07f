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

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
)

// Invoke is the Lambda entry point. SQS batches are handled message by message
// and answered with an events.SQSEventResponse listing the failed messages, so
// the event source mapping must enable ReportBatchItemFailures. Any other
// payload is handled as a single notification and answered with a Result.
func (p *Processor) Invoke(ctx context.Context, payload json.RawMessage) (any, error) {
	if !isSQSBatch(payload) {
		return p.Handle(ctx, payload)
	}
	var batch events.SQSEvent
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("decode sqs event: %w", err)
	}
	return p.HandleSQS(ctx, batch), nil
}

// HandleSQS processes every message in the batch. Messages whose processing
// does not return a 200 result are reported as batch item failures and stay
// on the queue; S3 test notifications count as handled.
func (p *Processor) HandleSQS(ctx context.Context, batch events.SQSEvent) events.SQSEventResponse {
	var resp events.SQSEventResponse
	for _, msg := range batch.Records {
		logger := p.logger.With("message_id", msg.MessageId)
		body := []byte(msg.Body)

		if IsTestEvent(body) {
			logger.Info("skipping s3 test event")
			continue
		}
		if res := p.Process(ctx, body); !res.OK() {
			logger.Warn("message left for redelivery", "status", res.StatusCode, "body", res.Body)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: msg.MessageId,
			})
		}
	}
	return resp
}

func isSQSBatch(payload []byte) bool {
	return gjson.GetBytes(payload, "Records.0.eventSource").String() == "aws:sqs"
}
