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

// Command lambda is the AWS Lambda entry point. It is triggered by S3
// object-created notifications, directly or through SQS or SNS. SQS event
// source mappings must enable ReportBatchItemFailures.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/aaronlmathis/salesetl/config"
	"github.com/aaronlmathis/salesetl/internal/bootstrap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv(config.EnvConfigFile))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rt, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}

	// lambda.Start never returns; buffered Seq logs are flushed on shutdown.
	lambda.StartWithOptions(func(ctx context.Context, payload json.RawMessage) (any, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			rt.Logger.Debug("invocation", "request_id", lc.AwsRequestID, "function", lambdacontext.FunctionName)
		}
		return rt.Processor.Invoke(ctx, payload)
	}, lambda.WithEnableSIGTERM(rt.Close))
}
