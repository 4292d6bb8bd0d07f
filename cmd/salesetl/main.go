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

// Command salesetl runs the sales transform outside Lambda: once for a given
// object, or as a long-running SQS consumer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aaronlmathis/salesetl/config"
	"github.com/aaronlmathis/salesetl/internal/bootstrap"
	"github.com/aaronlmathis/salesetl/processor"
)

func main() {
	var (
		configPath = flag.String("config", os.Getenv(config.EnvConfigFile), "path to YAML config file")
		bucket     = flag.String("bucket", "", "source bucket (one-shot mode)")
		key        = flag.String("key", "", "source object key (one-shot mode)")
		poll       = flag.Bool("poll", false, "consume S3 notifications from the configured SQS queue")
		queueURL   = flag.String("queue-url", "", "override queue URL")
	)
	flag.Parse()

	os.Exit(run(*configPath, *bucket, *key, *poll, *queueURL))
}

func run(configPath, bucket, key string, poll bool, queueURL string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	if queueURL != "" {
		cfg.Queue.URL = queueURL
	}

	rt, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		return 1
	}
	defer rt.Close()

	if poll {
		poller, err := rt.NewPoller()
		if err != nil {
			rt.Logger.Error("failed to create poller", "error", err)
			return 1
		}
		if err := poller.Run(ctx); err != nil {
			rt.Logger.Error("poller failed", "error", err)
			return 1
		}
		return 0
	}

	if bucket == "" || key == "" {
		fmt.Fprintln(os.Stderr, "either -poll or both -bucket and -key are required")
		flag.Usage()
		return 2
	}

	var res processor.Result
	report, err := rt.Processor.Run(ctx, processor.Location{Bucket: bucket, Key: key})
	if err != nil {
		rt.Logger.Error("error processing file", "bucket", bucket, "key", key, "error", err)
		res = processor.Failed(err)
	} else {
		res = processor.Succeeded(report.Destination)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		rt.Logger.Error("failed to write result", "error", err)
	}
	if !res.OK() {
		return 1
	}
	return 0
}
