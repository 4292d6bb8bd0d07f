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

package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/aaronlmathis/salesetl/config"
	"github.com/aaronlmathis/salesetl/internal/logging"
	"github.com/aaronlmathis/salesetl/processor"
	"github.com/aaronlmathis/salesetl/queue"
	"github.com/aaronlmathis/salesetl/storage"
)

// Runtime holds the long-lived dependencies shared by the entry points.
type Runtime struct {
	Config    *config.Config
	Logger    *slog.Logger
	AWS       aws.Config
	Processor *processor.Processor

	closeLog func()
}

// New builds the logger, AWS configuration, S3 storage and processor from cfg.
func New(ctx context.Context, cfg *config.Config) (*Runtime, error) {
	logger, closeLog := logging.SetupLogger(LoggingOptions(cfg))

	opts := StorageOptions(cfg)
	awsCfg, err := storage.LoadAWSConfig(ctx, opts)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	store := storage.NewS3StorageFromConfig(awsCfg,
		storage.WithS3Endpoint(opts.EndpointURL),
		storage.WithS3PathStyle(opts.ForcePathStyle),
		storage.WithS3ContentType(opts.ContentType),
	)

	proc := processor.New(store, ProcessorOptions(cfg, logger)...)

	return &Runtime{
		Config:    cfg,
		Logger:    logger,
		AWS:       awsCfg,
		Processor: proc,
		closeLog:  closeLog,
	}, nil
}

// NewPoller creates an SQS poller feeding the runtime's processor.
func (r *Runtime) NewPoller() (*queue.Poller, error) {
	client := sqs.NewFromConfig(r.AWS, func(o *sqs.Options) {
		if r.Config.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(r.Config.Storage.Endpoint)
		}
	})
	return queue.NewPoller(client, r.Config.Queue.URL, r.Processor, PollerConfig(r.Config), r.Logger)
}

// Close flushes buffered logs.
func (r *Runtime) Close() {
	if r.closeLog != nil {
		r.closeLog()
	}
}

// LoggingOptions maps the logging section of cfg.
func LoggingOptions(cfg *config.Config) logging.Options {
	return logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		SeqURL:    cfg.Logging.SeqURL,
		SeqAPIKey: cfg.Logging.SeqAPIKey,
	}
}

// StorageOptions maps the storage section of cfg.
func StorageOptions(cfg *config.Config) storage.S3Options {
	return storage.S3Options{
		Region:  cfg.Storage.Region,
		Profile: cfg.Storage.Profile,
		Credentials: aws.Credentials{
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			SessionToken:    cfg.Storage.SessionToken,
		},
		EndpointURL:    cfg.Storage.Endpoint,
		ForcePathStyle: cfg.Storage.ForcePathStyle,
		ContentType:    cfg.Storage.ContentType,
	}
}

// ProcessorOptions maps the destination and event sections of cfg.
func ProcessorOptions(cfg *config.Config, logger *slog.Logger) []processor.Option {
	return []processor.Option{
		processor.WithLogger(logger),
		processor.WithDestinationRules(processor.DestinationRules{
			BucketToken:       cfg.Destination.BucketToken,
			BucketReplacement: cfg.Destination.BucketReplacement,
			KeyToken:          cfg.Destination.KeyToken,
			KeyReplacement:    cfg.Destination.KeyReplacement,
		}),
		processor.WithEventOptions(processor.EventOptions{DecodeKey: cfg.Event.DecodeKeys}),
	}
}

// PollerConfig maps the queue section of cfg.
func PollerConfig(cfg *config.Config) queue.PollerConfig {
	pc := queue.DefaultPollerConfig
	pc.WaitTimeSeconds = cfg.Queue.WaitTimeSeconds
	pc.MaxMessages = cfg.Queue.MaxMessages
	pc.VisibilityTimeout = cfg.Queue.VisibilityTimeoutSeconds
	return pc
}
