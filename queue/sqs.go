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

package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/aaronlmathis/salesetl/processor"
)

// PollerConfig controls how messages are received.
type PollerConfig struct {
	WaitTimeSeconds   int32
	MaxMessages       int32
	VisibilityTimeout int32
	// ErrorBackoff is how long to pause after a failed receive.
	ErrorBackoff time.Duration
	// IdleBackoff is how long to pause after an empty short poll
	// (WaitTimeSeconds == 0). Long polls already wait on the server.
	IdleBackoff time.Duration
}

// DefaultPollerConfig long-polls for one message at a time.
var DefaultPollerConfig = PollerConfig{
	WaitTimeSeconds:   20,
	MaxMessages:       1,
	VisibilityTimeout: 300,
	ErrorBackoff:      5 * time.Second,
	IdleBackoff:       time.Second,
}

func (c PollerConfig) validate() error {
	if c.WaitTimeSeconds < 0 || c.WaitTimeSeconds > 20 {
		return errors.New("wait time seconds must be between 0 and 20")
	}
	if c.MaxMessages < 1 || c.MaxMessages > 10 {
		return errors.New("max messages must be between 1 and 10")
	}
	if c.VisibilityTimeout < 0 {
		return errors.New("visibility timeout must be non-negative")
	}
	if c.WaitTimeSeconds == 0 && c.IdleBackoff <= 0 {
		return errors.New("idle backoff must be positive when wait time seconds is 0")
	}
	return nil
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Processor handles one notification payload.
type Processor interface {
	Process(ctx context.Context, payload []byte) processor.Result
}

// PollerStats counts messages handled by a Poller.
type PollerStats struct {
	Received  int64
	Succeeded int64
	Failed    int64
	Skipped   int64
}

// Poller receives S3 notifications from an SQS queue and hands each message
// body to a Processor, one message at a time. A message is deleted only when
// processing returns a 200 result; otherwise it becomes visible again after
// its visibility timeout.
type Poller struct {
	client   sqsAPI
	queueURL string
	proc     Processor
	cfg      PollerConfig
	logger   *slog.Logger

	received  atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	skipped   atomic.Int64
}

// NewPoller creates a Poller. A nil logger discards output.
func NewPoller(client sqsAPI, queueURL string, proc Processor, cfg PollerConfig, logger *slog.Logger) (*Poller, error) {
	if client == nil {
		return nil, errors.New("sqs client is required")
	}
	if queueURL == "" {
		return nil, errors.New("queue url is required")
	}
	if proc == nil {
		return nil, errors.New("processor is required")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Poller{
		client:   client,
		queueURL: queueURL,
		proc:     proc,
		cfg:      cfg,
		logger:   logger.With("queue_url", queueURL),
	}, nil
}

// Run polls until ctx is canceled. It returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started")
	defer p.logger.Info("poller stopped", "stats", p.Stats())

	for {
		if ctx.Err() != nil {
			return nil
		}
		n, err := p.PollOnce(ctx)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("receive failed", "error", err)
			if !sleep(ctx, p.cfg.ErrorBackoff) {
				return nil
			}
		case n == 0 && p.cfg.WaitTimeSeconds == 0:
			if !sleep(ctx, p.cfg.IdleBackoff) {
				return nil
			}
		}
	}
}

// sleep waits for d and reports false if ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// PollOnce performs a single receive and processes every returned message in
// order. It returns the number of messages received.
func (p *Poller) PollOnce(ctx context.Context) (int, error) {
	out, err := p.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(p.queueURL),
		MaxNumberOfMessages: p.cfg.MaxMessages,
		WaitTimeSeconds:     p.cfg.WaitTimeSeconds,
		VisibilityTimeout:   p.cfg.VisibilityTimeout,
	})
	if err != nil {
		return 0, fmt.Errorf("receive message: %w", err)
	}

	for i := range out.Messages {
		p.handle(ctx, &out.Messages[i])
	}
	return len(out.Messages), nil
}

// Stats returns a snapshot of message counters.
func (p *Poller) Stats() PollerStats {
	return PollerStats{
		Received:  p.received.Load(),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
		Skipped:   p.skipped.Load(),
	}
}

func (p *Poller) handle(ctx context.Context, m *sqstypes.Message) {
	p.received.Add(1)
	body := aws.ToString(m.Body)
	logger := p.logger.With("message_id", aws.ToString(m.MessageId))

	if processor.IsTestEvent([]byte(body)) {
		p.skipped.Add(1)
		logger.Info("skipping s3 test event")
		p.delete(ctx, m, logger)
		return
	}

	res := p.proc.Process(ctx, []byte(body))
	if !res.OK() {
		p.failed.Add(1)
		logger.Warn("message left for redelivery", "status", res.StatusCode, "body", res.Body)
		return
	}

	p.succeeded.Add(1)
	logger.Info("message processed", "body", res.Body)
	p.delete(ctx, m, logger)
}

func (p *Poller) delete(ctx context.Context, m *sqstypes.Message, logger *slog.Logger) {
	_, err := p.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(p.queueURL),
		ReceiptHandle: m.ReceiptHandle,
	})
	if err != nil {
		logger.Error("delete message failed", "error", err)
	}
}
