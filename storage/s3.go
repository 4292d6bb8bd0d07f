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

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

var (
	// ErrNotFound is matched by errors.Is when the bucket or key does not exist.
	ErrNotFound = errors.New("object or bucket not found")
	// ErrAccessDenied is matched by errors.Is when the caller may not access the object.
	ErrAccessDenied = errors.New("access denied")
)

// S3Error provides structured error information for S3 operations
type S3Error struct {
	Op     string // Operation that failed ("get_object", "read_body", "put_object")
	Bucket string
	Key    string
	Kind   error // ErrNotFound, ErrAccessDenied, or nil
	Err    error // Underlying error
}

func (e *S3Error) Error() string {
	return fmt.Sprintf("s3 %s s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *S3Error) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Err}
}

// S3Options configures the S3 client and how objects are written.
type S3Options struct {
	Region         string          // AWS region
	Profile        string          // AWS profile to use
	Credentials    aws.Credentials // Explicit credentials
	EndpointURL    string          // Custom S3 endpoint (for S3-compatible services)
	ForcePathStyle bool            // Use path-style addressing
	ContentType    string          // Content-Type set on stored objects
}

// OptionS3 represents a configuration function for S3Storage
type OptionS3 func(*S3Options)

func WithS3Region(region string) OptionS3 {
	return func(opts *S3Options) {
		opts.Region = region
	}
}

func WithS3Profile(profile string) OptionS3 {
	return func(opts *S3Options) {
		opts.Profile = profile
	}
}

func WithS3Credentials(creds aws.Credentials) OptionS3 {
	return func(opts *S3Options) {
		opts.Credentials = creds
	}
}

func WithS3Endpoint(endpoint string) OptionS3 {
	return func(opts *S3Options) {
		opts.EndpointURL = endpoint
	}
}

func WithS3PathStyle(pathStyle bool) OptionS3 {
	return func(opts *S3Options) {
		opts.ForcePathStyle = pathStyle
	}
}

func WithS3ContentType(contentType string) OptionS3 {
	return func(opts *S3Options) {
		opts.ContentType = contentType
	}
}

type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage fetches and stores whole objects in Amazon S3.
type S3Storage struct {
	client s3API
	opts   S3Options
}

func defaultS3Options() S3Options {
	return S3Options{ContentType: "text/csv"}
}

// NewS3Storage loads AWS configuration and creates an S3-backed storage.
func NewS3Storage(ctx context.Context, options ...OptionS3) (*S3Storage, error) {
	opts := defaultS3Options()
	for _, option := range options {
		option(&opts)
	}

	cfg, err := LoadAWSConfig(ctx, opts)
	if err != nil {
		return nil, &S3Error{Op: "load_aws_config", Err: err}
	}

	return newS3Storage(cfg, opts), nil
}

// NewS3StorageFromConfig creates an S3-backed storage from an already loaded
// AWS configuration. Region, profile and credential options are ignored.
func NewS3StorageFromConfig(cfg aws.Config, options ...OptionS3) *S3Storage {
	opts := defaultS3Options()
	for _, option := range options {
		option(&opts)
	}
	return newS3Storage(cfg, opts)
}

func newS3Storage(cfg aws.Config, opts S3Options) *S3Storage {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})
	return &S3Storage{client: client, opts: opts}
}

// NewS3StorageWithClient wraps an existing client.
func NewS3StorageWithClient(client s3API, options ...OptionS3) *S3Storage {
	if client == nil {
		panic("s3 client is required")
	}
	opts := defaultS3Options()
	for _, option := range options {
		option(&opts)
	}
	return &S3Storage{client: client, opts: opts}
}

// LoadAWSConfig creates AWS configuration from options. Region, profile and
// credentials fall back to the default provider chain when unset.
func LoadAWSConfig(ctx context.Context, opts S3Options) (aws.Config, error) {
	configOpts := []func(*config.LoadOptions) error{}

	if opts.Region != "" {
		configOpts = append(configOpts, config.WithRegion(opts.Region))
	}

	if opts.Profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, err
	}

	if opts.Credentials.AccessKeyID != "" {
		cfg.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				opts.Credentials.AccessKeyID,
				opts.Credentials.SecretAccessKey,
				opts.Credentials.SessionToken,
			),
		)
	}

	return cfg, nil
}

// Fetch returns the full content of the object at bucket/key.
func (s *S3Storage) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &S3Error{Op: "get_object", Bucket: bucket, Key: key, Kind: classify(err), Err: err}
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, &S3Error{Op: "read_body", Bucket: bucket, Key: key, Err: err}
	}
	return data, nil
}

// Store writes data to bucket/key, replacing any existing object.
func (s *S3Storage) Store(ctx context.Context, bucket, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if s.opts.ContentType != "" {
		input.ContentType = aws.String(s.opts.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return &S3Error{Op: "put_object", Bucket: bucket, Key: key, Kind: classify(err), Err: err}
	}
	return nil
}

// classify maps S3 API error codes onto ErrNotFound and ErrAccessDenied.
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return ErrNotFound
	case "AccessDenied", "Forbidden", "AllAccessDisabled", "InvalidAccessKeyId":
		return ErrAccessDenied
	default:
		return nil
	}
}
