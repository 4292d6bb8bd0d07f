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

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigFile names the environment variable holding an optional YAML config path.
const EnvConfigFile = "SALESETL_CONFIG"

// Config holds the configuration for a SalesETL deployment.
type Config struct {
	Storage     StorageConfig     `yaml:"storage"`
	Logging     LoggingConfig     `yaml:"logging"`
	Destination DestinationConfig `yaml:"destination"`
	Event       EventConfig       `yaml:"event"`
	Queue       QueueConfig       `yaml:"queue"`
}

type StorageConfig struct {
	Region          string `yaml:"region"`
	Profile         string `yaml:"profile"`
	Endpoint        string `yaml:"endpoint"`
	ForcePathStyle  bool   `yaml:"force_path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	ContentType     string `yaml:"content_type"`
}

type LoggingConfig struct {
	Level     string `yaml:"level"`  // debug, info, warn, error
	Format    string `yaml:"format"` // text or json
	SeqURL    string `yaml:"seq_url"`
	SeqAPIKey string `yaml:"seq_api_key"`
}

type DestinationConfig struct {
	BucketToken       string `yaml:"bucket_token"`
	BucketReplacement string `yaml:"bucket_replacement"`
	KeyToken          string `yaml:"key_token"`
	KeyReplacement    string `yaml:"key_replacement"`
}

type EventConfig struct {
	DecodeKeys bool `yaml:"decode_keys"`
}

type QueueConfig struct {
	URL                      string `yaml:"url"`
	WaitTimeSeconds          int32  `yaml:"wait_time_seconds"`
	MaxMessages              int32  `yaml:"max_messages"`
	VisibilityTimeoutSeconds int32  `yaml:"visibility_timeout_seconds"`
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			ContentType: "text/csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Destination: DestinationConfig{
			BucketToken:       "raw",
			BucketReplacement: "processed",
			KeyToken:          ".csv",
			KeyReplacement:    "-Processed.csv",
		},
		Queue: QueueConfig{
			WaitTimeSeconds:          20,
			MaxMessages:              1,
			VisibilityTimeoutSeconds: 300,
		},
	}
}

// Load returns DefaultConfig overlaid by the YAML file at path (if path is not
// empty) and then by environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}
	int32v := func(name string, dst *int32) {
		if v, ok := lookup(name); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = int32(n)
		}
	}

	str("AWS_REGION", &c.Storage.Region)
	str("AWS_PROFILE", &c.Storage.Profile)
	str("AWS_ENDPOINT_URL", &c.Storage.Endpoint)
	boolean("SALESETL_S3_FORCE_PATH_STYLE", &c.Storage.ForcePathStyle)
	str("SALESETL_S3_CONTENT_TYPE", &c.Storage.ContentType)

	str("SALESETL_LOG_LEVEL", &c.Logging.Level)
	str("SALESETL_LOG_FORMAT", &c.Logging.Format)
	str("SALESETL_SEQ_URL", &c.Logging.SeqURL)
	str("SALESETL_SEQ_API_KEY", &c.Logging.SeqAPIKey)

	str("SALESETL_BUCKET_TOKEN", &c.Destination.BucketToken)
	str("SALESETL_BUCKET_REPLACEMENT", &c.Destination.BucketReplacement)
	str("SALESETL_KEY_TOKEN", &c.Destination.KeyToken)
	str("SALESETL_KEY_REPLACEMENT", &c.Destination.KeyReplacement)

	boolean("SALESETL_DECODE_KEYS", &c.Event.DecodeKeys)

	str("SALESETL_QUEUE_URL", &c.Queue.URL)
	int32v("SALESETL_QUEUE_WAIT_SECONDS", &c.Queue.WaitTimeSeconds)
	int32v("SALESETL_QUEUE_MAX_MESSAGES", &c.Queue.MaxMessages)
	int32v("SALESETL_QUEUE_VISIBILITY_TIMEOUT", &c.Queue.VisibilityTimeoutSeconds)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	if c.Queue.WaitTimeSeconds < 0 || c.Queue.WaitTimeSeconds > 20 {
		errs = append(errs, fmt.Errorf("queue.wait_time_seconds must be between 0 and 20, got %d", c.Queue.WaitTimeSeconds))
	}
	if c.Queue.MaxMessages < 1 || c.Queue.MaxMessages > 10 {
		errs = append(errs, fmt.Errorf("queue.max_messages must be between 1 and 10, got %d", c.Queue.MaxMessages))
	}
	if c.Queue.VisibilityTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("queue.visibility_timeout_seconds must be non-negative, got %d", c.Queue.VisibilityTimeoutSeconds))
	}
	if (c.Storage.AccessKeyID == "") != (c.Storage.SecretAccessKey == "") {
		errs = append(errs, errors.New("storage.access_key_id and storage.secret_access_key must be set together"))
	}
	return errors.Join(errs...)
}
