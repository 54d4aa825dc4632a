// Copyright 2026 The ShaadiSharthi Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the realtime daemon.
type Config struct {
	// ListenAddress is the TCP address for the WebSocket endpoint,
	// e.g. "127.0.0.1:7480". The public edge terminates TLS and
	// proxies /ws here.
	ListenAddress string `yaml:"listen_address"`

	// ControlSocketPath is the Unix socket for the operational
	// control protocol. Defaults to /run/shaadisharthi/realtime.sock.
	ControlSocketPath string `yaml:"control_socket_path"`

	// DatabasePath is the SQLite file holding inquiries.
	DatabasePath string `yaml:"database_path"`

	// DatabasePoolSize is the number of pooled SQLite connections.
	// Zero means the pool's default.
	DatabasePoolSize int `yaml:"database_pool_size"`

	// SessionPublicKey is the hex-encoded Ed25519 public key the web
	// application signs session tokens with.
	SessionPublicKey string `yaml:"session_public_key"`

	// Mail configures the outbound mail job queue. When the broker
	// URL is empty, jobs are logged and dropped.
	Mail MailConfig `yaml:"mail"`

	// Dispatcher tunes the notification delivery pool. Zero values
	// use the pool's defaults.
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
}

// MailConfig points at the RabbitMQ broker the mailer consumes from.
type MailConfig struct {
	BrokerURL string `yaml:"broker_url"`
	Exchange  string `yaml:"exchange"`
}

// DispatcherConfig bounds the notification worker pool.
type DispatcherConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// LoadConfig reads and parses the YAML config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply defaults
	if config.ListenAddress == "" {
		config.ListenAddress = "127.0.0.1:7480"
	}
	if config.ControlSocketPath == "" {
		config.ControlSocketPath = "/run/shaadisharthi/realtime.sock"
	}
	if config.Mail.Exchange == "" {
		config.Mail.Exchange = "shaadisharthi.mail"
	}

	return &config, nil
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.SessionPublicKey == "" {
		return fmt.Errorf("session_public_key is required")
	}
	if c.Mail.BrokerURL != "" && c.Mail.Exchange == "" {
		return fmt.Errorf("mail.exchange is required when mail.broker_url is set")
	}
	return nil
}
