// Package config defines the chatd server configuration: listen address,
// request buffer size, per-connection timeouts, and operational knobs. A
// config can come from defaults, an optional YAML file, and CLI flags, in
// that order of precedence (later wins).
package config

import (
	"errors"
	"fmt"
	"time"
)

// Default values.
const (
	DefaultAddr              = "127.0.0.1:8080"
	DefaultMaxRequestBytes   = 64 * 1024
	DefaultReadTimeout       = 10 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultKeepaliveInterval = 10 * time.Second
	DefaultStatsInterval     = 60 * time.Second
)

// Validation errors.
var (
	ErrEmptyAddr       = errors.New("listen address cannot be empty")
	ErrBufferTooSmall  = errors.New("request buffer must be at least 1 KiB")
	ErrBadTimeout      = errors.New("timeouts must be positive")
	ErrBadKeepalive    = errors.New("keepalive interval must be positive")
	ErrNegativeConnCap = errors.New("max connections cannot be negative")
)

// Config holds all chatd server settings.
type Config struct {
	// Addr is the TCP listen address, host:port.
	Addr string `yaml:"addr"`

	// MaxRequestBytes caps the per-connection request buffer. A request
	// whose head or body does not fit is rejected with 413.
	MaxRequestBytes int `yaml:"maxRequestBytes"`

	// ReadTimeout bounds each socket read.
	ReadTimeout time.Duration `yaml:"readTimeout"`

	// WriteTimeout bounds each socket write.
	WriteTimeout time.Duration `yaml:"writeTimeout"`

	// KeepaliveInterval is how long a stream may sit idle before a ping
	// frame is sent.
	KeepaliveInterval time.Duration `yaml:"keepaliveInterval"`

	// MaxConns caps concurrently served connections. 0 means unlimited.
	MaxConns int `yaml:"maxConns"`

	// OpenBrowser opens the platform browser at the root URL once the
	// listener is bound.
	OpenBrowser bool `yaml:"openBrowser"`

	// StatsInterval is the period between counter reports. 0 disables
	// reporting.
	StatsInterval time.Duration `yaml:"statsInterval"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`

	// LogFormat is text or json.
	LogFormat string `yaml:"logFormat"`
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Addr:              DefaultAddr,
		MaxRequestBytes:   DefaultMaxRequestBytes,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		KeepaliveInterval: DefaultKeepaliveInterval,
		StatsInterval:     DefaultStatsInterval,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrEmptyAddr
	}
	if c.MaxRequestBytes < 1024 {
		return fmt.Errorf("%w: got %d", ErrBufferTooSmall, c.MaxRequestBytes)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return ErrBadTimeout
	}
	if c.KeepaliveInterval <= 0 {
		return ErrBadKeepalive
	}
	if c.MaxConns < 0 {
		return ErrNegativeConnCap
	}
	return nil
}
