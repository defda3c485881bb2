package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/inkflow/resilience"
	"github.com/kbukum/inkflow/security"
)

const (
	defaultTimeout               = 60 * time.Second
	defaultResponseHeaderTimeout = 30 * time.Second
	defaultMaxErrorBody          = 4096
	defaultUserAgent             = "inkflow"
)

// Config configures the HTTP client.
type Config struct {
	// Timeout bounds a whole non-streaming exchange. Streams are bounded by
	// their context only.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ResponseHeaderTimeout bounds the wait for the status line, streams included.
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout" mapstructure:"response_header_timeout"`

	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// MaxErrorBody caps how much of an error response body is kept.
	MaxErrorBody int64 `yaml:"max_error_body" mapstructure:"max_error_body"`

	// Retry applies to Do only. Connection failures are retried; HTTP
	// error statuses are not.
	Retry resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`

	// TLS configures a private CA or client certificate. Nil uses the
	// system defaults.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.ResponseHeaderTimeout == 0 {
		c.ResponseHeaderTimeout = defaultResponseHeaderTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.MaxErrorBody <= 0 {
		c.MaxErrorBody = defaultMaxErrorBody
	}
	c.Retry.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.ResponseHeaderTimeout < 0 {
		return fmt.Errorf("httpclient: response_header_timeout must not be negative")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("httpclient: retry.max_attempts must be at least 1")
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	return nil
}
