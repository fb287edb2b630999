package host

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/wesleyorama2/courier/endpoint"
	"github.com/wesleyorama2/courier/header"
	"github.com/wesleyorama2/courier/transport"
)

const (
	// DefaultTimeout bounds every request unless Config.Timeout says otherwise.
	DefaultTimeout = 15 * time.Second
)

// Config configures a Host.
type Config struct {
	// BaseURL is the absolute URL every request path is joined onto.
	BaseURL string `yaml:"base_url" json:"baseUrl"`

	// Headers are sent with every request unless a call overrides them.
	Headers header.Headers `yaml:"-" json:"-"`

	// Timeout bounds each request. Defaults to 15s.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Transport performs the I/O. Defaults to a net/http transport.
	Transport transport.Transport `yaml:"-" json:"-"`

	// Logger receives dispatch and resolution events. Nil disables logging.
	Logger *zerolog.Logger `yaml:"-" json:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Transport == nil {
		c.Transport = transport.NewHTTP()
	}
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("host: base URL is required")
	}
	if _, err := endpoint.ParseBase(c.BaseURL); err != nil {
		return fmt.Errorf("host: %w", err)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("host: timeout must be positive")
	}
	if c.Transport == nil {
		return fmt.Errorf("host: transport is required")
	}
	return nil
}
