package graphql

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kilianp07/seaplane/infra/auth"
)

// Config locates the GraphQL backend.
type Config struct {
	Endpoint       string            `json:"endpoint"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	MaxRetries     int               `json:"max_retries"`
	BackoffMS      int               `json:"backoff_ms"`
	Headers        map[string]string `json:"headers"`
	// Auth enables OAuth2 client credentials on every request.
	Auth auth.Conf `json:"auth"`
}

// SetDefaults applies fallback values for optional fields.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.BackoffMS <= 0 {
		c.BackoffMS = 200
	}
}

// Validate checks the endpoint.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint scheme must be http or https, got %q", u.Scheme)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Auth.Enabled() && c.Auth.TokenURL == "" {
		return fmt.Errorf("auth: token_url is required")
	}
	return nil
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration { return time.Duration(c.TimeoutSeconds) * time.Second }
