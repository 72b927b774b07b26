package domain

import (
	"fmt"
	"strings"
	"time"
)

// Protocol is the URL scheme used to reach the GitLab instance.
type Protocol string

const (
	ProtocolHTTP  Protocol = "http"
	ProtocolHTTPS Protocol = "https"
)

// ParseProtocol parses a protocol name. Anything other than "http"
// resolves to https.
func ParseProtocol(s string) Protocol {
	if strings.EqualFold(strings.TrimSpace(s), string(ProtocolHTTP)) {
		return ProtocolHTTP
	}
	return ProtocolHTTPS
}

// AuthMethod selects how the access token is presented.
type AuthMethod string

const (
	// AuthMethodPrivateToken sends the token in the PRIVATE-TOKEN header.
	AuthMethodPrivateToken AuthMethod = "private_token"

	// AuthMethodOAuth sends the token as an OAuth2 bearer token.
	AuthMethodOAuth AuthMethod = "oauth"
)

// Defaults applied when nothing is configured.
const (
	DefaultDomain         = "gitlab.com"
	DefaultConcurrency    = 10
	DefaultRequestTimeout = 30 * time.Second
)

// Config holds connection settings for a GitLab instance.
type Config struct {
	Domain string
	Token  string

	Protocol Protocol

	// IgnoreTLSVerification disables certificate checks.
	IgnoreTLSVerification bool

	// Concurrency is the number of search requests in flight per batch.
	Concurrency int

	AuthMethod AuthMethod

	// RequestTimeout bounds every API request. Zero means no timeout.
	RequestTimeout time.Duration

	// RateLimit caps requests per second. Zero disables throttling.
	RateLimit float64
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Domain:         DefaultDomain,
		Protocol:       ProtocolHTTPS,
		Concurrency:    DefaultConcurrency,
		AuthMethod:     AuthMethodPrivateToken,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Validate checks the preconditions for any network call.
func (c Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("%w: GitLab access token is required, configure it with: gitlab-search setup --token <your-token>", ErrAuthRequired)
	}
	if c.Domain == "" {
		return fmt.Errorf("%w: GitLab domain is required", ErrInvalidInput)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalidInput, c.Concurrency)
	}
	if c.Protocol != ProtocolHTTP && c.Protocol != ProtocolHTTPS {
		return fmt.Errorf("%w: protocol %q", ErrUnsupportedType, c.Protocol)
	}
	switch c.AuthMethod {
	case "", AuthMethodPrivateToken, AuthMethodOAuth:
	default:
		return fmt.Errorf("%w: auth method %q", ErrUnsupportedType, c.AuthMethod)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate limit must not be negative", ErrInvalidInput)
	}
	return nil
}

// BaseURL returns the REST API root, e.g. https://gitlab.com/api/v4.
func (c Config) BaseURL() string {
	protocol := c.Protocol
	if protocol == "" {
		protocol = ProtocolHTTPS
	}
	return fmt.Sprintf("%s://%s/api/v4", protocol, strings.TrimSuffix(c.Domain, "/"))
}
