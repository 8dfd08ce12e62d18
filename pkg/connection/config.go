package connection

import (
	"net/url"
	"strings"
	"time"

	"github.com/learnconnect/learnconnect.go/internal/codec"
	"github.com/learnconnect/learnconnect.go/pkg/constants"
	"github.com/learnconnect/learnconnect.go/pkg/logger"
)

// Config carries everything a Connection needs.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8000/api".
	// Endpoint paths are appended to it verbatim.
	BaseURL     string
	Marshaler   codec.Marshaler
	Unmarshaler codec.Unmarshaler
	Logger      logger.Logger
	Timeout     time.Duration

	// Tokens supplies the bearer token for authenticated requests.
	// A nil Tokens sends every request anonymously.
	Tokens TokenSource
}

// NewConfig creates a new Config for the API rooted at u.
// It is not absolutely necessary to create a Config using this function,
// but it fills in the JSON codec, a default timeout and a discarding logger.
func NewConfig(u *url.URL) *Config {
	return &Config{
		BaseURL:     strings.TrimRight(u.String(), "/"),
		Marshaler:   codec.JSON{},
		Unmarshaler: codec.JSON{},
		Logger:      logger.Nop(),
		Timeout:     constants.DefaultHTTPTimeout,
	}
}

// NewConfigFromString parses raw and calls NewConfig.
func NewConfigFromString(raw string) (*Config, error) {
	if raw == "" {
		return nil, constants.ErrNoBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != constants.HTTPScheme && u.Scheme != constants.HTTPSecureScheme {
		return nil, &url.Error{Op: "parse", URL: raw, Err: errUnsupportedScheme}
	}
	return NewConfig(u), nil
}

func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return constants.ErrNoBaseURL
	}
	if c.Marshaler == nil {
		return constants.ErrNoMarshaler
	}
	if c.Unmarshaler == nil {
		return constants.ErrNoUnmarshaler
	}
	return nil
}
