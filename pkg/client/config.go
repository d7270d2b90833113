package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// DefaultHost is the public BaseLinker connector endpoint.
const DefaultHost = "https://api.baselinker.com/connector.php"

// HTTPDoer is the transport used for API calls. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the client configuration.
type Config struct {
	// Host is the URL of the RPC endpoint.
	Host string `validate:"required,url"`

	// Token is the API token sent with every request.
	Token string `validate:"required"`

	// HTTPClient overrides the transport. When nil a *http.Client with
	// Timeout is used that does not follow redirects.
	HTTPClient HTTPDoer `validate:"-"`

	// Timeout for a single request of the default transport. Zero means none.
	Timeout time.Duration `validate:"gte=0"`

	// UserAgent header, optional.
	UserAgent string

	// Logger overrides the component logger derived from the global logger.
	Logger *zerolog.Logger `validate:"-"`
}

// DefaultConfig returns a configuration with safe defaults.
func DefaultConfig(host, token string) Config {
	return Config{
		Host:      host,
		Token:     token,
		Timeout:   30 * time.Second,
		UserAgent: "baselinker-client/1.0",
	}
}

var validate = validator.New()

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// newHTTPClient builds the default transport. Redirects are returned to the
// caller as-is so that they surface as errors.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
