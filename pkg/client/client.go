// Package client provides the BaseLinker API client: request encoding,
// error classification, response parsing and the typed list methods.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the BaseLinker API client. It is safe for concurrent use; its
// configuration is fixed at construction.
type Client struct {
	host       string
	token      string
	userAgent  string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// New creates a new BaseLinker client.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.With().Str("component", "baselinker-client").Logger()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(cfg.Timeout)
	}

	return &Client{
		host:       cfg.Host,
		token:      cfg.Token,
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Host returns the configured endpoint.
func (c *Client) Host() string {
	return c.host
}

// Request calls an API method and returns the raw body of a 200 response.
// params is JSON-encoded into the parameters form field; nil sends {}.
// Any status other than 200 yields an *APIError built by NewAPIError, and
// transport failures yield an *APIError of class ErrorClassNetwork.
func (c *Client) Request(ctx context.Context, method string, params any) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(method).Observe(time.Since(startTime).Seconds())
	}()

	parameters, err := encodeParameters(params)
	if err != nil {
		return nil, &ParametersError{Method: method, Message: err.Error()}
	}

	form := url.Values{}
	form.Set("token", c.token)
	form.Set("method", method)
	form.Set("parameters", parameters)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug().
		Str("method", method).
		Str("parameters", parameters).
		Msg("Executing BaseLinker request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.networkFailure(method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkFailure(method, fmt.Errorf("read response body: %w", err))
	}

	requestsTotal.WithLabelValues(method, statusLabel(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		apiErr := NewAPIError(resp.StatusCode, body)
		errorsTotal.WithLabelValues(string(apiErr.ErrorClass)).Inc()

		c.logger.Warn().
			Str("method", method).
			Int("status", resp.StatusCode).
			Str("error_class", string(apiErr.ErrorClass)).
			Str("error_code", apiErr.ErrorCode).
			Msg("BaseLinker request error")
		return nil, apiErr
	}

	c.logger.Debug().
		Str("method", method).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("BaseLinker request complete")

	return body, nil
}

func (c *Client) networkFailure(method string, err error) error {
	requestsTotal.WithLabelValues(method, statusLabel(0)).Inc()
	errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
	c.logger.Error().Err(err).Str("method", method).Msg("HTTP request failed")
	return newNetworkError(err)
}

// decodeFailure records a DecodingError for metrics and logs.
func (c *Client) decodeFailure(method string, err error) error {
	errorsTotal.WithLabelValues("decoding").Inc()
	c.logger.Warn().Err(err).Str("method", method).Msg("BaseLinker response decoding failed")
	return err
}

func encodeParameters(params any) (string, error) {
	if params == nil {
		return "{}", nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	return string(data), nil
}

// Ptr returns a pointer to v, for filling optional parameter fields.
func Ptr[T any](v T) *T {
	return &v
}
