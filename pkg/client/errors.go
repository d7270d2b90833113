package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// maxErrorBodyLength bounds how much of a raw body ends up in Error().
const maxErrorBodyLength = 512

// ErrorClass represents a classification of failed requests.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors (bad token, blocked account).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRedirect represents 3xx responses. The endpoint never redirects
	// on success, so these are failures too.
	ErrorClassRedirect ErrorClass = "redirect"

	// ErrorClassUnexpected represents any other non-200 status.
	ErrorClassUnexpected ErrorClass = "unexpected"

	// ErrorClassNetwork represents transport errors, timeouts and cancellation.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassAPI represents an error envelope ("status": "ERROR") delivered
	// with HTTP 200.
	ErrorClassAPI ErrorClass = "api"
)

// classifyStatus maps a non-200 status code to an ErrorClass.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 300 && statusCode < 400:
		return ErrorClassRedirect
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}

// APIError is returned when a request does not end with HTTP 200, or when the
// transport itself fails. ErrorCode and Message are set only if the response
// body carried them.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	ErrorCode  string
	Message    string
	Body       string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("baselinker %s error: %v", e.ErrorClass, e.Err)
	case e.ErrorCode != "" || e.Message != "":
		return fmt.Sprintf("baselinker %s error (status %d): %s: %s",
			e.ErrorClass, e.StatusCode, e.ErrorCode, e.Message)
	default:
		return fmt.Sprintf("baselinker %s error (status %d): %s",
			e.ErrorClass, e.StatusCode, truncate(e.Body, maxErrorBodyLength))
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HasDetail reports whether the API supplied an error code or message.
func (e *APIError) HasDetail() bool {
	return e.ErrorCode != "" || e.Message != ""
}

// errorEnvelope is the error shape of the API. The documented field is
// error_message; some gateways answer with message instead.
type errorEnvelope struct {
	Status       string
	ErrorCode    string
	ErrorMessage string
	Message      string
}

// decodeErrorEnvelope reads the envelope fields of a JSON object one by one,
// so a field of an unexpected type leaves the others intact. It reports
// false when body is not a JSON object.
func decodeErrorEnvelope(body []byte) (errorEnvelope, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &fields); err != nil || fields == nil {
		return errorEnvelope{}, false
	}

	return errorEnvelope{
		Status:       textField(fields["status"]),
		ErrorCode:    textField(fields["error_code"]),
		ErrorMessage: textField(fields["error_message"]),
		Message:      textField(fields["message"]),
	}, true
}

// textField returns a JSON string, or a JSON number in its literal form.
// Anything else yields "".
func textField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func (e errorEnvelope) message() string {
	if e.ErrorMessage != "" {
		return e.ErrorMessage
	}
	return e.Message
}

// NewAPIError builds the error for a response that did not return HTTP 200.
// It extracts error_code and message from a JSON body when possible and
// otherwise keeps only the status code and raw body. It never fails.
func NewAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		ErrorClass: classifyStatus(statusCode),
		Body:       string(body),
	}

	env, ok := decodeErrorEnvelope(body)
	if !ok {
		return apiErr
	}

	apiErr.ErrorCode = env.ErrorCode
	apiErr.Message = env.message()
	return apiErr
}

// newNetworkError wraps a transport failure.
func newNetworkError(err error) *APIError {
	return &APIError{
		ErrorClass: ErrorClassNetwork,
		Err:        err,
	}
}

// ParametersError is returned before any request is made when the caller
// passes an unusable parameter set.
type ParametersError struct {
	Method  string
	Message string
}

// Error implements the error interface.
func (e *ParametersError) Error() string {
	return fmt.Sprintf("invalid parameters for %s: %s", e.Method, e.Message)
}

// DecodingError is returned when a 200 response cannot be turned into
// entities: the body is not JSON, the expected field is missing, or a value
// has the wrong type.
type DecodingError struct {
	Field string
	Body  string
	Err   error
}

// Error implements the error interface.
func (e *DecodingError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode response: %v", e.Err)
	}
	return fmt.Sprintf("decode response field %q: %v", e.Field, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DecodingError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err is or wraps an *APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsParametersError reports whether err is or wraps a *ParametersError.
func IsParametersError(err error) bool {
	var paramsErr *ParametersError
	return errors.As(err, &paramsErr)
}

// IsDecodingError reports whether err is or wraps a *DecodingError.
func IsDecodingError(err error) bool {
	var decErr *DecodingError
	return errors.As(err, &decErr)
}

// statusLabel is the metrics label for a response status.
func statusLabel(statusCode int) string {
	if statusCode == 0 {
		return "network_error"
	}
	return fmt.Sprintf("%d", statusCode)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + fmt.Sprintf("... [truncated, total %d bytes]", len(s))
}
