package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

const statusError = "ERROR"

// ParseList decodes the array stored under field in a JSON response body into
// a slice of T, preserving order. It fails with *DecodingError when the body
// is not a JSON object, the field is missing, the value is not an array of
// objects, or an element does not decode into T.
func ParseList[T any](field string, body []byte) ([]T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &DecodingError{Body: truncate(string(body), maxErrorBodyLength), Err: err}
	}
	// A JSON null decodes into a nil map without error.
	if envelope == nil {
		return nil, &DecodingError{Body: string(body), Err: errors.New("response is not a JSON object")}
	}

	raw, ok := envelope[field]
	if !ok {
		return nil, &DecodingError{
			Field: field,
			Body:  truncate(string(body), maxErrorBodyLength),
			Err:   missingFieldCause(body),
		}
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, &DecodingError{Field: field, Err: err}
	}
	if elements == nil {
		return nil, &DecodingError{Field: field, Err: errors.New("value is null, want array")}
	}

	items := make([]T, 0, len(elements))
	for i, element := range elements {
		trimmed := bytes.TrimSpace(element)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, &DecodingError{
				Field: field,
				Err:   fmt.Errorf("element %d is not an object", i),
			}
		}

		var item T
		if err := json.Unmarshal(trimmed, &item); err != nil {
			return nil, &DecodingError{
				Field: field,
				Err:   fmt.Errorf("element %d: %w", i, err),
			}
		}
		items = append(items, item)
	}

	return items, nil
}

// missingFieldCause explains a missing field. When the body is the API's
// in-band error envelope the cause is an *APIError carrying its code.
func missingFieldCause(body []byte) error {
	env, ok := decodeErrorEnvelope(body)
	if !ok || env.Status != statusError {
		return errors.New("field missing from response")
	}

	return &APIError{
		StatusCode: http.StatusOK,
		ErrorClass: ErrorClassAPI,
		ErrorCode:  env.ErrorCode,
		Message:    env.message(),
	}
}
