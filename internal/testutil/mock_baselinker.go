// Package testutil provides testing utilities for the BaseLinker client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Call is a request received by the mock server.
type Call struct {
	Token      string
	Method     string
	Parameters map[string]any

	// RawParameters is the parameters form field as sent.
	RawParameters string
	ContentType   string
}

// Int64Param returns a numeric parameter. JSON numbers decode as float64.
func (c Call) Int64Param(name string) (int64, bool) {
	v, ok := c.Parameters[name].(float64)
	if !ok {
		return 0, false
	}
	return int64(v), true
}

// MockResponse defines a canned response.
type MockResponse struct {
	StatusCode int
	Body       string
}

// HandlerFunc answers one API call.
type HandlerFunc func(call Call) MockResponse

// MockBaseLinker is a configurable mock of the BaseLinker connector endpoint.
type MockBaseLinker struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	calls    []Call
}

// NewMockBaseLinker creates and starts a mock server.
func NewMockBaseLinker() *MockBaseLinker {
	mock := &MockBaseLinker{
		handlers: make(map[string]HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		call := Call{
			Token:         r.PostForm.Get("token"),
			Method:        r.PostForm.Get("method"),
			RawParameters: r.PostForm.Get("parameters"),
			ContentType:   r.Header.Get("Content-Type"),
		}
		if err := json.Unmarshal([]byte(call.RawParameters), &call.Parameters); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"status":"ERROR","error_code":"ERROR_PARAMETERS","error_message":%q}`, err.Error())
			return
		}

		mock.mu.Lock()
		mock.calls = append(mock.calls, call)
		handler, exists := mock.handlers[call.Method]
		mock.mu.Unlock()

		resp := MockResponse{
			StatusCode: http.StatusOK,
			Body:       `{"status":"ERROR","error_code":"ERROR_UNKNOWN_METHOD","error_message":"unknown method"}`,
		}
		if exists {
			resp = handler(call)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resp.Body))
	}))

	return mock
}

// URL returns the endpoint URL.
func (m *MockBaseLinker) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBaseLinker) Close() {
	m.server.Close()
}

// Reset clears recorded calls.
func (m *MockBaseLinker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// SetHandler sets the handler for an API method.
func (m *MockBaseLinker) SetHandler(method string, handler HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[method] = handler
}

// SetResponse answers every call of method with resp.
func (m *MockBaseLinker) SetResponse(method string, resp MockResponse) {
	m.SetHandler(method, func(Call) MockResponse { return resp })
}

// SetSequence answers successive calls of method with responses in order.
// Calls beyond the sequence get HTTP 500.
func (m *MockBaseLinker) SetSequence(method string, responses ...MockResponse) {
	var mu sync.Mutex
	next := 0
	m.SetHandler(method, func(Call) MockResponse {
		mu.Lock()
		defer mu.Unlock()
		if next >= len(responses) {
			return MockResponse{StatusCode: http.StatusInternalServerError, Body: "sequence exhausted"}
		}
		resp := responses[next]
		next++
		return resp
	})
}

// Calls returns a copy of all recorded calls.
func (m *MockBaseLinker) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns the number of recorded calls.
func (m *MockBaseLinker) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.calls)
}

// JSONResponse creates a 200 response with v encoded as the body.
func JSONResponse(v any) MockResponse {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: marshal response: %v", err))
	}
	return MockResponse{StatusCode: http.StatusOK, Body: string(data)}
}

// OrdersResponse creates a successful getOrders response. A nil slice is
// sent as an empty array.
func OrdersResponse(orders []map[string]any) MockResponse {
	if orders == nil {
		orders = []map[string]any{}
	}
	return JSONResponse(map[string]any{"status": "SUCCESS", "orders": orders})
}

// LogsResponse creates a successful getJournalList response. A nil slice is
// sent as an empty array.
func LogsResponse(logs []map[string]any) MockResponse {
	if logs == nil {
		logs = []map[string]any{}
	}
	return JSONResponse(map[string]any{"status": "SUCCESS", "logs": logs})
}

// ErrorResponse creates an error response with the API's error envelope.
func ErrorResponse(statusCode int, code, message string) MockResponse {
	data, _ := json.Marshal(map[string]string{
		"status":     "ERROR",
		"error_code": code,
		"message":    message,
	})
	return MockResponse{StatusCode: statusCode, Body: string(data)}
}

// Orders builds n orders with consecutive IDs starting at firstID and
// date_add values starting at firstDateAdd.
func Orders(firstID int64, n int, firstDateAdd int64) []map[string]any {
	orders := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, map[string]any{
			"order_id":        firstID + int64(i),
			"date_add":        firstDateAdd + int64(i),
			"order_status_id": 1,
			"email":           fmt.Sprintf("buyer%d@example.com", firstID+int64(i)),
			"currency":        "EUR",
		})
	}
	return orders
}

// Logs builds n journal entries with consecutive IDs starting at firstID.
func Logs(firstID int64, n int, logType int) []map[string]any {
	logs := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		logs = append(logs, map[string]any{
			"log_id":    firstID + int64(i),
			"log_type":  logType,
			"order_id":  1000 + firstID + int64(i),
			"object_id": 0,
			"date":      1700000000 + firstID + int64(i),
		})
	}
	return logs
}
