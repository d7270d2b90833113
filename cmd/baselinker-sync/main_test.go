package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/baselinker-client/internal/testutil"
	"github.com/Sternrassler/baselinker-client/pkg/client"
	"github.com/Sternrassler/baselinker-client/pkg/entities"
)

func setupEnv(t *testing.T, host string) {
	t.Helper()
	t.Setenv("BASELINKER_HOST", host)
	t.Setenv("BASELINKER_TOKEN", "test-token")
	t.Setenv("BASELINKER_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "disabled")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("REDIS_URL", "")
	t.Setenv("METRICS_ADDR", "")
	t.Setenv("JOURNAL_NAME", "test")
	t.Setenv("JOURNAL_START_LOG_ID", "100")
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	statusRouter().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	statusRouter().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("Expected Prometheus exposition format")
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		check   func(t *testing.T, o options)
	}{
		{
			name: "defaults",
			args: nil,
			check: func(t *testing.T, o options) {
				if o.mode != modeOrders || o.interval != 0 || o.logsTypes != nil {
					t.Errorf("unexpected defaults: %+v", o)
				}
			},
		},
		{
			name: "orders filters",
			args: []string{"-date-from", "1700000000", "-status-id", "6624", "-email", "a@b.c", "-unconfirmed"},
			check: func(t *testing.T, o options) {
				p := o.ordersParams()
				if p.DateFrom == nil || *p.DateFrom != 1700000000 {
					t.Errorf("DateFrom = %v", p.DateFrom)
				}
				if p.StatusID == nil || *p.StatusID != 6624 {
					t.Errorf("StatusID = %v", p.StatusID)
				}
				if p.GetUnconfirmedOrders == nil || !*p.GetUnconfirmedOrders {
					t.Error("GetUnconfirmedOrders not set")
				}
				if p.FilterEmail != "a@b.c" {
					t.Errorf("FilterEmail = %q", p.FilterEmail)
				}
			},
		},
		{
			name: "journal",
			args: []string{"-mode", "journal", "-logs-types", "18, 3", "-interval", "30s"},
			check: func(t *testing.T, o options) {
				want := []entities.LogType{entities.LogTypeStatusChanged, entities.LogTypePayment}
				if len(o.logsTypes) != 2 || o.logsTypes[0] != want[0] || o.logsTypes[1] != want[1] {
					t.Errorf("logsTypes = %v, want %v", o.logsTypes, want)
				}
				if o.interval != 30*time.Second {
					t.Errorf("interval = %s", o.interval)
				}
			},
		},
		{name: "unknown mode", args: []string{"-mode", "products"}, wantErr: "unsupported mode"},
		{name: "bad log type", args: []string{"-logs-types", "18,x"}, wantErr: "invalid log type"},
		{name: "zero log type", args: []string{"-logs-types", "0"}, wantErr: "invalid log type"},
		{name: "negative interval", args: []string{"-interval", "-1s"}, wantErr: "interval"},
		{name: "negative status", args: []string{"-status-id", "-2"}, wantErr: "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseFlags(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, opts)
		})
	}
}

func TestOrdersParams_Empty(t *testing.T) {
	p := options{mode: modeOrders}.ordersParams()
	if p.DateFrom != nil || p.StatusID != nil || p.GetUnconfirmedOrders != nil || p.FilterEmail != "" {
		t.Errorf("expected no filters, got %+v", p)
	}
}

func TestRun_Orders(t *testing.T) {
	mock := testutil.NewMockBaseLinker()
	defer mock.Close()
	mock.SetResponse(client.MethodGetOrders, testutil.OrdersResponse(testutil.Orders(1, 3, 1000)))
	setupEnv(t, mock.URL())

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-status-id", "5"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out.String())
	}
	var order entities.Order
	if err := json.Unmarshal([]byte(lines[2]), &order); err != nil {
		t.Fatalf("line is not an order: %v", err)
	}
	if order.OrderID != 3 {
		t.Errorf("last order ID = %d, want 3", order.OrderID)
	}

	calls := mock.Calls()
	if len(calls) != 1 || calls[0].Token != "test-token" {
		t.Fatalf("unexpected calls: %+v", calls)
	}
	if status, _ := calls[0].Int64Param("status_id"); status != 5 {
		t.Errorf("status_id = %d, want 5", status)
	}
}

func TestRun_JournalOnce(t *testing.T) {
	mock := testutil.NewMockBaseLinker()
	defer mock.Close()
	mock.SetResponse(client.MethodGetJournalList, testutil.LogsResponse(testutil.Logs(101, 2, 18)))
	setupEnv(t, mock.URL())

	var out bytes.Buffer
	if err := run(context.Background(), []string{"-mode", "journal", "-logs-types", "18"}, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if n := strings.Count(out.String(), "\n"); n != 2 {
		t.Errorf("expected 2 lines, got %d", n)
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if last, _ := calls[0].Int64Param("last_log_id"); last != 100 {
		t.Errorf("last_log_id = %d, want JOURNAL_START_LOG_ID 100", last)
	}
}

func TestRun_JournalFollowStopsOnCancel(t *testing.T) {
	mock := testutil.NewMockBaseLinker()
	defer mock.Close()
	mock.SetResponse(client.MethodGetJournalList, testutil.LogsResponse(nil))
	setupEnv(t, mock.URL())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := run(ctx, []string{"-mode", "journal", "-interval", "20ms"}, io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if mock.CallCount() < 2 {
		t.Errorf("expected repeated polls, got %d", mock.CallCount())
	}
}

func TestRun_APIError(t *testing.T) {
	mock := testutil.NewMockBaseLinker()
	defer mock.Close()
	mock.SetResponse(client.MethodGetOrders, testutil.ErrorResponse(http.StatusForbidden, "ERROR_BAD_TOKEN", "bad token"))
	setupEnv(t, mock.URL())

	err := run(context.Background(), nil, io.Discard)
	if !client.IsAPIError(err) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	setupEnv(t, "http://localhost:1/connector.php")
	t.Setenv("BASELINKER_TOKEN", "")

	err := run(context.Background(), nil, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected config error, got %v", err)
	}
}
