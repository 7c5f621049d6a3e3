package webclient_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/webclient"
)

// noopLogger is a test-local logger implementation that discards all log messages
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, fields ...logging.Field) {}
func (n *noopLogger) Info(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Warn(msg string, fields ...logging.Field)  {}
func (n *noopLogger) Error(msg string, fields ...logging.Field) {}
func (n *noopLogger) With(fields ...logging.Field) logging.Logger {
	return n
}

// TestNewNetHTTPClient_Construct verifies that NewNetHTTPClient returns a non-nil client
func TestNewNetHTTPClient_Construct(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &noopLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient returned error: %v", err)
	}
	if client == nil {
		t.Fatal("NewNetHTTPClient returned nil client")
	}
	defer client.Close()

	if got := client.HTTPClient().Timeout; got != 30*time.Second {
		t.Errorf("expected default 30s timeout, got %s", got)
	}
}

func TestNewNetHTTPClient_TimeoutFromConfig(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewNetHTTPClient(webclient.Config{Timeout: 3 * time.Second}, &noopLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	if got := client.HTTPClient().Timeout; got != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", got)
	}
}

func TestNewNetHTTPClient_WithCustomClient(t *testing.T) {
	t.Parallel()
	custom := &http.Client{Timeout: 7 * time.Second}
	client, err := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, custom)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	if client.HTTPClient() != custom {
		t.Error("expected the supplied http.Client to be used")
	}
}

func TestNetHTTPClient_Close(t *testing.T) {
	t.Parallel()
	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, nil)
	if err := client.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
}

func TestNetHTTPClient_ErrInvalidRequest(t *testing.T) {
	t.Parallel()
	client, _ := webclient.NewNetHTTPClient(webclient.Config{}, &noopLogger{}, nil)
	if client.ErrInvalidRequest() == nil {
		t.Error("expected non-nil error")
	}
}

func TestResponse_OK(t *testing.T) {
	t.Parallel()
	cases := map[int]bool{199: false, 200: true, 204: true, 299: true, 300: false, 404: false, 500: false}
	for code, want := range cases {
		r := &webclient.Response{StatusCode: code}
		if r.OK() != want {
			t.Errorf("status %d: OK()=%v, want %v", code, r.OK(), want)
		}
	}
	var nilResp *webclient.Response
	if nilResp.OK() {
		t.Error("nil response must not be OK")
	}
}
