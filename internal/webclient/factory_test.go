package webclient_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/raysh454/paydash/internal/logging"
	"github.com/raysh454/paydash/internal/webclient"
)

// TestNewWebClient_DefaultBackend verifies that empty backend defaults to nethttp
func TestNewWebClient_DefaultBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{}, &noopLogger{})
	if err != nil {
		t.Fatalf("Failed to create default client: %v", err)
	}
	if client == nil {
		t.Fatal("client is nil")
	}
	defer client.Close()

	if _, ok := client.(*webclient.NetHTTPClient); !ok {
		t.Errorf("expected *NetHTTPClient, got %T", client)
	}
}

func TestNewWebClient_UnknownBackend(t *testing.T) {
	t.Parallel()
	_, err := webclient.NewWebClient(webclient.Config{Client: "carrier-pigeon"}, &noopLogger{})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if !strings.Contains(err.Error(), "not registered") {
		t.Errorf("unexpected error: %v", err)
	}
}

type stubClient struct{}

func (stubClient) Do(context.Context, *webclient.Request) (*webclient.Response, error) {
	return &webclient.Response{StatusCode: 200}, nil
}
func (stubClient) Get(context.Context, string) (*webclient.Response, error) {
	return &webclient.Response{StatusCode: 200}, nil
}
func (stubClient) Close() error { return nil }

func TestRegisterBackend_CustomBackend(t *testing.T) {
	t.Parallel()
	webclient.RegisterBackend("Stub-Test", func(webclient.Config, logging.Logger) (webclient.WebClient, error) {
		return stubClient{}, nil
	})

	client, err := webclient.NewWebClient(webclient.Config{Client: "stub-test"}, &noopLogger{})
	if err != nil {
		t.Fatalf("NewWebClient: %v", err)
	}
	if _, ok := client.(stubClient); !ok {
		t.Errorf("expected stubClient, got %T", client)
	}

	found := false
	for _, name := range webclient.ListBackends() {
		if name == "stub-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("stub-test missing from %v", webclient.ListBackends())
	}
}

func TestRegisterBackend_ConstructorError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	webclient.RegisterBackend("failing-test", func(webclient.Config, logging.Logger) (webclient.WebClient, error) {
		return nil, boom
	})
	_, err := webclient.NewWebClient(webclient.Config{Client: "failing-test"}, &noopLogger{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}
