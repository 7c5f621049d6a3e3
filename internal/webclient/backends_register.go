package webclient

import (
	"github.com/raysh454/paydash/internal/logging"
)

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the nethttp backend.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		client, err := NewNetHTTPClient(cfg, logger, nil)
		if err != nil {
			return nil, err
		}
		return client, nil
	})
}
