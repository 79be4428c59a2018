package secgov

import "sync"

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process-wide shared client, constructing it from
// DefaultConfig on first use. Collaborators should receive the client by
// reference; Default exists for process entry points.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultClient == nil {
		client, err := NewClient(DefaultConfig())
		if err != nil {
			// Cache setup is the only fallible step; degrade to an
			// uncached client rather than failing the first caller.
			cfg := DefaultConfig()
			cfg.CacheEnabled = false
			client, _ = NewClient(cfg)
		}
		defaultClient = client
	}

	return defaultClient
}

// SetDefault atomically replaces the process-wide client. Intended for
// test injection and for entry points that build a client from loaded
// configuration.
func SetDefault(client *Client) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultClient = client
}
