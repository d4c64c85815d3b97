package client

import "net/http"

// Client bundles the SDK surface: session lifecycle, route admission
// and the marketplace API wrappers, all sharing one transport.
type Client struct {
	Sessions *SessionStore
	Guard    *RouteGuard
	Items    *ItemsAPI
	Orders   *OrdersAPI
}

// Options tunes client construction. Zero values select defaults.
type Options struct {
	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
	// Storage overrides the durable session store. The default writes
	// a session file under the user config directory.
	Storage TokenStorage
}

// New builds a client against baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	transport, err := NewTransport(baseURL, opts.HTTPClient)
	if err != nil {
		return nil, err
	}

	storage := opts.Storage
	if storage == nil {
		fileStorage, err := NewFileTokenStorage("")
		if err != nil {
			return nil, err
		}
		storage = fileStorage
	}

	sessions := NewSessionStore(transport, storage)
	return &Client{
		Sessions: sessions,
		Guard:    NewRouteGuard(sessions),
		Items:    &ItemsAPI{transport: transport},
		Orders:   &OrdersAPI{transport: transport},
	}, nil
}
