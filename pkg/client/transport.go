package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// sessionCredentials is the contract the transport needs from the
// session store: current token lookup, a refresh operation, and a hook
// for clearing state when refresh is exhausted.
type sessionCredentials interface {
	currentAccessToken() string
	refreshAccessToken(ctx context.Context) (string, error)
	handleAuthFailure()
}

// Transport issues JSON requests against the backend, attaching the
// bearer token at call time and recovering from a single expired-token
// rejection per call.
type Transport struct {
	baseURL    *url.URL
	httpClient *http.Client
	creds      sessionCredentials

	refreshMu sync.Mutex
	inflight  *refreshCall
}

type refreshCall struct {
	done   chan struct{}
	access string
	err    error
}

// NewTransport builds a transport for the given base URL. The
// credentials source is attached later by the session store.
func NewTransport(baseURL string, httpClient *http.Client) (*Transport, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Transport{baseURL: parsed, httpClient: httpClient}, nil
}

func (t *Transport) bindCredentials(creds sessionCredentials) {
	t.creds = creds
}

// Do issues an authenticated request. A 401 response triggers one
// refresh-and-retry cycle; the retried call is never refreshed again.
func (t *Transport) Do(ctx context.Context, method, path string, body, out any) error {
	return t.do(ctx, method, path, body, out, 1)
}

// DoOnce issues a request without the refresh-and-retry cycle. The
// auth endpoints themselves go through here so a rejected login can
// never trigger a refresh.
func (t *Transport) DoOnce(ctx context.Context, method, path string, body, out any) error {
	return t.do(ctx, method, path, body, out, 0)
}

func (t *Transport) do(ctx context.Context, method, path string, body, out any, retryBudget int) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return newError(KindInternal, "encode request: "+err.Error())
		}
		payload = encoded
	}

	token := ""
	if t.creds != nil {
		token = t.creds.currentAccessToken()
	}

	for {
		status, raw, err := t.send(ctx, method, path, payload, token)
		if err != nil {
			return networkError(err)
		}

		if status < http.StatusBadRequest {
			return decodeBody(raw, out)
		}

		if status == http.StatusUnauthorized && retryBudget > 0 {
			retryBudget--
			newToken, refreshErr := t.refreshShared(ctx)
			if refreshErr != nil {
				return newError(KindUnauthenticated, "session expired")
			}
			token = newToken
			continue
		}

		var envelope errorEnvelope
		if len(raw) > 0 && json.Unmarshal(raw, &envelope) != nil {
			return errorFromResponse(status, nil)
		}
		return errorFromResponse(status, &envelope)
	}
}

func (t *Transport) send(ctx context.Context, method, path string, payload []byte, token string) (int, []byte, error) {
	target, err := t.resolve(path)
	if err != nil {
		return 0, nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

func (t *Transport) resolve(path string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	base := *t.baseURL
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String(), nil
}

// refreshShared coalesces concurrent refresh attempts into a single
// backend call; latecomers wait for the in-flight outcome.
func (t *Transport) refreshShared(ctx context.Context) (string, error) {
	t.refreshMu.Lock()
	if call := t.inflight; call != nil {
		t.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.access, call.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	t.inflight = call
	t.refreshMu.Unlock()

	call.access, call.err = t.creds.refreshAccessToken(ctx)
	if call.err != nil {
		t.creds.handleAuthFailure()
	}

	t.refreshMu.Lock()
	t.inflight = nil
	t.refreshMu.Unlock()
	close(call.done)

	return call.access, call.err
}

func decodeBody(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return newError(KindInternal, "decode response: "+err.Error())
	}
	return nil
}
