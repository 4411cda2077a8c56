package outbound

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

// SessionHeader carries the session token on every request.
const SessionHeader = "X-Session-Id"

const requestIDHeader = "X-Request-Id"

// envelope is the backend's standard response wrapper.
type envelope struct {
	Status     string            `json:"status"`
	StatusCode int               `json:"status_code"`
	Data       json.RawMessage   `json:"data"`
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields"`
}

// Client talks to the dealership backend. Every call stamps the session
// token and a per-request id; responses that resolve after Close are dropped
// without being applied, so a dismissed view never sees them.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *SessionContext

	mu         sync.Mutex
	generation uint64
	closed     bool
}

type ClientOption func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, session *SessionContext, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		session:    session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close invalidates the client: requests already in flight resolve as
// ErrStaleResponse instead of delivering their payload.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.mu.Unlock()
}

func (c *Client) currentGeneration() (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, c.closed
}

// do performs one request and decodes the envelope's data into out (when out
// is non-nil). Errors are mapped to the typed conditions in errors.go.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	gen, closed := c.currentGeneration()
	if closed {
		return ErrStaleResponse
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set(SessionHeader, token)
	}
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}

	// The view that issued this request may have been dismissed while it was
	// in flight. Its payload must not be applied.
	if nowGen, nowClosed := c.currentGeneration(); nowClosed || nowGen != gen {
		return ErrStaleResponse
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &NetworkError{Op: method + " " + path, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return c.mapError(resp.StatusCode, env)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &NetworkError{Op: method + " " + path, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}

func (c *Client) mapError(statusCode int, env envelope) error {
	switch {
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		c.session.notifyExpired()
		return &AuthError{StatusCode: statusCode, Message: env.Error}
	case statusCode == http.StatusNotFound:
		return &NotFoundError{Resource: "resource", Message: env.Error}
	case len(env.Fields) > 0:
		return &ValidationError{Fields: env.Fields}
	default:
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("request failed (%d)", statusCode)
		}
		return &ValidationError{Fields: map[string]string{"request": msg}}
	}
}
