package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/codelens-edu/codelens-gateway/internal/session"
	"github.com/rs/zerolog"
)

// Result is the uniform shape every upstream call collapses into. Handlers
// and the auth service never see a raw transport error or response object.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	// Status is the upstream HTTP status, or 0 when the request never
	// completed (network failure, timeout).
	Status int `json:"-"`
}

// UnauthorizedHook is invoked when the upstream rejects an attached
// credential. The hook owns the session-clearing side effect; the rejected
// Result still propagates to the caller.
type UnauthorizedHook func(ctx context.Context)

// Client is the sole outbound channel to the CodeLens API. It attaches the
// session bearer token from the request context and normalizes every outcome
// into a Result. One round trip per call: no retries, no queuing.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	onUnauthorized UnauthorizedHook
	log            zerolog.Logger
}

// New creates a gateway client for the given upstream base URL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "gateway").Logger(),
	}
}

// OnUnauthorized registers the single subscriber for credential-rejection
// events. Call before serving traffic; not safe to swap concurrently.
func (c *Client) OnUnauthorized(hook UnauthorizedHook) {
	c.onUnauthorized = hook
}

// Get performs a GET round trip against the upstream.
func (c *Client) Get(ctx context.Context, path string) Result {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST round trip with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) Result {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Put performs a PUT round trip with an optional JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) Result {
	return c.Do(ctx, http.MethodPut, path, body)
}

// Delete performs a DELETE round trip.
func (c *Client) Delete(ctx context.Context, path string) Result {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do executes one request/response round trip. If the context carries an
// authenticated session the bearer token is attached; otherwise the
// Authorization header is omitted entirely.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}) Result {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			c.log.Error().Err(err).Str("path", path).Msg("Encode request body failed")
			return transportFailure()
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		c.log.Error().Err(err).Str("path", path).Msg("Build request failed")
		return transportFailure()
	}
	req.Header.Set("Content-Type", "application/json")

	tokenAttached := false
	if sess, ok := session.FromContext(ctx); ok && sess.IsAuthenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
		tokenAttached = true
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("Upstream unreachable")
		return transportFailure()
	}
	defer resp.Body.Close()

	// A rejected credential invalidates the session exactly once per
	// response, then the failure still flows back to the caller. Calls made
	// without a token (login itself) never trigger the side effect.
	if resp.StatusCode == http.StatusUnauthorized && tokenAttached && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}

	return c.decode(resp, method, path)
}

func (c *Client) decode(resp *http.Response, method, path string) Result {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("Read upstream response failed")
		return transportFailure()
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Msg("Upstream returned a non-JSON body")
		result = Result{Success: false, Error: "Unexpected response from CodeLens API"}
	}

	result.Status = resp.StatusCode
	if result.Error == "" && !result.Success {
		result.Error = fmt.Sprintf("CodeLens API returned status %d", resp.StatusCode)
	}
	return result
}

// transportFailure is the uniform result for requests that never completed.
// The user-facing message stays generic; details go to the log only.
func transportFailure() Result {
	return Result{
		Success: false,
		Error:   "Unable to reach the CodeLens API",
		Status:  0,
	}
}
