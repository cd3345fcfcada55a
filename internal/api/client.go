package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/taskboard/cli/internal/apierrors"
	"codeberg.org/taskboard/cli/internal/tokenstore"
	"golang.org/x/time/rate"
)

// timeout for all outbound requests
const requestTimeout = 20 * time.Second

// manages HTTP requests to the taskboard backend; every call carries the
// current bearer credential and transparently survives one access-token
// refresh on 401
type Client struct {
	endpoint   string
	httpClient *http.Client
	store      *tokenstore.Store
	limiter    *rate.Limiter
	refresh    *refreshGroup
}

type Options struct {
	// base URL of the backend, e.g. https://api.taskboard.example
	Endpoint string

	// persisted credential pair holder, shared with the session layer
	Store *tokenstore.Store

	// outbound requests per second; 0 disables client-side throttling
	RequestRate float64
}

// creates a new taskboard API client
func NewClient(opts Options) *Client {
	endpoint := strings.TrimRight(opts.Endpoint, "/")

	limit := rate.Inf
	if opts.RequestRate > 0 {
		limit = rate.Limit(opts.RequestRate)
	}

	c := &Client{
		endpoint: endpoint,
		store:    opts.Store,
		limiter:  rate.NewLimiter(limit, 1),
		refresh:  newRefreshGroup(endpoint, opts.Store),
	}

	// middleware chain: refresh-on-401 wraps credential attachment wraps the
	// base transport; retried requests re-enter the credential layer so they
	// pick up the refreshed token from the store
	c.httpClient = &http.Client{
		Timeout: requestTimeout,
		Transport: &refreshTransport{
			group: c.refresh,
			next: &credentialTransport{
				store: opts.Store,
				next:  http.DefaultTransport,
			},
		},
	}

	return c
}

// registers the hook fired when the session becomes unrecoverable (refresh
// failure or missing refresh token); the store is already cleared when it runs
func (c *Client) OnSessionExpired(fn func()) {
	c.refresh.onExpired = fn
}

// performs one API call: marshals the payload, sends the request through the
// middleware chain, and decodes the response into out (when non-nil)
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("request throttled: %w", err)
	}

	var body io.Reader

	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		body = bytes.NewReader(payloadBytes)
	}

	requestURL := c.endpoint + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// forced-logout signals from the refresh middleware come back wrapped
		// in *url.Error; keep them matchable with errors.Is
		if errors.Is(err, apierrors.ErrSessionExpired) {
			return fmt.Errorf("request not retried: %w", apierrors.ErrSessionExpired)
		}

		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := apierrors.FromResponse(resp.StatusCode, respBody)

		// a 401 that reaches the caller was either an auth endpoint or a
		// request that already used its single retry
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", apierrors.ErrAuthenticationFailed, apiErr.Error())
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// paginated query parameter helpers

func setInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, fmt.Sprintf("%d", value))
	}
}

func setInt64(q url.Values, key string, value int64) {
	if value > 0 {
		q.Set(key, fmt.Sprintf("%d", value))
	}
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
