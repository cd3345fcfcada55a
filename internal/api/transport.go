package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"codeberg.org/taskboard/cli/internal/tokenstore"
	"github.com/google/uuid"
)

// the four endpoints that must never trigger credential attachment or the
// refresh flow; a 401 from any of them is a real authentication failure
var authEndpoints = map[string]bool{
	loginPath:    true,
	registerPath: true,
	refreshPath:  true,
	logoutPath:   true,
}

func isAuthEndpoint(path string) bool {
	return authEndpoints[path]
}

// context key marking a request that already consumed its single retry;
// carried in the per-call context instead of mutating the request
type retriedKey struct{}

func markRetried(ctx context.Context) context.Context {
	return context.WithValue(ctx, retriedKey{}, true)
}

func isRetried(ctx context.Context) bool {
	retried, _ := ctx.Value(retriedKey{}).(bool)
	return retried
}

// attaches the current access token and a correlation ID to every non-auth
// request; the token is read fresh from the store at request time, so
// retried requests automatically pick up a refreshed credential
type credentialTransport struct {
	store *tokenstore.Store
	next  http.RoundTripper
}

func (t *credentialTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request
	clone := req.Clone(req.Context())
	clone.Header.Set("X-Request-ID", uuid.NewString())

	if !isAuthEndpoint(req.URL.Path) {
		if pair, ok := t.store.Get(); ok {
			clone.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		}
	}

	return t.next.RoundTrip(clone)
}

// detects authorization failures and resubmits the request once after a
// coordinated token refresh; everything else passes through untouched
type refreshTransport struct {
	group *refreshGroup
	next  http.RoundTripper
}

func (t *refreshTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized ||
		isAuthEndpoint(req.URL.Path) ||
		isRetried(req.Context()) {
		return resp, nil
	}

	// this response is not going back to the caller; drain it so the
	// connection can be reused
	io.Copy(io.Discard, resp.Body) //nolint:errcheck,gosec // best-effort drain
	resp.Body.Close()              //nolint:errcheck,gosec

	// single-flight: concurrent 401s collapse onto one refresh call, and no
	// waiter resumes before the new pair is persisted
	if _, err := t.group.Refresh(req.Context()); err != nil {
		return nil, err
	}

	retry, err := cloneForRetry(req)
	if err != nil {
		return nil, err
	}

	return t.next.RoundTrip(retry)
}

// rebuilds the original request with a replayed body and the retried marker
func cloneForRetry(req *http.Request) (*http.Request, error) {
	clone := req.Clone(markRetried(req.Context()))

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to replay request body: %w", err)
		}

		clone.Body = body
	}

	return clone, nil
}
