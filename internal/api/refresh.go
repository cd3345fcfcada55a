package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"codeberg.org/taskboard/cli/internal/apierrors"
	"codeberg.org/taskboard/cli/internal/logger"
	"codeberg.org/taskboard/cli/internal/tokenstore"
)

// coordinates the single-flight access-token refresh: the first 401 starts
// the exchange, later 401s queue behind it, and everyone observes the
// outcome only after the new pair is durably stored
type refreshGroup struct {
	endpoint  string
	store     *tokenstore.Store
	onExpired func()

	// bare client for the refresh call itself; it must bypass the middleware
	// chain or a failing refresh would recurse into another refresh
	client *http.Client

	mu       sync.Mutex
	inflight bool
	waiters  []chan refreshResult
}

type refreshResult struct {
	token string
	err   error
}

func newRefreshGroup(endpoint string, store *tokenstore.Store) *refreshGroup {
	return &refreshGroup{
		endpoint: endpoint,
		store:    store,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// exchanges the stored refresh token for a new credential pair; concurrent
// callers collapse onto one backend call and queued callers are released in
// FIFO order once the exchange settles
func (g *refreshGroup) Refresh(ctx context.Context) (string, error) {
	g.mu.Lock()

	if g.inflight {
		ch := make(chan refreshResult, 1)
		g.waiters = append(g.waiters, ch)
		g.mu.Unlock()

		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for token refresh: %w", ctx.Err())
		}
	}

	g.inflight = true
	g.mu.Unlock()

	token, err := g.exchange(ctx)

	// release the guard and the queue only after the attempt settled, so a
	// failure does not leave the group stuck and a success is visible in the
	// store before anyone resumes
	g.mu.Lock()
	waiters := g.waiters
	g.waiters = nil
	g.inflight = false
	g.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}

	return token, err
}

// performs the actual refresh call and persists the result
func (g *refreshGroup) exchange(ctx context.Context) (string, error) {
	pair, ok := g.store.Get()
	if !ok || pair.RefreshToken == "" {
		g.expire()
		return "", fmt.Errorf("%w: no refresh token available", apierrors.ErrSessionExpired)
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: pair.RefreshToken})
	if err != nil {
		g.expire()
		return "", fmt.Errorf("%w: failed to marshal refresh request", apierrors.ErrSessionExpired)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+refreshPath, bytes.NewReader(payload))
	if err != nil {
		g.expire()
		return "", fmt.Errorf("%w: failed to create refresh request", apierrors.ErrSessionExpired)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.expire()
		return "", fmt.Errorf("%w: refresh call failed: %v", apierrors.ErrSessionExpired, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.expire()
		return "", fmt.Errorf("%w: failed to read refresh response", apierrors.ErrSessionExpired)
	}

	if resp.StatusCode != http.StatusOK {
		g.expire()
		return "", fmt.Errorf("%w: refresh rejected with status %d", apierrors.ErrSessionExpired, resp.StatusCode)
	}

	var next tokenstore.Pair
	if err := json.Unmarshal(body, &next); err != nil || next.AccessToken == "" || next.RefreshToken == "" {
		g.expire()
		return "", fmt.Errorf("%w: malformed refresh response", apierrors.ErrSessionExpired)
	}

	// persist before anyone resumes: queued requests must never resubmit
	// ahead of the stored pair
	if err := g.store.Set(next); err != nil {
		g.expire()
		return "", fmt.Errorf("%w: failed to persist refreshed credentials: %v", apierrors.ErrSessionExpired, err)
	}

	logger.Debug("access token refreshed")

	return next.AccessToken, nil
}

// clears credentials and notifies the forced-logout hook
func (g *refreshGroup) expire() {
	if err := g.store.Clear(); err != nil {
		logger.ErrorErr(err, "failed to clear token store")
	}

	if g.onExpired != nil {
		g.onExpired()
	}
}
