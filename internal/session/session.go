package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"codeberg.org/taskboard/cli/internal/api"
	"codeberg.org/taskboard/cli/internal/apierrors"
	"codeberg.org/taskboard/cli/internal/identity"
	"codeberg.org/taskboard/cli/internal/logger"
	"codeberg.org/taskboard/cli/internal/tokenstore"
)

// process-wide authenticated-state holder; all mutation goes through the
// operations below, state is never reached around the lock
type Session struct {
	client *api.Client
	store  *tokenstore.Store

	mu          sync.RWMutex
	state       State
	user        *User
	subscribers []func(*User)
}

// creates the session and registers it for forced-logout signals from the
// transport's refresh flow
func New(client *api.Client, store *tokenstore.Store) *Session {
	s := &Session{
		client: client,
		store:  store,
		state:  StateUninitialized,
	}

	client.OnSessionExpired(s.invalidate)

	return s
}

// returns a copy of the current user, or nil when unauthenticated
func (s *Session) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneUser(s.user)
}

// returns the current lifecycle state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// reports whether the current user holds the named permission; false when
// no user is authenticated, never an error
func (s *Session) HasPermission(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.user.Has(name)
}

// registers a callback invoked with the new user (or nil) after every
// state transition
func (s *Session) OnChange(fn func(*User)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

// authenticates with email and password; on success the credential pair is
// persisted and a provisional user is derived from the token claims before
// the profile fetch fills in display fields
func (s *Session) Login(ctx context.Context, email, password string) (*User, error) {
	pair, err := s.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, pair, email)
}

// creates an account; the returned session behaves exactly like a login,
// fullName reaches the profile via the server rather than the claims
func (s *Session) Register(ctx context.Context, fullName, email, password string) (*User, error) {
	pair, err := s.client.Register(ctx, fullName, email, password)
	if err != nil {
		return nil, err
	}

	return s.establish(ctx, pair, email)
}

// persists the pair, derives the provisional identity, then enriches it;
// enrichment failure is logged, not fatal - the claims-derived user stands
func (s *Session) establish(ctx context.Context, pair tokenstore.Pair, email string) (*User, error) {
	if err := s.store.Set(pair); err != nil {
		return nil, fmt.Errorf("failed to persist credentials: %w", err)
	}

	user := userFromToken(pair.AccessToken, email)
	s.setUser(user, StateReady)

	if err := s.RefreshIdentity(ctx); err != nil {
		// a dead refresh token during enrichment already forced a logout;
		// surface that instead of handing back an empty session
		if errors.Is(err, apierrors.ErrSessionExpired) {
			return nil, err
		}

		logger.Warn("profile enrichment failed, continuing with token claims", "error", err)
	}

	current := s.Current()
	if current == nil {
		return nil, fmt.Errorf("%w: session invalidated during login", apierrors.ErrSessionExpired)
	}

	return current, nil
}

// ends the session: the logout call is best-effort, cleanup is not - the
// store is cleared and the user reset on every exit path
func (s *Session) Logout(ctx context.Context) error {
	defer func() {
		if err := s.store.Clear(); err != nil {
			logger.ErrorErr(err, "failed to clear token store on logout")
		}

		s.setUser(nil, StateReady)
	}()

	pair, ok := s.store.Get()
	if ok && pair.RefreshToken != "" {
		if err := s.client.Logout(ctx, pair.RefreshToken); err != nil {
			// intentionally ignored: the server-side revocation is advisory
			logger.Warn("logout call failed", "error", err)
		}
	}

	return nil
}

// fetches the profile and merges it over the current user; profile fields
// overwrite display data but permissions always stay with the token claims.
// a no-op when no access token is present
func (s *Session) RefreshIdentity(ctx context.Context) error {
	pair, ok := s.store.Get()
	if !ok || pair.AccessToken == "" {
		return nil
	}

	profile, err := s.client.Profile(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()

	base := s.user
	if base == nil {
		base = userFromToken(pair.AccessToken, profile.Email)
	}

	merged := *base
	merged.ID = profile.ID
	merged.Email = profile.Email
	merged.FullName = profile.FullName
	merged.Status = profile.Status

	if profile.Phone != nil {
		merged.Phone = *profile.Phone
	}

	if profile.AvatarURL != nil {
		merged.AvatarURL = *profile.AvatarURL
	}

	s.user = &merged
	s.state = StateReady
	s.mu.Unlock()

	s.notify()

	return nil
}

// restores a persisted session on process start; a pair that cannot be
// verified against the server is discarded rather than left active
func (s *Session) Restore(ctx context.Context) error {
	s.setState(StateRestoring)

	pair, ok := s.store.Get()
	if !ok || pair.AccessToken == "" {
		s.setUser(nil, StateReady)
		return nil
	}

	// provisional identity from claims; discarded if it carries no id
	if user := userFromToken(pair.AccessToken, ""); user.ID != 0 {
		s.setUser(user, StateRestoring)
	}

	if err := s.RefreshIdentity(ctx); err != nil {
		if clearErr := s.store.Clear(); clearErr != nil {
			logger.ErrorErr(clearErr, "failed to clear token store after restore failure")
		}

		s.setUser(nil, StateReady)

		if !errors.Is(err, apierrors.ErrSessionExpired) {
			err = fmt.Errorf("%w: %w", apierrors.ErrSessionExpired, err)
		}

		return err
	}

	s.setState(StateReady)

	return nil
}

// forced logout from the transport layer; the store is already cleared
func (s *Session) invalidate() {
	logger.Info("session expired, credentials discarded")
	s.setUser(nil, StateReady)
}

// derives the provisional user from access token claims, falling back to
// the supplied email when the claims omit one; malformed tokens yield an
// empty identity rather than an error
func userFromToken(token, fallbackEmail string) *User {
	claims := identity.Decode(token)
	if claims == nil {
		return &User{Email: fallbackEmail, Permissions: []string{}}
	}

	email := claims.Email
	if email == "" {
		email = fallbackEmail
	}

	perms := claims.Permissions
	if perms == nil {
		perms = []string{}
	}

	return &User{
		ID:          claims.Subject,
		Email:       email,
		Permissions: perms,
	}
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.Permissions = append([]string(nil), u.Permissions...)

	return &clone
}

func (s *Session) setUser(user *User, state State) {
	s.mu.Lock()
	s.user = user
	s.state = state
	s.mu.Unlock()

	s.notify()
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.RLock()
	subscribers := append([]func(*User){}, s.subscribers...)
	user := cloneUser(s.user)
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(user)
	}
}
