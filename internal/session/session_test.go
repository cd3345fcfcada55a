package session

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"codeberg.org/taskboard/cli/internal/api"
	"codeberg.org/taskboard/cli/internal/apierrors"
	"codeberg.org/taskboard/cli/internal/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// builds an unsigned-but-well-formed access token carrying the given claims
func makeToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))

	payloadJSON, err := json.Marshal(claims)
	require.NoError(t, err)

	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)

	return header + "." + payload + ".c2ln"
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func newTestSession(t *testing.T, mux *http.ServeMux) (*Session, *tokenstore.Store, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := tokenstore.New(filepath.Join(t.TempDir(), "tokens.json"))
	client := api.NewClient(api.Options{Endpoint: server.URL, Store: store})

	return New(client, store), store, server
}

func TestSession_LoginDerivesIdentityFromClaims(t *testing.T) {
	// claims omit the email; the supplied login email is the fallback
	token := makeToken(t, map[string]any{"sub": "1", "perms": []string{"read"}})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"})
	})
	// profile fetch fails; the claims-derived identity must stand on its own
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusInternalServerError, apierrors.ErrorResponse{
			Error:   apierrors.CodeServerError,
			Message: "unavailable",
		})
	})

	sess, store, _ := newTestSession(t, mux)

	user, err := sess.Login(context.Background(), "u@x.com", "p")
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "u@x.com", user.Email)
	assert.True(t, sess.HasPermission("read"), "permissions come straight from the token claims")
	assert.False(t, sess.HasPermission("admin"))
	assert.Equal(t, StateReady, sess.State())

	pair, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, token, pair.AccessToken)
}

func TestSession_LoginInvalidCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, apierrors.ErrorResponse{
			Error:   apierrors.CodeUnauthorized,
			Message: "invalid credentials",
		})
	})

	sess, store, _ := newTestSession(t, mux)

	_, err := sess.Login(context.Background(), "u@x.com", "wrong")

	assert.ErrorIs(t, err, apierrors.ErrAuthenticationFailed)
	assert.Nil(t, sess.Current())

	_, ok := store.Get()
	assert.False(t, ok, "failed login must not persist credentials")
}

func TestSession_ProfileMergePreservesPermissions(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "7", "email": "a@b.com", "perms": []string{"X"}})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"})
	})
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		phone := "555-0100"
		writeJSON(t, w, http.StatusOK, api.Profile{
			ID:       7,
			Email:    "a@b.com",
			FullName: "Alice Baker",
			Phone:    &phone,
			Status:   "ACTIVE",
		})
	})

	sess, _, _ := newTestSession(t, mux)

	user, err := sess.Login(context.Background(), "a@b.com", "p")
	require.NoError(t, err)

	// profile enriched the display fields
	assert.Equal(t, "Alice Baker", user.FullName)
	assert.Equal(t, "555-0100", user.Phone)
	assert.Equal(t, "ACTIVE", user.Status)

	// but permission grants are untouched by the merge
	assert.True(t, sess.HasPermission("X"))
	assert.Equal(t, []string{"X"}, user.Permissions)
}

func TestSession_RegisterForwardsFullName(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "2", "perms": []string{}})

	var gotFullName string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotFullName = body["fullName"]

		writeJSON(t, w, http.StatusOK, tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"})
	})
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, api.Profile{ID: 2, Email: "new@x.com", FullName: "New User"})
	})

	sess, _, _ := newTestSession(t, mux)

	user, err := sess.Register(context.Background(), "New User", "new@x.com", "p")
	require.NoError(t, err)

	assert.Equal(t, "New User", gotFullName)
	assert.Equal(t, "new@x.com", user.Email)
}

func TestSession_LogoutCleansUpDespiteServerFailure(t *testing.T) {
	var logoutCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&logoutCalls, 1)
		writeJSON(t, w, http.StatusInternalServerError, apierrors.ErrorResponse{
			Error:   apierrors.CodeServerError,
			Message: "boom",
		})
	})

	sess, store, _ := newTestSession(t, mux)
	require.NoError(t, store.Set(tokenstore.Pair{AccessToken: "a", RefreshToken: "r"}))

	var lastNotified *User
	notified := false
	sess.OnChange(func(u *User) {
		notified = true
		lastNotified = u
	})

	err := sess.Logout(context.Background())

	require.NoError(t, err, "logout errors are swallowed, cleanup is what matters")
	assert.Equal(t, int32(1), atomic.LoadInt32(&logoutCalls))
	assert.Nil(t, sess.Current())
	assert.True(t, notified)
	assert.Nil(t, lastNotified)

	_, ok := store.Get()
	assert.False(t, ok, "credentials must be cleared even when the server call fails")
}

func TestSession_LogoutWithoutCredentialsSkipsServerCall(t *testing.T) {
	var logoutCalls int32

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&logoutCalls, 1)
		w.WriteHeader(http.StatusOK)
	})

	sess, _, _ := newTestSession(t, mux)

	require.NoError(t, sess.Logout(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(&logoutCalls))
}

func TestSession_RefreshIdentityWithoutTokenIsNoOp(t *testing.T) {
	mux := http.NewServeMux()
	sess, _, _ := newTestSession(t, mux)

	require.NoError(t, sess.RefreshIdentity(context.Background()))
	assert.Nil(t, sess.Current())
}

func TestSession_RestoreWithPersistedCredentials(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "9", "email": "back@x.com", "perms": []string{"task:read"}})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, api.Profile{ID: 9, Email: "back@x.com", FullName: "Returning User"})
	})

	sess, store, _ := newTestSession(t, mux)
	require.NoError(t, store.Set(tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"}))

	require.NoError(t, sess.Restore(context.Background()))

	user := sess.Current()
	require.NotNil(t, user)
	assert.Equal(t, int64(9), user.ID)
	assert.Equal(t, "Returning User", user.FullName)
	assert.True(t, sess.HasPermission("task:read"))
	assert.Equal(t, StateReady, sess.State())
}

func TestSession_RestoreFailureClearsStaleIdentity(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "9", "perms": []string{"task:read"}})

	mux := http.NewServeMux()
	// profile rejects the token and the refresh exchange fails too: the
	// persisted session is unverifiable and must not survive bootstrap
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, apierrors.ErrorResponse{
			Error:   apierrors.CodeUnauthorized,
			Message: "token expired",
		})
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, apierrors.ErrorResponse{
			Error:   apierrors.CodeUnauthorized,
			Message: "refresh revoked",
		})
	})

	sess, store, _ := newTestSession(t, mux)
	require.NoError(t, store.Set(tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"}))

	err := sess.Restore(context.Background())

	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.Nil(t, sess.Current())
	assert.False(t, sess.HasPermission("task:read"))
	assert.Equal(t, StateReady, sess.State())

	_, ok := store.Get()
	assert.False(t, ok, "restore failure must clear persisted credentials")
}

func TestSession_RestoreWithoutCredentials(t *testing.T) {
	sess, _, _ := newTestSession(t, http.NewServeMux())

	require.NoError(t, sess.Restore(context.Background()))
	assert.Nil(t, sess.Current())
	assert.Equal(t, StateReady, sess.State())
	assert.False(t, sess.HasPermission("anything"))
}

func TestSession_ForcedLogoutFromTransport(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "4", "perms": []string{"read"}})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"})
	})
	profileHits := int32(0)
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&profileHits, 1) == 1 {
			writeJSON(t, w, http.StatusOK, api.Profile{ID: 4, Email: "u@x.com", FullName: "U"})
			return
		}

		// later calls report an expired token
		writeJSON(t, w, http.StatusUnauthorized, apierrors.ErrorResponse{
			Error:   apierrors.CodeUnauthorized,
			Message: "token expired",
		})
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, apierrors.ErrorResponse{
			Error:   apierrors.CodeUnauthorized,
			Message: "refresh revoked",
		})
	})

	sess, store, _ := newTestSession(t, mux)

	_, err := sess.Login(context.Background(), "u@x.com", "p")
	require.NoError(t, err)
	require.NotNil(t, sess.Current())

	// the next identity refresh runs into the dead refresh token; the
	// transport forces a logout and the session observes it
	err = sess.RefreshIdentity(context.Background())

	assert.Error(t, err)
	assert.Nil(t, sess.Current(), "forced logout resets the session user")

	_, ok := store.Get()
	assert.False(t, ok)
}

func TestSession_LoginFailsWhenEnrichmentForcesLogout(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "4", "perms": []string{"read"}})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"})
	})
	// the token the server just issued is immediately rejected and the
	// refresh exchange fails too; the login must not report success
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, apierrors.ErrorResponse{
			Error:   apierrors.CodeUnauthorized,
			Message: "token expired",
		})
	})
	mux.HandleFunc("/api/v1/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, apierrors.ErrorResponse{
			Error:   apierrors.CodeUnauthorized,
			Message: "refresh revoked",
		})
	})

	sess, store, _ := newTestSession(t, mux)

	user, err := sess.Login(context.Background(), "u@x.com", "p")

	assert.ErrorIs(t, err, apierrors.ErrSessionExpired)
	assert.Nil(t, user, "a failed login must never return a usable user")
	assert.Nil(t, sess.Current())

	_, ok := store.Get()
	assert.False(t, ok, "invalidated credentials must not survive the login")
}

func TestSession_OnChangeNotifiesEverySubscriber(t *testing.T) {
	token := makeToken(t, map[string]any{"sub": "3", "email": "c@x.com", "perms": []string{"read"}})

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, tokenstore.Pair{AccessToken: token, RefreshToken: "refresh-1"})
	})
	mux.HandleFunc("/api/v1/me/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, api.Profile{ID: 3, Email: "c@x.com", FullName: "C"})
	})

	sess, _, _ := newTestSession(t, mux)

	var first, second []*User
	sess.OnChange(func(u *User) { first = append(first, u) })
	sess.OnChange(func(u *User) { second = append(second, u) })

	_, err := sess.Login(context.Background(), "c@x.com", "p")
	require.NoError(t, err)

	require.NotEmpty(t, first)
	assert.Equal(t, len(first), len(second), "every subscriber sees every transition")
	assert.Equal(t, "C", first[len(first)-1].FullName)

	// subscribers receive a copy, mutating it must not leak into the session
	first[len(first)-1].Permissions[0] = "mutated"
	assert.True(t, sess.HasPermission("read"))
}

func TestSession_HasPermissionWithoutUser(t *testing.T) {
	sess, _, _ := newTestSession(t, http.NewServeMux())

	assert.False(t, sess.HasPermission("read"), "no user means no permissions, never a panic")
}
