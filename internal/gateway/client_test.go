package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codelens-edu/codelens-gateway/internal/model"
	"github.com/codelens-edu/codelens-gateway/internal/session"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, zerolog.Nop()), srv
}

func authedContext(token string) context.Context {
	return session.NewContext(context.Background(), session.Session{
		ID:    "s-1",
		Token: token,
		User:  &model.User{ID: "u-1", Roles: []string{"student"}},
	})
}

func TestDoAttachesBearerWhenSessionPresent(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": {"ok": 1}}`))
	})

	res := client.Get(authedContext("tok1"), "/platforms/my")

	assert.Equal(t, "Bearer tok1", gotAuth)
	assert.True(t, res.Success)
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestDoOmitsAuthorizationHeaderWithoutSession(t *testing.T) {
	var hadHeader bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadHeader = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	client.Get(context.Background(), "/auth/login")

	assert.False(t, hadHeader, "Authorization header must be omitted entirely, not sent empty")
}

func TestDoFiresUnauthorizedHookOncePerResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "error": "Token has expired"}`))
	})

	fired := 0
	client.OnUnauthorized(func(ctx context.Context) { fired++ })

	res := client.Get(authedContext("stale"), "/analytics/my-summary")

	assert.Equal(t, 1, fired)
	// The rejection still propagates so the caller can surface an error.
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, "Token has expired", res.Error)
}

func TestDoUnauthorizedWithoutTokenDoesNotFireHook(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "error": "Invalid credentials"}`))
	})

	fired := 0
	client.OnUnauthorized(func(ctx context.Context) { fired++ })

	// Login-style call: no session in context, so a 401 is a credential
	// error for the caller, not a session invalidation.
	res := client.Post(context.Background(), "/auth/login", map[string]string{"email": "a@x.com"})

	assert.Zero(t, fired)
	assert.Equal(t, "Invalid credentials", res.Error)
}

func TestDoNetworkFailureYieldsGenericResult(t *testing.T) {
	client := New("http://127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())

	res := client.Get(context.Background(), "/health")

	assert.False(t, res.Success)
	assert.Zero(t, res.Status)
	assert.Equal(t, "Unable to reach the CodeLens API", res.Error)
}

func TestDecodeNonJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>nginx error</html>"))
	})

	res := client.Get(context.Background(), "/students/all")

	require.False(t, res.Success)
	assert.Equal(t, http.StatusBadGateway, res.Status)
	assert.Equal(t, "Unexpected response from CodeLens API", res.Error)
}

func TestDecodeFailureStatusWithEmptyError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success": false}`))
	})

	res := client.Get(context.Background(), "/staff/my-team")

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}
