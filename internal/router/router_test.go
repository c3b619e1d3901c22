package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/codelens-edu/codelens-gateway/internal/handler"
	"github.com/codelens-edu/codelens-gateway/internal/model"
	"github.com/codelens-edu/codelens-gateway/internal/notify"
	"github.com/codelens-edu/codelens-gateway/internal/response"
	"github.com/codelens-edu/codelens-gateway/internal/service"
	"github.com/codelens-edu/codelens-gateway/internal/session"
	"github.com/codelens-edu/codelens-gateway/internal/validator"
)

const testCookie = "codelens_session"

// stubUpstream plays the CodeLens API: it issues tokens on login and
// rejects revoked ones with 401 everywhere else.
type stubUpstream struct {
	mu       sync.Mutex
	accounts map[string]model.User // email -> identity
	tokens   map[string]bool       // token -> still valid
}

func newStubUpstream() *stubUpstream {
	return &stubUpstream{
		accounts: make(map[string]model.User),
		tokens:   make(map[string]bool),
	}
}

func (s *stubUpstream) addAccount(email string, userRoles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[email] = model.User{
		ID:       "user-" + email,
		FullName: "Test " + email,
		Email:    email,
		Roles:    userRoles,
	}
}

func (s *stubUpstream) revokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for tok := range s.tokens {
		s.tokens[tok] = false
	}
}

func (s *stubUpstream) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Path == "/auth/login" {
			var req model.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)

			s.mu.Lock()
			user, ok := s.accounts[req.Email]
			s.mu.Unlock()

			if !ok || req.Password != "password123" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"success":false,"error":"Invalid email or password"}`))
				return
			}

			token := "tok-" + req.Email
			s.mu.Lock()
			s.tokens[token] = true
			s.mu.Unlock()

			body, _ := json.Marshal(map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"access_token": token, "user": user},
			})
			_, _ = w.Write(body)
			return
		}

		// Every other endpoint requires a live token.
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		s.mu.Lock()
		valid := s.tokens[token]
		s.mu.Unlock()

		if !valid {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"Token expired or revoked"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"items":[]}}`))
	})
}

type fixture struct {
	router   *gin.Engine
	upstream *stubUpstream
	store    *session.MemoryStore
	hub      *notify.Hub
}

func newFixture(t *testing.T, started bool) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	upstream := newStubUpstream()
	srv := httptest.NewServer(upstream.handler())
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		GinMode:           gin.TestMode,
		UpstreamBaseURL:   srv.URL,
		UpstreamTimeout:   2 * time.Second,
		SessionTTL:        time.Hour,
		SessionSecret:     "router-test-secret",
		SessionCookieName: testCookie,
	}

	store := session.NewMemoryStore()
	gw := gateway.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, zerolog.Nop())
	hub := notify.NewHub()
	auth := service.NewAuthService(cfg, store, gw, hub, zerolog.Nop())
	if started {
		require.NoError(t, auth.Start(context.Background()))
	}

	// /health degrades to upstream "unknown" without a reachable redis.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	handlers := &Handlers{
		Auth:          handler.NewAuthHandler(auth, cfg),
		View:          handler.NewViewHandler(),
		StudentPortal: handler.NewStudentPortalHandler(gw),
		Advisor:       handler.NewAdvisorHandler(gw),
		Counsellor:    handler.NewCounsellorHandler(gw),
		Admin:         handler.NewAdminHandler(gw),
		Staff:         handler.NewStaffHandler(gw),
		Institution:   handler.NewInstitutionHandler(gw),
		WS:            handler.NewWSHandler(hub, nil, zerolog.Nop()),
		System:        handler.NewSystemHandler(rdb, zerolog.Nop()),
	}

	return &fixture{
		router:   SetupRouter(auth, handlers, cfg),
		upstream: upstream,
		store:    store,
		hub:      hub,
	}
}

func (f *fixture) login(t *testing.T, email string) *http.Cookie {
	t.Helper()

	body := `{"email":"` + email + `","password":"password123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func (f *fixture) get(path string, cookie *http.Cookie, acceptHTML bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	if acceptHTML {
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGatewayStartupHoldsTrafficUntilReady(t *testing.T) {
	f := newFixture(t, false)
	f.upstream.addAccount("ana@example.com", "student")

	w := f.get("/dashboard", nil, true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestLoginFlowLandsOnPrimaryRoute(t *testing.T) {
	f := newFixture(t, true)
	f.upstream.addAccount("hod@example.com", "hod", "advisor")

	body := `{"email":"hod@example.com","password":"password123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	require.True(t, resp.Success)

	var data struct {
		RedirectTo string `json:"redirect_to"`
	}
	raw, _ := json.Marshal(resp.Data)
	require.NoError(t, json.Unmarshal(raw, &data))
	assert.Equal(t, "/department/dashboard", data.RedirectTo)

	// The issued cookie opens the hod screens.
	cookie := w.Result().Cookies()[0]
	screen := f.get("/department/dashboard", cookie, true)
	assert.Equal(t, http.StatusOK, screen.Code)
	assert.Contains(t, screen.Body.String(), "department_dashboard")
}

func TestRejectedLoginLeavesBrowserLoggedOut(t *testing.T) {
	f := newFixture(t, true)
	f.upstream.addAccount("ana@example.com", "student")

	body := `{"email":"ana@example.com","password":"wrong-pass"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, response.ErrInvalidCredentials, resp.Error.Code)
	assert.Equal(t, "Invalid email or password", resp.Error.Message)
	assert.Empty(t, w.Result().Cookies())

	// Still unauthenticated everywhere.
	screen := f.get("/dashboard", nil, true)
	assert.Equal(t, http.StatusSeeOther, screen.Code)
	assert.Equal(t, "/login", screen.Header().Get("Location"))
}

func TestLoginValidationRejectsMalformedPayload(t *testing.T) {
	f := newFixture(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, response.ErrValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "email")
	assert.Contains(t, resp.Error.Fields, "password")
}

func TestRoleMismatchBouncesWithoutKillingSession(t *testing.T) {
	f := newFixture(t, true)
	f.upstream.addAccount("ana@example.com", "student")
	cookie := f.login(t, "ana@example.com")

	w := f.get("/admin/institution", cookie, true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/unauthorized", w.Header().Get("Location"))

	// The same cookie still opens the student screens.
	screen := f.get("/dashboard", cookie, true)
	assert.Equal(t, http.StatusOK, screen.Code)
}

func TestUpstreamRevocationEndsSessionEverywhere(t *testing.T) {
	f := newFixture(t, true)
	f.upstream.addAccount("ana@example.com", "student")
	cookie := f.login(t, "ana@example.com")

	// A tab is listening for session events.
	ids := f.store.IDs()
	require.Len(t, ids, 1)
	events, cancelSub := f.hub.Subscribe(ids[0])
	defer cancelSub()

	// Works until the upstream revokes the credential.
	ok := f.get("/api/v1/analytics/my-summary", cookie, false)
	require.Equal(t, http.StatusOK, ok.Code)

	f.upstream.revokeAll()

	w := f.get("/api/v1/analytics/my-summary", cookie, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, response.ErrSessionInvalidated, resp.Error.Code)
	assert.Equal(t, "/login", resp.Error.Redirect)

	// The open tab was told to leave.
	select {
	case evt := <-events:
		assert.Equal(t, notify.EventSessionInvalidated, evt.Event)
		assert.Equal(t, "/login", evt.Redirect)
	case <-time.After(time.Second):
		t.Fatal("no session event published")
	}

	// And every subsequent request is unauthenticated.
	screen := f.get("/dashboard", cookie, true)
	assert.Equal(t, http.StatusSeeOther, screen.Code)
	assert.Equal(t, "/login", screen.Header().Get("Location"))
}

func TestLogoutIsIdempotentAndClearsCookie(t *testing.T) {
	f := newFixture(t, true)
	f.upstream.addAccount("ana@example.com", "student")
	cookie := f.login(t, "ana@example.com")

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(cookie)
		f.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	screen := f.get("/dashboard", cookie, true)
	assert.Equal(t, http.StatusSeeOther, screen.Code)
}

func TestSharedScreensAdmitEveryConfiguredRole(t *testing.T) {
	f := newFixture(t, true)
	f.upstream.addAccount("ana@example.com", "student")
	f.upstream.addAccount("hod@example.com", "hod")
	f.upstream.addAccount("root@example.com", "admin")

	for _, email := range []string{"ana@example.com", "hod@example.com", "root@example.com"} {
		cookie := f.login(t, email)
		w := f.get("/leaderboard", cookie, true)
		assert.Equal(t, http.StatusOK, w.Code, email)
	}
}

func TestStaffScreenExcludesStudentsAndCounsellors(t *testing.T) {
	f := newFixture(t, true)
	f.upstream.addAccount("ana@example.com", "student")
	f.upstream.addAccount("c@example.com", "counsellor")
	f.upstream.addAccount("adv@example.com", "advisor")

	for email, want := range map[string]int{
		"ana@example.com": http.StatusSeeOther,
		"c@example.com":   http.StatusSeeOther,
		"adv@example.com": http.StatusOK,
	} {
		cookie := f.login(t, email)
		w := f.get("/staff", cookie, true)
		assert.Equal(t, want, w.Code, email)
	}
}

func TestHealthReportsUnknownUpstreamWithoutCache(t *testing.T) {
	f := newFixture(t, true)

	w := f.get("/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"unknown"`)
}
