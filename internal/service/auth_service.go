package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/codelens-edu/codelens-gateway/internal/model"
	"github.com/codelens-edu/codelens-gateway/internal/notify"
	"github.com/codelens-edu/codelens-gateway/internal/roles"
	"github.com/codelens-edu/codelens-gateway/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Common auth errors.
var (
	ErrNoSession = errors.New("no valid session")
)

// UpstreamError carries the user-facing message from a failed upstream call.
// Status is the upstream HTTP status, or 0 when the request never completed.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

// AuthService owns the session lifecycle. It is the only component that
// mutates the session store; everything else reads sessions through
// Authenticate or the request context.
type AuthService struct {
	cfg   *config.Config
	store session.Store
	gw    *gateway.Client
	hub   *notify.Hub
	log   zerolog.Logger
	ready atomic.Bool
}

// NewAuthService creates an AuthService and registers it as the gateway's
// unauthorized-response subscriber.
func NewAuthService(cfg *config.Config, store session.Store, gw *gateway.Client, hub *notify.Hub, log zerolog.Logger) *AuthService {
	s := &AuthService{
		cfg:   cfg,
		store: store,
		gw:    gw,
		hub:   hub,
		log:   log.With().Str("component", "auth_service").Logger(),
	}
	gw.OnUnauthorized(s.handleUnauthorized)
	return s
}

// Start performs the one-time storage probe required before any protected
// route may be served. Until it completes the route guard answers "loading".
func (s *AuthService) Start(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("probe session store: %w", err)
	}
	s.ready.Store(true)
	return nil
}

// Ready reports whether the initial storage probe has completed.
func (s *AuthService) Ready() bool {
	return s.ready.Load()
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Session    session.Session
	Cookie     string
	RedirectTo string
}

// Login authenticates against the upstream API. On success the token and
// identity are stored together before the result (and its redirect target)
// is returned, so the landing screen always observes the new session. On any
// failure the store is untouched and the error carries a displayable message.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	// Deliberately no session in ctx: a 401 here is a credential error,
	// not a session invalidation.
	res := s.gw.Post(ctx, "/auth/login", model.LoginRequest{Email: email, Password: password})
	if !res.Success {
		return nil, &UpstreamError{Status: res.Status, Message: res.Error}
	}

	var payload model.LoginPayload
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return nil, &UpstreamError{Status: res.Status, Message: "Unexpected response from CodeLens API"}
	}
	if payload.AccessToken == "" || len(payload.User.Roles) == 0 {
		// An authenticated identity always has at least one role; anything
		// else is a malformed payload and must not create a session.
		return nil, &UpstreamError{Status: res.Status, Message: "Unexpected response from CodeLens API"}
	}

	sess := session.Session{
		ID:    uuid.New().String(),
		Token: payload.AccessToken,
		User:  &payload.User,
	}
	if err := s.store.Save(ctx, sess); err != nil {
		s.log.Error().Err(err).Msg("Persist session failed")
		return nil, &UpstreamError{Status: 0, Message: "Unable to start a session. Please try again."}
	}

	cookie, err := s.mintCookie(sess.ID)
	if err != nil {
		_ = s.store.Clear(ctx, sess.ID)
		s.log.Error().Err(err).Msg("Sign session cookie failed")
		return nil, &UpstreamError{Status: 0, Message: "Unable to start a session. Please try again."}
	}

	s.log.Info().Str("user_id", sess.User.ID).Strs("roles", sess.User.Roles).Msg("Login succeeded")

	return &LoginResult{
		Session:    sess,
		Cookie:     cookie,
		RedirectTo: roles.PrimaryRoute(sess.User),
	}, nil
}

// Register creates an account upstream. It never creates a session; the
// caller signs in separately afterwards.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) error {
	res := s.gw.Post(ctx, "/auth/register", model.RegisterRequest{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
	if !res.Success {
		return &UpstreamError{Status: res.Status, Message: res.Error}
	}
	return nil
}

// Logout clears the session unconditionally. Idempotent, requires no
// upstream call, and always completes client-side; store failures are logged
// but do not surface.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		s.log.Warn().Err(err).Msg("Clear session on logout failed")
	}
	s.hub.Publish(notify.SessionEvent{
		Event:     notify.EventLoggedOut,
		SessionID: sessionID,
		Redirect:  roles.RouteLogin,
	})
}

// Authenticate resolves a browser cookie value into a live session. Any
// failure — absent cookie, bad signature, expired cookie, missing or
// malformed stored session — collapses into ErrNoSession.
func (s *AuthService) Authenticate(ctx context.Context, cookieValue string) (session.Session, error) {
	if cookieValue == "" {
		return session.Session{}, ErrNoSession
	}

	sessionID, err := s.parseCookie(cookieValue)
	if err != nil {
		return session.Session{}, ErrNoSession
	}

	sess, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			s.log.Warn().Err(err).Msg("Session load failed")
		}
		return session.Session{}, ErrNoSession
	}
	return sess, nil
}

// HasRole reports whether the session's identity carries the role.
func (s *AuthService) HasRole(sess session.Session, role roles.Role) bool {
	return roles.HasRole(sess.User, role)
}

// handleUnauthorized is the gateway's OnUnauthorized subscriber: the upstream
// rejected an attached credential, so the session dies and every open tab is
// told to return to login. Runs once per rejected response.
func (s *AuthService) handleUnauthorized(ctx context.Context) {
	sess, ok := session.FromContext(ctx)
	if !ok || sess.ID == "" {
		return
	}

	if err := s.store.Clear(ctx, sess.ID); err != nil {
		s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("Clear invalidated session failed")
	}
	s.hub.Publish(notify.SessionEvent{
		Event:     notify.EventSessionInvalidated,
		SessionID: sess.ID,
		Redirect:  roles.RouteLogin,
	})
	s.log.Info().Str("session_id", sess.ID).Msg("Session invalidated by upstream")
}

type cookieClaims struct {
	jwt.RegisteredClaims
}

// mintCookie signs a compact token carrying only the session ID. The
// upstream access token never travels to the browser.
func (s *AuthService) mintCookie(sessionID string) (string, error) {
	now := time.Now()
	claims := cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.SessionSecret))
}

func (s *AuthService) parseCookie(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("parse cookie: %w", err)
	}

	claims, ok := token.Claims.(*cookieClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid cookie claims")
	}
	return claims.Subject, nil
}

// IsCredentialRejection reports whether an error is an upstream rejection of
// the submitted data (4xx), as opposed to a transport or server failure.
func IsCredentialRejection(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Status >= http.StatusBadRequest && ue.Status < http.StatusInternalServerError
}
