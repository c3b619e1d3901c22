package session

import (
	"context"

	"github.com/codelens-edu/codelens-gateway/internal/model"
)

// Session is the client-held proof of authentication: the opaque upstream
// bearer token plus the cached identity record. Token and User are stored and
// cleared together; a session never holds one without the other.
type Session struct {
	ID    string
	Token string
	User  *model.User
}

// IsAuthenticated reports whether the session carries a credential.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

type contextKey struct{}

// NewContext returns a context carrying the session, so outbound gateway
// calls can attach the bearer credential.
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext retrieves the session from a context. The second return is
// false when no session is attached (public routes, CLI callers).
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}
