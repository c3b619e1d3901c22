package middleware

import (
	"net/http"
	"strings"

	"github.com/codelens-edu/codelens-gateway/internal/response"
	"github.com/codelens-edu/codelens-gateway/internal/roles"
	"github.com/codelens-edu/codelens-gateway/internal/service"
	"github.com/codelens-edu/codelens-gateway/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeySession is the Gin context key for the resolved session.
	ContextKeySession = "session"
)

// Guard gates a protected route. For each request it evaluates, in fixed
// order: loading (auth service not yet initialized), authentication, then
// role permission. Content is never served while loading, and never before
// authorization is confirmed. An empty allowed set means any authenticated
// user may pass.
func Guard(auth *service.AuthService, cookieName string, allowed ...roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Loading: the one-time session-store probe has not finished, so no
		// authorization decision can be made yet.
		if !auth.Ready() {
			c.Header("Retry-After", "1")
			response.AbortFail(c, http.StatusServiceUnavailable, response.ErrStarting)
			return
		}

		cookie, _ := c.Cookie(cookieName)
		sess, err := auth.Authenticate(c.Request.Context(), cookie)
		if err != nil {
			// Unauthenticated: back to login, terminal for this attempt.
			deny(c, http.StatusUnauthorized, response.ErrSessionRequired, roles.RouteLogin)
			return
		}

		if !roles.HasAnyRole(sess.User, allowed...) {
			// Unauthorized: valid session, wrong roles. The session itself
			// is untouched.
			deny(c, http.StatusForbidden, response.ErrForbidden, roles.RouteUnauthorized)
			return
		}

		// Authorized: expose the session to handlers and to the outbound
		// gateway client via the request context.
		c.Set(ContextKeySession, sess)
		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Next()
	}
}

// GetSession retrieves the authenticated session placed by Guard. The zero
// session is returned on public routes.
func GetSession(c *gin.Context) session.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return session.Session{}
	}
	sess, ok := val.(session.Session)
	if !ok {
		return session.Session{}
	}
	return sess
}

// deny redirects browsers and answers API callers with the JSON envelope.
// Both carry the same navigation target.
func deny(c *gin.Context, status int, code response.ErrCode, redirect string) {
	if isBrowserRequest(c.Request) {
		c.Redirect(http.StatusSeeOther, redirect)
		c.Abort()
		return
	}
	response.AbortFailRedirect(c, status, code, redirect)
}

// isBrowserRequest distinguishes page navigations from XHR/fetch calls so the
// guard can redirect the former and return JSON to the latter.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
