package handler

import (
	"net/http"

	"github.com/codelens-edu/codelens-gateway/internal/middleware"
	"github.com/codelens-edu/codelens-gateway/internal/response"
	"github.com/codelens-edu/codelens-gateway/internal/roles"
	"github.com/gin-gonic/gin"
)

// ViewHandler serves the screen routes. Each protected screen answers with
// the identity, its navigation entries and the screen name; the browser
// renders from that plus the screen's data API.
type ViewHandler struct{}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

// Screen returns the handler for one named screen. The guard in front of it
// has already decided whether the caller may be here.
func (h *ViewHandler) Screen(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := middleware.GetSession(c)

		response.Success(c, http.StatusOK, gin.H{
			"screen":        name,
			"user":          sess.User,
			"nav":           roles.NavLinks(sess.User),
			"primary_route": roles.PrimaryRoute(sess.User),
		})
	}
}

// Public returns the handler for an unauthenticated screen.
func (h *ViewHandler) Public(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"screen": name})
	}
}
