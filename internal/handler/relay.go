package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/codelens-edu/codelens-gateway/internal/response"
	"github.com/codelens-edu/codelens-gateway/internal/roles"
	"github.com/gin-gonic/gin"
)

// relay translates a gateway result into the browser envelope. Domain
// payloads pass through opaquely; the gateway never interprets them.
func relay(c *gin.Context, res gateway.Result) {
	if res.Success {
		status := res.Status
		if status == 0 {
			status = http.StatusOK
		}
		response.Success(c, status, res.Data)
		return
	}

	switch {
	case res.Status == 0:
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrUpstreamUnavailable, res.Error)
	case res.Status == http.StatusUnauthorized:
		// The session was invalidated mid-request. The auth service has
		// already cleared the store; tell the browser where to go.
		response.AbortFailRedirect(c, http.StatusUnauthorized, response.ErrSessionInvalidated, roles.RouteLogin)
	default:
		response.FailWithMessage(c, res.Status, response.ErrUpstreamRejected, res.Error)
	}
}

// passthroughBody reads the request body for opaque forwarding. Returns nil
// when the request has no body so the outbound call omits one too.
func passthroughBody(c *gin.Context) interface{} {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		return nil
	}
	return json.RawMessage(raw)
}

// withQuery appends the incoming query string to an upstream path.
func withQuery(c *gin.Context, path string) string {
	if q := c.Request.URL.RawQuery; q != "" {
		return path + "?" + q
	}
	return path
}
