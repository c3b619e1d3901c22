package handler

import (
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/gin-gonic/gin"
)

// StudentPortalHandler proxies the student-facing platform, snapshot and
// personal-analytics endpoints.
type StudentPortalHandler struct {
	gw *gateway.Client
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(gw *gateway.Client) *StudentPortalHandler {
	return &StudentPortalHandler{gw: gw}
}

// MyPlatforms godoc
// GET /api/v1/platforms/my
func (h *StudentPortalHandler) MyPlatforms(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/platforms/my"))
}

// LinkPlatform godoc
// POST /api/v1/platforms/link
func (h *StudentPortalHandler) LinkPlatform(c *gin.Context) {
	relay(c, h.gw.Post(c.Request.Context(), "/platforms/link", passthroughBody(c)))
}

// UnlinkPlatform godoc
// DELETE /api/v1/platforms/:id
func (h *StudentPortalHandler) UnlinkPlatform(c *gin.Context) {
	relay(c, h.gw.Delete(c.Request.Context(), "/platforms/"+c.Param("id")))
}

// Snapshots godoc
// GET /api/v1/snapshots/:accountID
func (h *StudentPortalHandler) Snapshots(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/snapshots/"+c.Param("accountID")))
}

// SubmitSnapshot godoc
// POST /api/v1/snapshots
func (h *StudentPortalHandler) SubmitSnapshot(c *gin.Context) {
	relay(c, h.gw.Post(c.Request.Context(), "/snapshots", passthroughBody(c)))
}

// MySummary godoc
// GET /api/v1/analytics/my-summary
func (h *StudentPortalHandler) MySummary(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/my-summary"))
}

// MyGrowth godoc
// GET /api/v1/analytics/my-growth/:accountID
func (h *StudentPortalHandler) MyGrowth(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/my-growth/"+c.Param("accountID")))
}
