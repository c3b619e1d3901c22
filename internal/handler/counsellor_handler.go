package handler

import (
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/gin-gonic/gin"
)

// CounsellorHandler proxies the counsellor analytics and snapshot-review
// endpoints.
type CounsellorHandler struct {
	gw *gateway.Client
}

// NewCounsellorHandler creates a new CounsellorHandler.
func NewCounsellorHandler(gw *gateway.Client) *CounsellorHandler {
	return &CounsellorHandler{gw: gw}
}

// Summary godoc
// GET /api/v1/analytics/counsellor/summary
func (h *CounsellorHandler) Summary(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/counsellor/summary"))
}

// Students godoc
// GET /api/v1/analytics/counsellor/students
func (h *CounsellorHandler) Students(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), withQuery(c, "/analytics/counsellor/students")))
}

// AtRisk godoc
// GET /api/v1/analytics/counsellor/at-risk
func (h *CounsellorHandler) AtRisk(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/counsellor/at-risk"))
}

// PendingSnapshots godoc
// GET /api/v1/counsellor/pending-snapshots
func (h *CounsellorHandler) PendingSnapshots(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/counsellor/pending-snapshots"))
}

// ApproveSnapshot godoc
// PUT /api/v1/counsellor/snapshots/:id/approve
func (h *CounsellorHandler) ApproveSnapshot(c *gin.Context) {
	relay(c, h.gw.Put(c.Request.Context(), "/counsellor/snapshots/"+c.Param("id")+"/approve", passthroughBody(c)))
}

// RejectSnapshot godoc
// PUT /api/v1/counsellor/snapshots/:id/reject
func (h *CounsellorHandler) RejectSnapshot(c *gin.Context) {
	relay(c, h.gw.Put(c.Request.Context(), "/counsellor/snapshots/"+c.Param("id")+"/reject", passthroughBody(c)))
}
