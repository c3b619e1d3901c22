package handler

import (
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/gin-gonic/gin"
)

// StaffHandler proxies staff-management endpoints. Which accounts a caller
// may create or see is decided upstream from the attached credential.
type StaffHandler struct {
	gw *gateway.Client
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(gw *gateway.Client) *StaffHandler {
	return &StaffHandler{gw: gw}
}

// CreateStaff godoc
// POST /api/v1/staff/create
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	relay(c, h.gw.Post(c.Request.Context(), "/staff/create", passthroughBody(c)))
}

// MyTeam godoc
// GET /api/v1/staff/my-team
func (h *StaffHandler) MyTeam(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/staff/my-team"))
}
