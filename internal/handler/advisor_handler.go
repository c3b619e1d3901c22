package handler

import (
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/gin-gonic/gin"
)

// AdvisorHandler proxies the advisor analytics endpoints.
type AdvisorHandler struct {
	gw *gateway.Client
}

// NewAdvisorHandler creates a new AdvisorHandler.
func NewAdvisorHandler(gw *gateway.Client) *AdvisorHandler {
	return &AdvisorHandler{gw: gw}
}

// MyStudents godoc
// GET /api/v1/analytics/advisor/my-students
func (h *AdvisorHandler) MyStudents(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/advisor/my-students"))
}

// StudentDetail godoc
// GET /api/v1/analytics/advisor/student/:studentID
func (h *AdvisorHandler) StudentDetail(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/advisor/student/"+c.Param("studentID")))
}
