package handler

import (
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/gin-gonic/gin"
)

// InstitutionHandler proxies institution-wide analytics and the leaderboard.
type InstitutionHandler struct {
	gw *gateway.Client
}

// NewInstitutionHandler creates a new InstitutionHandler.
func NewInstitutionHandler(gw *gateway.Client) *InstitutionHandler {
	return &InstitutionHandler{gw: gw}
}

// Summary godoc
// GET /api/v1/analytics/institution-summary
func (h *InstitutionHandler) Summary(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/institution-summary"))
}

// DepartmentPerformance godoc
// GET /api/v1/analytics/department-performance
func (h *InstitutionHandler) DepartmentPerformance(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/department-performance"))
}

// AtRisk godoc
// GET /api/v1/analytics/at-risk
func (h *InstitutionHandler) AtRisk(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/analytics/at-risk"))
}

// TopPerformers godoc
// GET /api/v1/analytics/top-performers?limit=N
// Open to every authenticated role.
func (h *InstitutionHandler) TopPerformers(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), withQuery(c, "/analytics/top-performers")))
}
