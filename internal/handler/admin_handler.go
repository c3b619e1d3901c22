package handler

import (
	"github.com/codelens-edu/codelens-gateway/internal/gateway"
	"github.com/gin-gonic/gin"
)

// AdminHandler proxies the institution administration endpoints: department
// management and the student roster.
type AdminHandler struct {
	gw *gateway.Client
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(gw *gateway.Client) *AdminHandler {
	return &AdminHandler{gw: gw}
}

// ListDepartments godoc
// GET /api/v1/academics/departments
func (h *AdminHandler) ListDepartments(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), "/academics/departments"))
}

// CreateDepartment godoc
// POST /api/v1/academics/departments
func (h *AdminHandler) CreateDepartment(c *gin.Context) {
	relay(c, h.gw.Post(c.Request.Context(), "/academics/departments", passthroughBody(c)))
}

// DeleteDepartment godoc
// DELETE /api/v1/academics/departments/:id
func (h *AdminHandler) DeleteDepartment(c *gin.Context) {
	relay(c, h.gw.Delete(c.Request.Context(), "/academics/departments/"+c.Param("id")))
}

// AllStudents godoc
// GET /api/v1/students/all
func (h *AdminHandler) AllStudents(c *gin.Context) {
	relay(c, h.gw.Get(c.Request.Context(), withQuery(c, "/students/all")))
}

// AssignDepartment godoc
// PUT /api/v1/students/:id/assign-department
func (h *AdminHandler) AssignDepartment(c *gin.Context) {
	relay(c, h.gw.Put(c.Request.Context(), "/students/"+c.Param("id")+"/assign-department", passthroughBody(c)))
}

// UnassignDepartment godoc
// PUT /api/v1/students/:id/unassign-department
func (h *AdminHandler) UnassignDepartment(c *gin.Context) {
	relay(c, h.gw.Put(c.Request.Context(), "/students/"+c.Param("id")+"/unassign-department", passthroughBody(c)))
}

// DeleteStudent godoc
// DELETE /api/v1/students/:id
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	relay(c, h.gw.Delete(c.Request.Context(), "/students/"+c.Param("id")))
}
