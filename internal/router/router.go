package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/codelens-edu/codelens-gateway/internal/config"
	"github.com/codelens-edu/codelens-gateway/internal/handler"
	"github.com/codelens-edu/codelens-gateway/internal/middleware"
	"github.com/codelens-edu/codelens-gateway/internal/response"
	"github.com/codelens-edu/codelens-gateway/internal/roles"
	"github.com/codelens-edu/codelens-gateway/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	View          *handler.ViewHandler
	StudentPortal *handler.StudentPortalHandler
	Advisor       *handler.AdvisorHandler
	Counsellor    *handler.CounsellorHandler
	Admin         *handler.AdminHandler
	Staff         *handler.StaffHandler
	Institution   *handler.InstitutionHandler
	WS            *handler.WSHandler
	System        *handler.SystemHandler
}

// SetupRouter wires every route group behind its guard. The role sets here
// are the single authoritative route table; screens and their data APIs
// share one set.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to the configured origins when set; otherwise allow all
	// so dev works without extra config. Credentials stay on because the
	// session rides a cookie.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	guard := func(allowed ...roles.Role) gin.HandlerFunc {
		return middleware.Guard(authService, cfg.SessionCookieName, allowed...)
	}

	// Health check.
	router.GET("/health", handlers.System.Health)

	// ─── Public screens ────────────────────────────────────────────────
	router.GET(roles.RouteLogin, handlers.View.Public("login"))
	router.GET(roles.RouteRegister, handlers.View.Public("register"))
	router.GET(roles.RouteUnauthorized, handlers.View.Public("unauthorized"))

	// ─── Auth (public, rate limited) ───────────────────────────────────
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	auth := router.Group("/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/me", guard(), handlers.Auth.Me)
	}

	// ─── Protected screens ─────────────────────────────────────────────
	router.GET(roles.RouteStudentDashboard, guard(roles.RoleStudent), handlers.View.Screen("student_dashboard"))
	router.GET(roles.RouteAdminPanel, guard(roles.RoleAdmin), handlers.View.Screen("admin_panel"))
	router.GET(roles.RouteInstitutionDashboard, guard(roles.RoleAdmin), handlers.View.Screen("institution_dashboard"))
	router.GET(roles.RouteDepartmentDashboard, guard(roles.RoleHOD), handlers.View.Screen("department_dashboard"))
	router.GET(roles.RouteDepartmentStudents, guard(roles.RoleHOD), handlers.View.Screen("department_students"))
	router.GET(roles.RouteAdvisorDashboard, guard(roles.RoleAdvisor), handlers.View.Screen("advisor_dashboard"))
	router.GET("/advisor/student/:studentID", guard(roles.RoleAdvisor), handlers.View.Screen("advisor_student_detail"))
	router.GET(roles.RouteCounsellorDashboard, guard(roles.RoleCounsellor), handlers.View.Screen("counsellor_dashboard"))
	router.GET(roles.RouteStaffManagement,
		guard(roles.RoleAdmin, roles.RoleHOD, roles.RoleAdvisor),
		handlers.View.Screen("staff_management"))
	router.GET(roles.RouteLeaderboard,
		guard(roles.RoleAdmin, roles.RoleHOD, roles.RoleCounsellor, roles.RoleAdvisor, roles.RoleStudent),
		handlers.View.Screen("leaderboard"))

	// ─── Student data APIs ─────────────────────────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(guard(roles.RoleStudent))
	{
		studentAPI.GET("/platforms/my", handlers.StudentPortal.MyPlatforms)
		studentAPI.POST("/platforms/link", handlers.StudentPortal.LinkPlatform)
		studentAPI.DELETE("/platforms/:id", handlers.StudentPortal.UnlinkPlatform)
		studentAPI.GET("/snapshots/:accountID", handlers.StudentPortal.Snapshots)
		studentAPI.POST("/snapshots", handlers.StudentPortal.SubmitSnapshot)
		studentAPI.GET("/analytics/my-summary", handlers.StudentPortal.MySummary)
		studentAPI.GET("/analytics/my-growth/:accountID", handlers.StudentPortal.MyGrowth)
	}

	// ─── Advisor data APIs ─────────────────────────────────────────────
	advisorAPI := router.Group("/api/v1/analytics/advisor")
	advisorAPI.Use(guard(roles.RoleAdvisor))
	{
		advisorAPI.GET("/my-students", handlers.Advisor.MyStudents)
		advisorAPI.GET("/student/:studentID", handlers.Advisor.StudentDetail)
	}

	// ─── Counsellor data APIs ──────────────────────────────────────────
	counsellorGuard := guard(roles.RoleCounsellor)

	counsellorAnalytics := router.Group("/api/v1/analytics/counsellor")
	counsellorAnalytics.Use(counsellorGuard)
	{
		counsellorAnalytics.GET("/summary", handlers.Counsellor.Summary)
		counsellorAnalytics.GET("/students", handlers.Counsellor.Students)
		counsellorAnalytics.GET("/at-risk", handlers.Counsellor.AtRisk)
	}

	counsellorAPI := router.Group("/api/v1/counsellor")
	counsellorAPI.Use(counsellorGuard)
	{
		counsellorAPI.GET("/pending-snapshots", handlers.Counsellor.PendingSnapshots)
		counsellorAPI.PUT("/snapshots/:id/approve", handlers.Counsellor.ApproveSnapshot)
		counsellorAPI.PUT("/snapshots/:id/reject", handlers.Counsellor.RejectSnapshot)
	}

	// ─── Admin data APIs ───────────────────────────────────────────────
	adminGuard := guard(roles.RoleAdmin)

	academicsAPI := router.Group("/api/v1/academics")
	academicsAPI.Use(adminGuard)
	{
		academicsAPI.GET("/departments", handlers.Admin.ListDepartments)
		academicsAPI.POST("/departments", handlers.Admin.CreateDepartment)
		academicsAPI.DELETE("/departments/:id", handlers.Admin.DeleteDepartment)
	}

	studentsAPI := router.Group("/api/v1/students")
	studentsAPI.Use(adminGuard)
	{
		studentsAPI.GET("/all", handlers.Admin.AllStudents)
		studentsAPI.PUT("/:id/assign-department", handlers.Admin.AssignDepartment)
		studentsAPI.PUT("/:id/unassign-department", handlers.Admin.UnassignDepartment)
		studentsAPI.DELETE("/:id", handlers.Admin.DeleteStudent)
	}

	// ─── Staff data APIs ───────────────────────────────────────────────
	staffAPI := router.Group("/api/v1/staff")
	staffAPI.Use(guard(roles.RoleAdmin, roles.RoleHOD, roles.RoleAdvisor))
	{
		staffAPI.POST("/create", handlers.Staff.CreateStaff)
		staffAPI.GET("/my-team", handlers.Staff.MyTeam)
	}

	// ─── Institution analytics ─────────────────────────────────────────
	institutionAPI := router.Group("/api/v1/analytics")
	institutionAPI.Use(guard(roles.RoleAdmin, roles.RoleHOD))
	{
		institutionAPI.GET("/institution-summary", handlers.Institution.Summary)
		institutionAPI.GET("/department-performance", handlers.Institution.DepartmentPerformance)
		institutionAPI.GET("/at-risk", handlers.Institution.AtRisk)
	}

	router.GET("/api/v1/analytics/top-performers",
		guard(roles.RoleAdmin, roles.RoleHOD, roles.RoleCounsellor, roles.RoleAdvisor, roles.RoleStudent),
		handlers.Institution.TopPerformers)

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(guard())
	{
		ws.GET("/session/events", handlers.WS.SessionEvents)
	}

	return router
}
