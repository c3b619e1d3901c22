package roles

import "github.com/codelens-edu/codelens-gateway/internal/model"

// Role is an application permission tag issued by the upstream API.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleHOD        Role = "hod"
	RoleCounsellor Role = "counsellor"
	RoleAdvisor    Role = "advisor"
	RoleStudent    Role = "student"
)

// Navigable paths the gateway serves. Screen content itself lives in the SPA;
// these are the authorization checkpoints.
const (
	RouteLogin                = "/login"
	RouteRegister             = "/register"
	RouteUnauthorized         = "/unauthorized"
	RouteStudentDashboard     = "/dashboard"
	RouteAdminPanel           = "/admin"
	RouteInstitutionDashboard = "/admin/institution"
	RouteDepartmentDashboard  = "/department/dashboard"
	RouteDepartmentStudents   = "/department/students"
	RouteAdvisorDashboard     = "/advisor/dashboard"
	RouteCounsellorDashboard  = "/counsellor/dashboard"
	RouteStaffManagement      = "/staff"
	RouteLeaderboard          = "/leaderboard"
)

// dashboardPriority is the fixed, total priority order used to pick a user's
// landing route. A user holding several roles lands on the highest-ranked one.
var dashboardPriority = []struct {
	role  Role
	route string
}{
	{RoleAdmin, RouteInstitutionDashboard},
	{RoleHOD, RouteDepartmentDashboard},
	{RoleCounsellor, RouteCounsellorDashboard},
	{RoleAdvisor, RouteAdvisorDashboard},
	{RoleStudent, RouteStudentDashboard},
}

// HasRole reports whether user carries the given role. A nil user or an
// identity without roles yields false; it never panics on malformed input.
func HasRole(user *model.User, role Role) bool {
	if user == nil || len(user.Roles) == 0 {
		return false
	}
	for _, r := range user.Roles {
		if Role(r) == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether user carries at least one of the given roles.
// An empty allowed set means the screen declares no restriction.
func HasAnyRole(user *model.User, allowed ...Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, role := range allowed {
		if HasRole(user, role) {
			return true
		}
	}
	return false
}

// PrimaryRoute returns the dashboard path a user is sent to after login,
// chosen by the fixed role priority. A nil user or one with no recognized
// role resolves to the login route. Total: always returns a path.
func PrimaryRoute(user *model.User) string {
	for _, entry := range dashboardPriority {
		if HasRole(user, entry.role) {
			return entry.route
		}
	}
	return RouteLogin
}

// NavLink is a navigation entry surfaced in view payloads.
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavLinks derives the navigation menu for a user from role membership alone.
// Pure: same identity always yields the same menu.
func NavLinks(user *model.User) []NavLink {
	if user == nil {
		return nil
	}

	var links []NavLink
	if HasRole(user, RoleAdmin) {
		links = append(links,
			NavLink{Label: "Institution Overview", Path: RouteInstitutionDashboard},
			NavLink{Label: "Admin Panel", Path: RouteAdminPanel},
		)
	}
	if HasRole(user, RoleHOD) {
		links = append(links,
			NavLink{Label: "Department Dashboard", Path: RouteDepartmentDashboard},
			NavLink{Label: "Department Students", Path: RouteDepartmentStudents},
		)
	}
	if HasRole(user, RoleCounsellor) {
		links = append(links, NavLink{Label: "Counsellor Dashboard", Path: RouteCounsellorDashboard})
	}
	if HasRole(user, RoleAdvisor) {
		links = append(links, NavLink{Label: "Advisor Dashboard", Path: RouteAdvisorDashboard})
	}
	if HasRole(user, RoleStudent) {
		links = append(links, NavLink{Label: "My Dashboard", Path: RouteStudentDashboard})
	}
	if HasAnyRole(user, RoleAdmin, RoleHOD, RoleAdvisor) {
		links = append(links, NavLink{Label: "Staff", Path: RouteStaffManagement})
	}
	if len(user.Roles) > 0 {
		links = append(links, NavLink{Label: "Leaderboard", Path: RouteLeaderboard})
	}
	return links
}
