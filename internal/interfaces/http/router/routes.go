package router

import (
	"github.com/gin-gonic/gin"

	"github.com/callcrm/backend/internal/domain/identity"
	"github.com/callcrm/backend/internal/interfaces/http/handler"
	"github.com/callcrm/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API exposes.
type Handlers struct {
	Auth     *handler.AuthHandler
	Company  *handler.CompanyHandler
	Employee *handler.EmployeeHandler
	Role     *handler.RoleHandler
	Menu     *handler.MenuHandler
	Campaign *handler.CampaignHandler
	Lead     *handler.LeadHandler
	Agent    *handler.AgentHandler
	Call     *handler.CallHandler
	Report   *handler.ReportHandler
	System   *handler.SystemHandler
	Notify   *handler.NotifyHandler

	// AuthLimiter, when set, throttles the login and refresh endpoints.
	AuthLimiter gin.HandlerFunc
}

// PublicPaths returns the API paths the JWT middleware must skip.
func PublicPaths() []string {
	return []string{
		"/api/v1/auth/superadmin/login",
		"/api/v1/auth/company/login",
		"/api/v1/auth/employee/login",
		"/api/v1/auth/refresh",
		"/api/v1/ping",
		"/api/v1/system/ping",
		"/api/v1/system/info",
	}
}

// QueryTokenPaths returns the paths allowed to carry the access token in
// the "token" query parameter instead of the Authorization header.
func QueryTokenPaths() []string {
	return []string{
		"/api/v1/ws/events",
	}
}

// RegisterAll wires the full route tree onto the router. Authentication
// is expected to be applied at the router level; this function only adds
// the per-group role and permission guards.
func RegisterAll(r *Router, h Handlers) {
	r.Register(authRoutes(h))
	r.Register(platformRoutes(h))
	r.Register(orgRoutes(h))
	r.Register(callAgentRoutes(h))
	r.Register(systemRoutes(h))
	r.Register(notifyRoutes(h))
}

// authRoutes covers the three login flows plus session management.
func authRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("auth", "/auth")
	if h.AuthLimiter != nil {
		g.Use(h.AuthLimiter)
	}
	g.POST("/superadmin/login", h.Auth.SuperAdminLogin)
	g.POST("/company/login", h.Auth.CompanyLogin)
	g.POST("/employee/login", h.Auth.EmployeeLogin)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
	g.GET("/me", h.Auth.Me)
	g.PUT("/password", h.Auth.ChangePassword)
	return g
}

// platformRoutes covers tenant administration, super admin only.
func platformRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("platform", "/companies")
	g.Use(middleware.RequireRole(identity.RoleSuperAdmin))

	g.POST("", h.Company.Create)
	g.GET("", h.Company.List)
	g.GET("/:id", h.Company.GetByID)
	g.PUT("/:id", h.Company.Update)
	g.POST("/:id/activate", h.Company.Activate)
	g.POST("/:id/deactivate", h.Company.Deactivate)
	g.POST("/:id/suspend", h.Company.Suspend)
	g.POST("/:id/reset-password", h.Company.ResetAdminPassword)
	g.DELETE("/:id", h.Company.Delete)
	return g
}

// orgRoutes covers employees, roles and menus, company admin only.
func orgRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("org", "")
	g.Use(middleware.RequireCompanyAdmin())

	employees := g.Group("employees", "/employees")
	employees.POST("", h.Employee.Create)
	employees.GET("", h.Employee.List)
	employees.GET("/:id", h.Employee.GetByID)
	employees.PUT("/:id", h.Employee.Update)
	employees.DELETE("/:id", h.Employee.Delete)
	employees.POST("/:id/activate", h.Employee.Activate)
	employees.POST("/:id/deactivate", h.Employee.Deactivate)
	employees.POST("/:id/unlock", h.Employee.Unlock)
	employees.PUT("/:id/role/:role_id", h.Employee.AssignRole)
	employees.DELETE("/:id/role", h.Employee.ClearRole)
	employees.POST("/:id/reset-password", h.Employee.ResetPassword)

	roles := g.Group("roles", "/roles")
	roles.POST("", h.Role.Create)
	roles.GET("", h.Role.List)
	roles.GET("/:id", h.Role.GetByID)
	roles.PUT("/:id", h.Role.Update)
	roles.DELETE("/:id", h.Role.Delete)
	roles.POST("/:id/enable", h.Role.Enable)
	roles.POST("/:id/disable", h.Role.Disable)
	roles.PUT("/:id/permissions", h.Role.SetGrants)
	roles.GET("/:id/permissions", h.Role.GetPermissions)
	roles.GET("/:id/employees", h.Role.ListEmployees)

	menus := g.Group("menus", "/menus")
	menus.POST("", h.Menu.Create)
	menus.GET("", h.Menu.List)
	menus.GET("/tree", h.Menu.Tree)
	menus.GET("/:id", h.Menu.GetByID)
	menus.PUT("/:id", h.Menu.Update)
	menus.DELETE("/:id", h.Menu.Delete)
	menus.POST("/:id/activate", h.Menu.Activate)
	menus.POST("/:id/deactivate", h.Menu.Deactivate)
	menus.POST("/:id/submenus", h.Menu.CreateSubMenu)
	menus.GET("/:id/submenus", h.Menu.ListSubMenus)
	menus.GET("/:id/submenus/:sub_id", h.Menu.GetSubMenu)
	menus.PUT("/:id/submenus/:sub_id", h.Menu.UpdateSubMenu)
	menus.DELETE("/:id/submenus/:sub_id", h.Menu.DeleteSubMenu)
	menus.POST("/:id/submenus/:sub_id/activate", h.Menu.ActivateSubMenu)
	menus.POST("/:id/submenus/:sub_id/deactivate", h.Menu.DeactivateSubMenu)

	return g
}

// callAgentRoutes covers the CRM resources. Any authenticated role may
// enter the group; each route checks its resource:action permission, and
// admin roles bypass those checks.
func callAgentRoutes(h Handlers) *DomainGroup {
	perm := middleware.RequirePermission
	g := NewDomainGroup("callagent", "/callagent")

	campaigns := g.Group("campaigns", "/campaigns")
	campaigns.POST("", perm("campaigns:add"), h.Campaign.Create)
	campaigns.GET("", perm("campaigns:view"), h.Campaign.List)
	campaigns.GET("/:id", perm("campaigns:view"), h.Campaign.GetByID)
	campaigns.PUT("/:id", perm("campaigns:edit"), h.Campaign.Update)
	campaigns.PUT("/:id/schedule", perm("campaigns:edit"), h.Campaign.SetSchedule)
	campaigns.PUT("/:id/budget", perm("campaigns:edit"), h.Campaign.SetBudget)
	campaigns.PUT("/:id/status", perm("campaigns:edit"), h.Campaign.UpdateStatus)
	campaigns.POST("/:id/activate", perm("campaigns:edit"), h.Campaign.Activate)
	campaigns.POST("/:id/deactivate", perm("campaigns:edit"), h.Campaign.Deactivate)
	campaigns.GET("/:id/leads", perm("leads:view"), h.Campaign.ListLeads)
	campaigns.GET("/:id/reports", perm("reports:view"), h.Report.ListByCampaign)
	campaigns.DELETE("/:id", perm("campaigns:delete"), h.Campaign.Delete)

	leads := g.Group("leads", "/leads")
	leads.POST("", perm("leads:add"), h.Lead.Create)
	leads.GET("", perm("leads:view"), h.Lead.List)
	leads.GET("/:id", perm("leads:view"), h.Lead.GetByID)
	leads.PUT("/:id", perm("leads:edit"), h.Lead.Update)
	leads.PUT("/:id/status", perm("leads:edit"), h.Lead.UpdateStatus)
	leads.PUT("/:id/score", perm("leads:edit"), h.Lead.UpdateScore)
	leads.PUT("/:id/assign", perm("leads:edit"), h.Lead.AssignAgent)
	leads.DELETE("/:id/assign", perm("leads:edit"), h.Lead.UnassignAgent)
	leads.GET("/:id/calls", perm("calls:view"), h.Lead.ListCalls)
	leads.DELETE("/:id", perm("leads:delete"), h.Lead.Delete)

	agents := g.Group("agents", "/agents")
	agents.POST("", perm("agents:add"), h.Agent.Create)
	agents.GET("", perm("agents:view"), h.Agent.List)
	agents.GET("/:id", perm("agents:view"), h.Agent.GetByID)
	agents.PUT("/:id", perm("agents:edit"), h.Agent.Update)
	agents.PUT("/:id/shift", perm("agents:edit"), h.Agent.SetShift)
	agents.POST("/:id/activate", perm("agents:edit"), h.Agent.Activate)
	agents.POST("/:id/deactivate", perm("agents:edit"), h.Agent.Deactivate)
	agents.GET("/:id/calls", perm("calls:view"), h.Agent.ListCalls)
	agents.GET("/:id/leads", perm("leads:view"), h.Agent.ListLeads)
	agents.DELETE("/:id", perm("agents:delete"), h.Agent.Delete)

	calls := g.Group("calls", "/calls")
	calls.POST("", perm("calls:add"), h.Call.Log)
	calls.GET("", perm("calls:view"), h.Call.List)
	calls.GET("/:id", perm("calls:view"), h.Call.GetByID)
	calls.PUT("/:id/end", perm("calls:edit"), h.Call.End)
	calls.PUT("/:id/outcome", perm("calls:edit"), h.Call.RecordOutcome)
	calls.PUT("/:id/follow-up", perm("calls:edit"), h.Call.ScheduleFollowUp)
	calls.DELETE("/:id/follow-up", perm("calls:edit"), h.Call.ClearFollowUp)
	calls.DELETE("/:id", perm("calls:delete"), h.Call.Delete)

	reports := g.Group("reports", "/reports")
	reports.POST("", perm("reports:add"), h.Report.Create)
	reports.GET("", perm("reports:view"), h.Report.List)
	reports.GET("/:id", perm("reports:view"), h.Report.GetByID)
	reports.PUT("/:id/figures", perm("reports:edit"), h.Report.UpdateFigures)
	reports.POST("/summary", perm("reports:add"), h.Report.GenerateSummary)
	reports.DELETE("/:id", perm("reports:delete"), h.Report.Delete)

	return g
}

func systemRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo)
	g.GET("/ping", h.System.Ping)
	return g
}

func notifyRoutes(h Handlers) *DomainGroup {
	g := NewDomainGroup("notify", "/ws")
	g.GET("/events", h.Notify.Subscribe)
	return g
}
