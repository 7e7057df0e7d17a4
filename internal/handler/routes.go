package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cps-portal-api/internal/middleware"
	"github.com/noah-isme/cps-portal-api/internal/models"
	"github.com/noah-isme/cps-portal-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth      *AuthHandler
	CPS       *CPSHandler
	Leave     *LeaveHandler
	Timetable *TimetableHandler
	Dashboard *DashboardHandler
	Export    *ExportHandler
}

// RouteOptions gates the optional surfaces.
type RouteOptions struct {
	DashboardEnabled bool
	ExportsEnabled   bool
}

// RegisterRoutes mounts the API under the given prefix. Workflow rules are
// enforced again inside the services; the route-level RBAC only blocks the
// obviously wrong roles early.
func RegisterRoutes(r *gin.Engine, prefix string, auth *service.AuthService, h Handlers, opts RouteOptions) {
	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.GET("/auth/me", h.Auth.Me)
	authed.PUT("/auth/password", h.Auth.ChangePassword)

	cps := authed.Group("/cps")
	{
		cps.GET("/catalog", h.CPS.Catalog)
		cps.GET("", h.CPS.List)
		cps.POST("", h.CPS.Create)
		cps.GET("/queue", middleware.RequireRoles(models.RoleHOD, models.RolePrincipal), h.CPS.Queue)
		cps.GET("/:id", h.CPS.Get)
		cps.PUT("/:id", h.CPS.Update)
		cps.DELETE("/:id", h.CPS.Delete)
		cps.POST("/:id/submit", h.CPS.Submit)
		cps.POST("/:id/approve", middleware.RequireRoles(models.RoleHOD, models.RolePrincipal), h.CPS.Approve)
		cps.POST("/:id/reject", middleware.RequireRoles(models.RoleHOD, models.RolePrincipal), h.CPS.Reject)
	}

	leaves := authed.Group("/leaves")
	{
		leaves.GET("", h.Leave.List)
		leaves.POST("", h.Leave.Create)
		leaves.GET("/queue", middleware.RequireRoles(models.RoleHOD, models.RolePrincipal), h.Leave.Queue)
		leaves.GET("/:id", h.Leave.Get)
		leaves.DELETE("/:id", h.Leave.Cancel)
		leaves.POST("/:id/approve", middleware.RequireRoles(models.RoleHOD, models.RolePrincipal), h.Leave.Approve)
		leaves.POST("/:id/reject", middleware.RequireRoles(models.RoleHOD, models.RolePrincipal), h.Leave.Reject)
	}

	timetables := authed.Group("/timetables")
	{
		timetables.GET("/slots", h.Timetable.Slots)
		timetables.GET("/draft", h.Timetable.Draft)
		timetables.PUT("/draft", middleware.RequireRoles(models.RoleFaculty, models.RoleHOD, models.RoleAdmin), h.Timetable.SaveDraftHeader)
		timetables.PUT("/draft/cells", middleware.RequireRoles(models.RoleFaculty, models.RoleHOD, models.RoleAdmin), h.Timetable.UpsertCell)
		timetables.DELETE("/draft/cells/:day/:slotId", middleware.RequireRoles(models.RoleFaculty, models.RoleHOD, models.RoleAdmin), h.Timetable.DeleteCell)
		timetables.POST("/draft/submit", middleware.RequireRoles(models.RoleFaculty, models.RoleHOD, models.RoleAdmin), h.Timetable.Submit)
		timetables.GET("", h.Timetable.List)
		timetables.GET("/:id", h.Timetable.Get)
		timetables.GET("/:id/subjects", h.Timetable.Subjects)
		timetables.POST("/:id/approvals/faculty", middleware.RequireRoles(models.RoleFaculty, models.RoleHOD), h.Timetable.ApproveByFaculty)
		timetables.POST("/:id/approvals/hod", middleware.RequireRoles(models.RoleHOD), h.Timetable.ApproveByHOD)
		timetables.POST("/:id/reject", middleware.RequireRoles(models.RoleHOD), h.Timetable.Reject)
	}

	if opts.DashboardEnabled {
		authed.GET("/dashboard", h.Dashboard.Overview)
	}
	if opts.ExportsEnabled {
		authed.GET("/exports/cps-statement", h.Export.CreditStatement)
	}
}
