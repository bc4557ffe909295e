package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medisure/portal/internal/access"
	"github.com/medisure/portal/internal/api/http/handlers"
	"github.com/medisure/portal/internal/auth"
	"github.com/medisure/portal/internal/domain"
	"github.com/medisure/portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Pages    *handlers.PagesHandler
	Actions  *handlers.ActionsHandler
	Audit    *handlers.AuditHandler
	Sessions *auth.SessionMiddleware
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
}

// RegisterRoutes wires HTTP routes. Probes and metrics are registered ahead of the session
// middleware so they never touch Redis.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	app.Use(cfg.Sessions.Handle)

	app.Get(access.PathLogin, cfg.Auth.LoginForm)
	app.Post(access.PathLogin, cfg.Auth.Login)
	app.Get(access.PathRegister, cfg.Auth.RegisterForm)
	app.Post(access.PathRegister, cfg.Auth.Register)
	app.Post("/logout", cfg.Auth.Logout)

	signedIn := auth.RequireRoles()
	app.Get("/session", signedIn, cfg.Auth.Session)
	app.Post("/session/refresh", signedIn, cfg.Auth.Refresh)

	for _, route := range access.Routes() {
		app.Get(route.Path, auth.Guard(route, cfg.Metrics), cfg.Pages.Show)
	}

	registerActions(app.Group("/actions"), cfg.Actions)

	app.Get("/audit", auth.RequireRoles(domain.RoleAdmin), cfg.Audit.List)

	app.Get(access.PathRoot, handlers.Fallback)
	app.Use(handlers.Fallback)
}

func registerActions(r fiber.Router, h *handlers.ActionsHandler) {
	const (
		admin       = domain.RoleAdmin
		policyMgr   = domain.RolePolicyManager
		claimsMgr   = domain.RoleClaimsManager
		financeMgr  = domain.RoleFinanceManager
		medical     = domain.RoleMedicalCoordinator
		doctor      = domain.RoleDoctor
		holder      = domain.RolePolicyHolder
		legacyUser  = domain.RoleUser
	)
	signedIn := auth.RequireRoles()

	r.Get("/policies", signedIn, h.ListPolicies)
	r.Get("/policies/mine", auth.RequireRoles(holder), h.MyPolicy)
	r.Get("/policies/:id", signedIn, h.GetPolicy)
	r.Post("/policies", auth.RequireRoles(admin, policyMgr), h.CreatePolicy)
	r.Put("/policies/:id", auth.RequireRoles(admin, policyMgr), h.UpdatePolicy)
	r.Delete("/policies/:id", auth.RequireRoles(admin, policyMgr), h.DeletePolicy)
	r.Post("/policies/:id/purchase", auth.RequireRoles(legacyUser, holder), h.PurchasePolicy)

	r.Post("/appointments", auth.RequireRoles(holder), h.BookAppointment)
	r.Get("/appointments/today", auth.RequireRoles(doctor), h.TodayAppointments)
	r.Get("/appointments/:id", signedIn, h.GetAppointment)
	r.Put("/appointments/:id/status", auth.RequireRoles(doctor), h.UpdateAppointmentStatus)
	r.Post("/doctors", auth.RequireRoles(admin, medical), h.RegisterDoctor)

	r.Post("/claims", auth.RequireRoles(holder), h.SubmitClaim)
	r.Get("/claims/pending", auth.RequireRoles(admin, claimsMgr), h.PendingClaims)
	r.Get("/claims/status/:status", auth.RequireRoles(admin, claimsMgr, financeMgr), h.ClaimsByStatus)
	r.Post("/claims/:id/documents", auth.RequireRoles(holder), h.UploadClaimDocument)
	r.Put("/claims/:id/review", auth.RequireRoles(admin, claimsMgr), h.ReviewClaim)
	r.Put("/claims/:id/forward", auth.RequireRoles(admin, claimsMgr), h.ForwardClaim)

	r.Post("/finance/claims/:id", auth.RequireRoles(admin, financeMgr), h.ProcessClaim)
	r.Get("/finance/records", auth.RequireRoles(admin, financeMgr), h.FinanceRecords)

	r.Post("/admin/employees", auth.RequireRoles(admin), h.CreateEmployee)
	r.Put("/admin/users/:id", auth.RequireRoles(admin), h.UpdateUser)
	r.Put("/admin/users/:id/role", auth.RequireRoles(admin), h.ChangeRole)
	r.Delete("/admin/users/:id", auth.RequireRoles(admin), h.DeleteUser)
}
