package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/mahajanautomation/crm-backend/internal/api/http/handlers"
	"github.com/mahajanautomation/crm-backend/internal/auth"
	"github.com/mahajanautomation/crm-backend/internal/domain"
	"github.com/mahajanautomation/crm-backend/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Navigation     *handlers.NavigationHandler
	Leads          *handlers.LeadsHandler
	Proposals      *handlers.ProposalsHandler
	SpareParts     *handlers.SparePartsHandler
	Templates      *handlers.TemplatesHandler
	Reports        *handlers.ReportsHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every screen-backed group is guarded by the same route
// table the navigation menu is built from.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	api.Post("/auth/login", cfg.Users.Login)
	api.Get("/navigation/resolve", cfg.AuthMiddleware.Optional, cfg.Navigation.Resolve)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/logout", cfg.Users.Logout)
	protected.Get("/auth/me", cfg.Users.Me)

	protected.Get("/dashboard", auth.RequireRoute(domain.RouteDashboard), cfg.Navigation.Dashboard)

	leads := protected.Group("/leads", auth.RequireRoute(domain.RouteLeads))
	leads.Get("/", cfg.Leads.List)
	leads.Post("/", cfg.Leads.Create)
	leads.Get("/:id", cfg.Leads.Get)
	leads.Put("/:id", cfg.Leads.Update)
	leads.Delete("/:id", cfg.Leads.Delete)
	leads.Post("/:id/memos", cfg.Leads.AddMemo)
	leads.Post("/:id/follow-ups", cfg.Leads.AddFollowUp)

	proposals := protected.Group("/proposals", auth.RequireRoute(domain.RouteProposals))
	proposals.Get("/", cfg.Proposals.List)
	proposals.Post("/", cfg.Proposals.Create)
	proposals.Get("/:id", cfg.Proposals.Get)
	proposals.Put("/:id", cfg.Proposals.Update)
	proposals.Delete("/:id", cfg.Proposals.Delete)

	parts := protected.Group("/spare-parts", auth.RequireRoute(domain.RouteSpareParts))
	parts.Get("/", cfg.SpareParts.List)
	parts.Post("/", cfg.SpareParts.Create)
	parts.Get("/:id", cfg.SpareParts.Get)
	parts.Put("/:id", cfg.SpareParts.Update)
	parts.Delete("/:id", cfg.SpareParts.Delete)

	templates := protected.Group("/proposal-templates", auth.RequireRoute(domain.RouteProposalTemplates))
	templates.Get("/", cfg.Templates.List)
	templates.Post("/", cfg.Templates.Create)
	templates.Get("/:id", cfg.Templates.Get)
	templates.Put("/:id", cfg.Templates.Update)
	templates.Delete("/:id", cfg.Templates.Delete)
	templates.Post("/:id/default", cfg.Templates.SetDefault)

	users := protected.Group("/users", auth.RequireRoute(domain.RouteUsers))
	users.Get("/", cfg.Users.List)
	users.Post("/", cfg.Users.Create)

	reports := protected.Group("/reports", auth.RequireRoute(domain.RouteReports))
	reports.Get("/summary", cfg.Reports.Summary)
	reports.Get("/preview", cfg.Reports.Preview)
	reports.Get("/export", cfg.Reports.Export)
}
