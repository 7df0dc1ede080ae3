package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/servicedesk/internal/api/http/handlers"
	"github.com/spec-kit/servicedesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	Dashboard      *handlers.DashboardHandler
	Payments       *handlers.PaymentsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/register", cfg.Users.Register)
	app.Post("/auth/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Users.Profile)
	protected.Patch("/me", cfg.Users.UpdateProfile)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)
	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Patch("/tickets/:id", cfg.Tickets.UpdateTicket)
	protected.Post("/tickets/:id/comments", cfg.Tickets.AddComment)

	protected.Get("/dashboard", cfg.Dashboard.Overview)
	protected.Get("/dashboard/stats", cfg.Dashboard.Stats)

	protected.Get("/payments/plans", cfg.Payments.ListPlans)
	protected.Post("/payments/orders", cfg.Payments.CreateOrder)
	protected.Post("/payments/verify", cfg.Payments.VerifyPayment)

	admin := protected.Group("/admin", auth.RequireAdmin())
	admin.Get("/tickets", cfg.AdminTickets.ListTickets)
}
