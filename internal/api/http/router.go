package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Use(cfg.AuthMiddleware.Handle)

	users := app.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/verify-email", cfg.Users.VerifyEmail)
	users.Post("/resend-otp", cfg.Users.ResendCode)
	users.Post("/authenticate", cfg.Users.Authenticate)
	users.Get("/me", auth.RequireAuthenticated(), cfg.Users.Me)

	tickets := app.Group("/tickets", auth.RequireAuthenticated())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/unassigned",
		auth.RequireRole(domain.RoleSupportAgent, domain.RoleAdmin), cfg.Tickets.ListUnassigned)
	tickets.Get("/assignable-agents",
		auth.RequireRole(domain.RoleSupportAgent, domain.RoleAdmin), cfg.Tickets.AssignableAgents)
	tickets.Get("/:ticketId", cfg.Tickets.GetTicket)
	tickets.Patch("/:ticketId/info", cfg.Tickets.UpdateInfo)
	tickets.Patch("/:ticketId/status",
		auth.RequireRole(domain.RoleSupportAgent, domain.RoleAdmin), cfg.Tickets.UpdateStatus)
	tickets.Patch("/:ticketId/assign",
		auth.RequireRole(domain.RoleSupportAgent, domain.RoleAdmin), cfg.Tickets.AssignTicket)
	tickets.Delete("/:ticketId", cfg.Tickets.DeleteTicket)
	tickets.Get("/:ticketId/audit-logs", cfg.Tickets.AuditLogs)

	comments := tickets.Group("/:ticketId/comments")
	comments.Post("", cfg.Comments.CreateComment)
	comments.Get("", cfg.Comments.ListComments)
	comments.Get("/:commentId", cfg.Comments.GetComment)
	comments.Patch("/:commentId", cfg.Comments.UpdateComment)
	comments.Delete("/:commentId", cfg.Comments.DeleteComment)
	comments.Get("/:commentId/audit-logs", cfg.Comments.AuditLogs)

	admin := app.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Post("/users", cfg.Admin.CreateStaff)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Get("/users/:userId", cfg.Admin.GetUser)
	admin.Delete("/users/:userId", cfg.Admin.DeleteUser)
	admin.Get("/support-agents", cfg.Admin.SupportAgents)
}
