package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	users   *service.UserService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, users *service.UserService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, users: users}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title, description required", nil)
	}

	ticket, err := h.tickets.Create(c.Context(), principal.User.ID, principal.Role(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	filter, page, size := parseTicketQuery(c)
	tickets, total, err := h.tickets.List(c.Context(), principal.User.ID, principal.Role(), filter)
	if err != nil {
		return err
	}
	return c.JSON(pagedResponse("tickets", ticketResponses(tickets), total, page, size))
}

// ListUnassigned GET /tickets/unassigned.
func (h *TicketsHandler) ListUnassigned(c *fiber.Ctx) error {
	tickets, err := h.tickets.ListUnassigned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// GetTicket GET /tickets/:ticketId.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.tickets.Get(c.Context(), c.Params("ticketId"), principal.User.ID, principal.Role())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateInfo PATCH /tickets/:ticketId/info.
func (h *TicketsHandler) UpdateInfo(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateInfo(c.Context(), c.Params("ticketId"), principal.User.ID, principal.Role(), service.TicketInfoPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateStatus PATCH /tickets/:ticketId/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !validStatus(req.Status) {
		return apperrors.NewValidationError("unknown status", map[string]any{"status": string(req.Status)})
	}

	ticket, err := h.tickets.UpdateStatus(c.Context(), c.Params("ticketId"), principal.User.ID, principal.Role(), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AssignTicket PATCH /tickets/:ticketId/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.AssignedToID) == "" {
		return apperrors.NewValidationError("assigned_to_id required", nil)
	}

	ticket, err := h.tickets.Assign(c.Context(), c.Params("ticketId"), req.AssignedToID, principal.User.ID, principal.Role())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// DeleteTicket DELETE /tickets/:ticketId.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.tickets.Remove(c.Context(), c.Params("ticketId"), principal.User.ID, principal.Role()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AuditLogs GET /tickets/:ticketId/audit-logs.
func (h *TicketsHandler) AuditLogs(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.tickets.AuditLogs(c.Context(), c.Params("ticketId"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auditResponses(entries)})
}

// AssignableAgents GET /tickets/assignable-agents.
func (h *TicketsHandler) AssignableAgents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	agents, err := h.users.AssignableAgents(c.Context(), principal.User.ID, principal.Role())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(agents)})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketListFilter, int, int) {
	filter := service.TicketListFilter{}

	if term := strings.TrimSpace(c.Query("search")); term != "" {
		filter.SearchTerm = &term
	}
	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		if validStatus(status) {
			filter.Status = &status
		}
	}
	if priorityStr := strings.TrimSpace(c.Query("priority")); priorityStr != "" {
		priority := domain.TicketPriority(priorityStr)
		filter.Priority = &priority
	}
	filter.SortBy = c.Query("sort_by", "created_at")
	filter.SortDesc = strings.EqualFold(c.Query("order", "desc"), "desc")

	page := parsePositiveInt(c.Query("page"), 1)
	size := parsePositiveInt(c.Query("size"), 20)
	filter.Limit = size
	filter.Offset = (page - 1) * size
	return filter, page, size
}

func parsePositiveInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func validStatus(status domain.TicketStatus) bool {
	switch status {
	case domain.TicketStatusNew, domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed:
		return true
	}
	return false
}
