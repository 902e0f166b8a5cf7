package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AdminHandler covers administrator-only account management endpoints.
type AdminHandler struct {
	users *service.UserService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// CreateStaff POST /admin/users.
func (h *AdminHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || req.Role == "" {
		return apperrors.NewValidationError("email, password, role required", nil)
	}

	user, err := h.users.CreateStaff(c.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := parsePositiveInt(c.Query("page"), 1)
	size := parsePositiveInt(c.Query("size"), 20)

	users, total, err := h.users.List(c.Context(), size, (page-1)*size)
	if err != nil {
		return err
	}
	return c.JSON(pagedResponse("users", userResponses(users), total, page, size))
}

// GetUser GET /admin/users/:userId.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.users.Get(c.Context(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser DELETE /admin/users/:userId.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Remove(c.Context(), c.Params("userId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SupportAgents GET /admin/support-agents.
func (h *AdminHandler) SupportAgents(c *fiber.Ctx) error {
	agents, err := h.users.SupportAgents(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(agents)})
}
