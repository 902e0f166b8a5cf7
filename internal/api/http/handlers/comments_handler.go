package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CommentsHandler manages the comment thread endpoints nested under tickets.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// CreateComment POST /tickets/:ticketId/comments.
func (h *CommentsHandler) CreateComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Content) == "" {
		return apperrors.NewValidationError("content required", nil)
	}

	comment, err := h.comments.Create(c.Context(), c.Params("ticketId"), principal.User.ID, principal.Role(), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ListComments GET /tickets/:ticketId/comments.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	comments, err := h.comments.ListForTicket(c.Context(), c.Params("ticketId"), principal.User.ID, principal.Role())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponses(comments)})
}

// GetComment GET /tickets/:ticketId/comments/:commentId.
func (h *CommentsHandler) GetComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	comment, err := h.comments.Get(c.Context(), c.Params("commentId"), c.Params("ticketId"), principal.User.ID, principal.Role())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponse(comment)})
}

// UpdateComment PATCH /tickets/:ticketId/comments/:commentId.
func (h *CommentsHandler) UpdateComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.comments.Update(c.Context(), c.Params("commentId"), c.Params("ticketId"), principal.User.ID, principal.Role(), service.CommentPatch{
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": commentResponse(comment)})
}

// DeleteComment DELETE /tickets/:ticketId/comments/:commentId.
func (h *CommentsHandler) DeleteComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.comments.Remove(c.Context(), c.Params("commentId"), c.Params("ticketId"), principal.User.ID, principal.Role()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AuditLogs GET /tickets/:ticketId/comments/:commentId/audit-logs.
func (h *CommentsHandler) AuditLogs(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.comments.AuditLogs(c.Context(), c.Params("commentId"), c.Params("ticketId"), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": auditResponses(entries)})
}
