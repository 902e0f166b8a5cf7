package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

func userResponses(users []domain.User) []dto.UserResponse {
	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, userResponse(&users[i]))
	}
	return result
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           ticket.ID,
		Title:        ticket.Title,
		Description:  ticket.Description,
		Status:       ticket.Status,
		Category:     ticket.Category,
		Priority:     ticket.Priority,
		CreatorID:    ticket.CreatorID,
		AssignedToID: ticket.AssignedToID,
		AssignedByID: ticket.AssignedByID,
		AssignedAt:   ticket.AssignedAt,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	result := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		result = append(result, ticketResponse(&tickets[i]))
	}
	return result
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:        comment.ID,
		TicketID:  comment.TicketID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

func commentResponses(comments []domain.Comment) []dto.CommentResponse {
	result := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		result = append(result, commentResponse(&comments[i]))
	}
	return result
}

func auditResponses(entries []domain.AuditLogEntry) []dto.AuditLogResponse {
	result := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, dto.AuditLogResponse{
			ID:        entry.ID,
			TicketID:  entry.TicketID,
			CommentID: entry.CommentID,
			ActorID:   entry.ActorID,
			Action:    entry.Action,
			OldValue:  entry.OldValue,
			NewValue:  entry.NewValue,
			CreatedAt: entry.CreatedAt,
		})
	}
	return result
}

// pagedResponse renders a page of items together with navigation metadata.
func pagedResponse(key string, items any, total int64, page, size int) fiber.Map {
	if size <= 0 {
		size = 20
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	return fiber.Map{
		key:           items,
		"currentPage": page,
		"totalItems":  total,
		"totalPages":  totalPages,
		"size":        size,
		"hasNext":     page < totalPages,
		"hasPrevious": page > 1,
	}
}
