package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketInfoRequest payload; nil fields are left unchanged.
type UpdateTicketInfoRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Category    *domain.TicketCategory `json:"category"`
	Priority    *domain.TicketPriority `json:"priority"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedToID string `json:"assigned_to_id"`
}

// TicketResponse full ticket view.
type TicketResponse struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Status       domain.TicketStatus   `json:"status"`
	Category     domain.TicketCategory `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	CreatorID    string                `json:"creator_id"`
	AssignedToID *string               `json:"assigned_to_id"`
	AssignedByID *string               `json:"assigned_by_id"`
	AssignedAt   *time.Time            `json:"assigned_at"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// AuditLogResponse one audit trail entry.
type AuditLogResponse struct {
	ID        string    `json:"id"`
	TicketID  *string   `json:"ticket_id"`
	CommentID *string   `json:"comment_id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	OldValue  *string   `json:"old_value"`
	NewValue  string    `json:"new_value"`
	CreatedAt time.Time `json:"created_at"`
}
