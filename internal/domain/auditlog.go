package domain

import "time"

// Audit actions recorded for ticket and comment lifecycle changes.
const (
	ActionTicketCreated  = "TICKET_CREATED"
	ActionStatusUpdated  = "STATUS_UPDATED"
	ActionCommentAdded   = "COMMENT_ADDED"
	ActionCommentUpdated = "COMMENT_UPDATED"
)

// AuditLogEntry is an append-only record of a lifecycle change. Entries are
// never updated or deleted by the application.
type AuditLogEntry struct {
	ID        string
	TicketID  *string
	CommentID *string
	ActorID   string
	Action    string
	OldValue  *string
	NewValue  string
	CreatedAt time.Time
}
