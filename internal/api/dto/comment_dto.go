package dto

import "time"

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// UpdateCommentRequest payload; a nil content changes nothing.
type UpdateCommentRequest struct {
	Content *string `json:"content"`
}

// CommentResponse response.
type CommentResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
