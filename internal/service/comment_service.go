package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/policy"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// CommentService manages the discussion thread attached to a ticket.
// Comments are reachable only through their parent ticket, which keeps every
// operation inside the actor's ticket scope.
type CommentService struct {
	comments repository.CommentRepository
	tickets  repository.TicketRepository
	users    repository.UserRepository
	audit    repository.AuditLogRepository
	txm      repository.TxManager
	disp     events.Dispatcher
}

// CommentDependencies bundles collaborators for the comment service.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	AuditRepo   repository.AuditLogRepository
	TxManager   repository.TxManager
	Dispatcher  events.Dispatcher
}

// NewCommentService constructs the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments: deps.CommentRepo,
		tickets:  deps.TicketRepo,
		users:    deps.UserRepo,
		audit:    deps.AuditRepo,
		txm:      deps.TxManager,
		disp:     deps.Dispatcher,
	}
}

// CommentPatch carries a partial comment update; a nil Content leaves the
// comment untouched.
type CommentPatch struct {
	Content *string
}

// Create appends a comment to a ticket within the actor's content scope and
// records COMMENT_ADDED unconditionally.
func (s *CommentService) Create(ctx context.Context, ticketID, actorID string, role domain.UserRole, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content must not be empty", nil)
	}
	if err := s.requireActor(ctx, actorID); err != nil {
		return nil, err
	}
	ticket, err := s.resolveTicket(ctx, ticketID, actorID, role)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TicketID:  ticket.ID,
		AuthorID:  actorID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.comments.Create(ctx, comment); err != nil {
			return err
		}
		return s.audit.Append(ctx, &domain.AuditLogEntry{
			TicketID:  &ticket.ID,
			CommentID: &comment.ID,
			ActorID:   actorID,
			Action:    domain.ActionCommentAdded,
			NewValue:  comment.Content,
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actorID, Role: role},
		Payload: events.CommentAddedPayload{
			CommentID: comment.ID,
			Preview:   preview(comment.Content),
		},
	})
	return comment, nil
}

// Update patches a comment the actor authored. A content patch refreshes the
// comment's timestamp and records COMMENT_UPDATED with the previous content;
// an empty patch changes and records nothing.
func (s *CommentService) Update(ctx context.Context, commentID, ticketID, actorID string, role domain.UserRole, patch CommentPatch) (*domain.Comment, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.resolveTicket(ctx, ticketID, actorID, role); err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByIDAndTicketAndAuthor(ctx, commentID, ticketID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}

	original := comment.Content
	if patch.Content != nil {
		comment.Content = *patch.Content
	}

	if patch.Content != nil && *patch.Content == comment.Content {
		comment.CreatedAt = time.Now()
		err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
			if err := s.comments.Update(ctx, comment); err != nil {
				return err
			}
			return s.audit.Append(ctx, &domain.AuditLogEntry{
				TicketID:  &comment.TicketID,
				CommentID: &comment.ID,
				ActorID:   actorID,
				Action:    domain.ActionCommentUpdated,
				OldValue:  &original,
				NewValue:  comment.Content,
				CreatedAt: time.Now(),
			})
		})
		if err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return comment, nil
}

// Get retrieves a single comment through its parent ticket.
func (s *CommentService) Get(ctx context.Context, commentID, ticketID, actorID string, role domain.UserRole) (*domain.Comment, error) {
	if _, err := s.resolveTicket(ctx, ticketID, actorID, role); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByIDAndTicket(ctx, commentID, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	return comment, nil
}

// ListForTicket returns a ticket's comments oldest-first.
func (s *CommentService) ListForTicket(ctx context.Context, ticketID, actorID string, role domain.UserRole) ([]domain.Comment, error) {
	if _, err := s.resolveTicket(ctx, ticketID, actorID, role); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// Remove deletes a comment. Authors may delete their own comments, admins
// any comment on a ticket.
func (s *CommentService) Remove(ctx context.Context, commentID, ticketID, actorID string, role domain.UserRole) error {
	if !role.Valid() {
		return apperrors.NewInvalidRole(string(role))
	}
	if _, err := s.resolveTicket(ctx, ticketID, actorID, role); err != nil {
		return err
	}

	var (
		comment *domain.Comment
		err     error
	)
	if role == domain.RoleAdmin {
		comment, err = s.comments.GetByIDAndTicket(ctx, commentID, ticketID)
	} else {
		comment, err = s.comments.GetByIDAndTicketAndAuthor(ctx, commentID, ticketID, actorID)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return apperrors.MapError(err)
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// AuditLogs returns the audit trail of a single comment. Only the comment's
// author may read it.
func (s *CommentService) AuditLogs(ctx context.Context, commentID, ticketID, actorID string) ([]domain.AuditLogEntry, error) {
	comment, err := s.comments.GetByIDAndTicketAndAuthor(ctx, commentID, ticketID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("comment", map[string]any{"comment_id": commentID})
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.audit.ListByComment(ctx, comment.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// resolveTicket applies the actor's content scope to the parent ticket.
// Comment access, reads included, follows content scope: users reach their
// own tickets, staff reach any ticket.
func (s *CommentService) resolveTicket(ctx context.Context, ticketID, actorID string, role domain.UserRole) (*domain.Ticket, error) {
	var (
		ticket *domain.Ticket
		err    error
	)
	switch policy.ContentScope(role) {
	case policy.ScopeOwn:
		ticket, err = s.tickets.GetByIDAndCreator(ctx, ticketID, actorID)
	case policy.ScopeAll:
		ticket, err = s.tickets.GetByID(ctx, ticketID)
	default:
		return nil, apperrors.NewInvalidRole(string(role))
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *CommentService) requireActor(ctx context.Context, actorID string) error {
	exists, err := s.users.ExistsByID(ctx, actorID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !exists {
		return apperrors.NewNotFound("user", map[string]any{"user_id": actorID})
	}
	return nil
}

func (s *CommentService) publish(ctx context.Context, event events.Event) {
	if s.disp == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.disp.Publish(ctx, event)
}

func preview(content string) string {
	const max = 80
	if len(content) <= max {
		return content
	}
	return content[:max]
}
