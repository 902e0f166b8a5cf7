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

// TicketService owns the ticket lifecycle: creation, info and status updates,
// assignment and removal. Every state-changing operation and its audit entry
// run in one transaction; either both are durable or neither is.
type TicketService struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	users    repository.UserRepository
	audit    repository.AuditLogRepository
	txm      repository.TxManager
	disp     events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	AuditRepo   repository.AuditLogRepository
	TxManager   repository.TxManager
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:  deps.TicketRepo,
		comments: deps.CommentRepo,
		users:    deps.UserRepo,
		audit:    deps.AuditRepo,
		txm:      deps.TxManager,
		disp:     deps.Dispatcher,
	}
}

// TicketCreateInput describes the ticket creation payload. Status is not
// part of it: new tickets always start as NEW.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
}

// TicketInfoPatch carries partial info updates; nil fields are no-ops, not
// resets.
type TicketInfoPatch struct {
	Title       *string
	Description *string
	Category    *domain.TicketCategory
	Priority    *domain.TicketPriority
}

// TicketListFilter describes the paginated role-scoped listing.
type TicketListFilter struct {
	SearchTerm *string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	SortBy     string
	SortDesc   bool
	Limit      int
	Offset     int
}

// Create validates the actor, forces the initial status to NEW and records
// TICKET_CREATED. The creator is always the actor, regardless of payload.
func (s *TicketService) Create(ctx context.Context, actorID string, role domain.UserRole, input TicketCreateInput) (*domain.Ticket, error) {
	if !role.Valid() {
		return nil, apperrors.NewInvalidRole(string(role))
	}
	if !policy.CanCreateTicket(role) {
		return nil, apperrors.NewForbidden("role may not create tickets")
	}
	exists, err := s.users.ExistsByID(ctx, actorID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !exists {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": actorID})
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusNew,
		Category:    input.Category,
		Priority:    input.Priority,
		CreatorID:   actorID,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Category == "" {
		ticket.Category = domain.CategoryOther
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Create(ctx, ticket); err != nil {
			return err
		}
		return s.audit.Append(ctx, &domain.AuditLogEntry{
			TicketID:  &ticket.ID,
			ActorID:   actorID,
			Action:    domain.ActionTicketCreated,
			OldValue:  nil,
			NewValue:  string(ticket.Status),
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actorID, Role: role},
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// Get retrieves a ticket within the actor's read scope. Out-of-scope access
// is indistinguishable from absence.
func (s *TicketService) Get(ctx context.Context, ticketID, actorID string, role domain.UserRole) (*domain.Ticket, error) {
	return s.resolveScoped(ctx, ticketID, actorID, policy.ReadScope(role), role)
}

// List returns tickets within the actor's read scope with search filters and
// pagination.
func (s *TicketService) List(ctx context.Context, actorID string, role domain.UserRole, filter TicketListFilter) ([]domain.Ticket, int64, error) {
	repoFilter := repository.TicketFilter{
		SearchTerm: filter.SearchTerm,
		Status:     filter.Status,
		Priority:   filter.Priority,
		SortBy:     filter.SortBy,
		SortDesc:   filter.SortDesc,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}

	switch policy.ReadScope(role) {
	case policy.ScopeOwn:
		repoFilter.CreatorID = &actorID
	case policy.ScopeAssigned:
		repoFilter.AssignedToID = &actorID
	case policy.ScopeAll:
	default:
		return nil, 0, apperrors.NewInvalidRole(string(role))
	}

	tickets, total, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return tickets, total, nil
}

// ListUnassigned returns tickets without an assignee.
func (s *TicketService) ListUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListUnassigned(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// UpdateInfo applies a partial info patch within the actor's content scope.
// Info edits are content changes, not state changes, and emit no audit entry.
func (s *TicketService) UpdateInfo(ctx context.Context, ticketID, actorID string, role domain.UserRole, patch TicketInfoPatch) (*domain.Ticket, error) {
	if err := s.requireActor(ctx, actorID); err != nil {
		return nil, err
	}
	ticket, err := s.resolveScoped(ctx, ticketID, actorID, policy.ContentScope(role), role)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		ticket.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		ticket.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Category != nil {
		ticket.Category = *patch.Category
	}
	if patch.Priority != nil {
		ticket.Priority = *patch.Priority
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// UpdateStatus sets a new status and records STATUS_UPDATED, but only when
// the status actually changed; idempotent updates leave no audit noise.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID, actorID string, role domain.UserRole, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !role.Valid() {
		return nil, apperrors.NewInvalidRole(string(role))
	}
	if !policy.CanUpdateStatus(role) {
		return nil, apperrors.NewForbidden("role may not update ticket status")
	}
	if err := s.requireActor(ctx, actorID); err != nil {
		return nil, err
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return err
		}
		if oldStatus == newStatus {
			return nil
		}
		old := string(oldStatus)
		return s.audit.Append(ctx, &domain.AuditLogEntry{
			TicketID:  &ticket.ID,
			ActorID:   actorID,
			Action:    domain.ActionStatusUpdated,
			OldValue:  &old,
			NewValue:  string(newStatus),
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if oldStatus != newStatus {
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Actor:    events.Actor{UserID: actorID, Role: role},
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: newStatus,
			},
		})
	}
	return ticket, nil
}

// Assign sets assignee, assigner and assignment time. Admins may assign any
// ticket; a support agent only one currently assigned to themselves.
// Assignment emits no audit entry.
func (s *TicketService) Assign(ctx context.Context, ticketID, assignedToID, actorID string, role domain.UserRole) (*domain.Ticket, error) {
	if !role.Valid() {
		return nil, apperrors.NewInvalidRole(string(role))
	}
	if !policy.CanAssign(role) {
		return nil, apperrors.NewForbidden("role may not assign tickets")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	if !policy.CanReassign(role, actorID, ticket) {
		return nil, apperrors.NewForbidden("support agents may reassign only their own tickets")
	}

	assignee, err := s.users.GetByID(ctx, assignedToID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assignedToID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.requireActor(ctx, actorID); err != nil {
		return nil, err
	}

	now := time.Now()
	ticket.AssignedToID = &assignee.ID
	ticket.AssignedByID = &actorID
	ticket.AssignedAt = &now

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    events.Actor{UserID: actorID, Role: role},
		Payload: events.TicketAssignedPayload{
			AssignedToID: assignee.ID,
			AssignedByID: actorID,
		},
	})
	return ticket, nil
}

// Remove deletes a ticket and cascades to its comments atomically. Users may
// remove only their own tickets, admins any; support agents are always
// denied.
func (s *TicketService) Remove(ctx context.Context, ticketID, actorID string, role domain.UserRole) error {
	if !role.Valid() {
		return apperrors.NewInvalidRole(string(role))
	}
	scope := policy.DeleteScope(role)
	if scope == policy.ScopeNone {
		return apperrors.NewForbidden("role may not delete tickets")
	}
	if err := s.requireActor(ctx, actorID); err != nil {
		return err
	}
	ticket, err := s.resolveScoped(ctx, ticketID, actorID, scope, role)
	if err != nil {
		return err
	}

	err = s.txm.WithinTx(ctx, func(ctx context.Context) error {
		return s.tickets.DeleteCascade(ctx, ticket.ID)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// AuditLogs returns the ticket's audit trail in insertion order. Only the
// ticket's creator may read it.
func (s *TicketService) AuditLogs(ctx context.Context, ticketID, actorID string) ([]domain.AuditLogEntry, error) {
	ticket, err := s.tickets.GetByIDAndCreator(ctx, ticketID, actorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	entries, err := s.audit.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// resolveScoped fetches the ticket through the scope's query, collapsing
// scope violations into NotFound so callers cannot probe for existence.
func (s *TicketService) resolveScoped(ctx context.Context, ticketID, actorID string, scope policy.Scope, role domain.UserRole) (*domain.Ticket, error) {
	var (
		ticket *domain.Ticket
		err    error
	)
	switch scope {
	case policy.ScopeOwn:
		ticket, err = s.tickets.GetByIDAndCreator(ctx, ticketID, actorID)
	case policy.ScopeAssigned:
		ticket, err = s.tickets.GetByID(ctx, ticketID)
		if err == nil && (ticket.AssignedToID == nil || *ticket.AssignedToID != actorID) {
			err = pgx.ErrNoRows
		}
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

func (s *TicketService) requireActor(ctx context.Context, actorID string) error {
	exists, err := s.users.ExistsByID(ctx, actorID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !exists {
		return apperrors.NewNotFound("user", map[string]any{"user_id": actorID})
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
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
