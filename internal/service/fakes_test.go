package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// In-memory repository fakes backing the service tests. They mirror the
// Postgres implementations' contract, including pgx.ErrNoRows on absence.

type fakeTxManager struct {
	fail error
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.fail != nil {
		return m.fail
	}
	return fn(ctx)
}

type fakeUserRepo struct {
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) add(user *domain.User) *domain.User {
	if user.ID == "" {
		r.seq++
		user.ID = fmt.Sprintf("user-%d", r.seq)
	}
	copied := *user
	r.users[copied.ID] = &copied
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.add(user)
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) ListByRoles(ctx context.Context, roles []domain.UserRole) ([]domain.User, error) {
	allowed := map[domain.UserRole]bool{}
	for _, role := range roles {
		allowed[role] = true
	}
	var result []domain.User
	for _, user := range r.users {
		if allowed[user.Role] {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (r *fakeUserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var result []domain.User
	for _, user := range r.users {
		result = append(result, *user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, total, nil
}

type fakeTicketRepo struct {
	seq      int
	tickets  map[string]*domain.Ticket
	comments *fakeCommentRepo
}

func newFakeTicketRepo(comments *fakeCommentRepo) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}, comments: comments}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.Ticket) error {
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	creator := stored.CreatorID
	copied := *ticket
	copied.CreatorID = creator
	copied.UpdatedAt = time.Now()
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByIDAndCreator(ctx context.Context, id, creatorID string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok || ticket.CreatorID != creatorID {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListByCreator(ctx context.Context, creatorID string) ([]domain.Ticket, error) {
	return r.filter(func(t *domain.Ticket) bool { return t.CreatorID == creatorID }), nil
}

func (r *fakeTicketRepo) ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Ticket, error) {
	return r.filter(func(t *domain.Ticket) bool {
		return t.AssignedToID != nil && *t.AssignedToID == assigneeID
	}), nil
}

func (r *fakeTicketRepo) ListUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	return r.filter(func(t *domain.Ticket) bool { return t.AssignedToID == nil }), nil
}

func (r *fakeTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.filter(func(t *domain.Ticket) bool { return true }), nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int64, error) {
	matched := r.filter(func(t *domain.Ticket) bool {
		if filter.CreatorID != nil && t.CreatorID != *filter.CreatorID {
			return false
		}
		if filter.AssignedToID != nil && (t.AssignedToID == nil || *t.AssignedToID != *filter.AssignedToID) {
			return false
		}
		if filter.Unassigned && t.AssignedToID != nil {
			return false
		}
		if filter.Status != nil && t.Status != *filter.Status {
			return false
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			return false
		}
		if filter.SearchTerm != nil {
			term := strings.ToLower(*filter.SearchTerm)
			if !strings.Contains(strings.ToLower(t.Title), term) &&
				!strings.Contains(strings.ToLower(t.Description), term) {
				return false
			}
		}
		return true
	})

	total := int64(len(matched))
	offset := filter.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeTicketRepo) DeleteCascade(ctx context.Context, id string) error {
	if _, ok := r.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	if r.comments != nil {
		for commentID, comment := range r.comments.comments {
			if comment.TicketID == id {
				delete(r.comments.comments, commentID)
			}
		}
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) filter(keep func(*domain.Ticket) bool) []domain.Ticket {
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if keep(ticket) {
			result = append(result, *ticket)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type fakeCommentRepo struct {
	seq      int
	comments map[string]*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*domain.Comment{}}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *domain.Comment) error {
	stored, ok := r.comments[comment.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Content = comment.Content
	stored.CreatedAt = comment.CreatedAt
	return nil
}

func (r *fakeCommentRepo) GetByIDAndTicket(ctx context.Context, id, ticketID string) (*domain.Comment, error) {
	comment, ok := r.comments[id]
	if !ok || comment.TicketID != ticketID {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) GetByIDAndTicketAndAuthor(ctx context.Context, id, ticketID, authorID string) (*domain.Comment, error) {
	comment, err := r.GetByIDAndTicket(ctx, id, ticketID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != authorID {
		return nil, pgx.ErrNoRows
	}
	return comment, nil
}

func (r *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, *comment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.comments, id)
	return nil
}

type fakeAuditRepo struct {
	seq     int
	entries []domain.AuditLogEntry
	fail    error
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{}
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	if r.fail != nil {
		return r.fail
	}
	r.seq++
	entry.ID = fmt.Sprintf("audit-%d", r.seq)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLogEntry, error) {
	var result []domain.AuditLogEntry
	for _, entry := range r.entries {
		if entry.TicketID != nil && *entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeAuditRepo) ListByComment(ctx context.Context, commentID string) ([]domain.AuditLogEntry, error) {
	var result []domain.AuditLogEntry
	for _, entry := range r.entries {
		if entry.CommentID != nil && *entry.CommentID == commentID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeAuditRepo) byAction(action string) []domain.AuditLogEntry {
	var result []domain.AuditLogEntry
	for _, entry := range r.entries {
		if entry.Action == action {
			result = append(result, entry)
		}
	}
	return result
}

type fakeOTPStore struct {
	codes map[string]string
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: map[string]string{}}
}

func (s *fakeOTPStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	s.codes[email] = code
	return nil
}

func (s *fakeOTPStore) Get(ctx context.Context, email string) (string, error) {
	code, ok := s.codes[email]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return code, nil
}

func (s *fakeOTPStore) Delete(ctx context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

type fakeMailer struct {
	otps     []string
	welcomes []string
}

func (m *fakeMailer) SendOTP(ctx context.Context, to, code string) error {
	m.otps = append(m.otps, to+":"+code)
	return nil
}

func (m *fakeMailer) SendWelcome(ctx context.Context, to string) error {
	m.welcomes = append(m.welcomes, to)
	return nil
}
