package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AuditLogRepository is append-only: the core exposes no update or delete
// path. Appends run inside the caller's transaction, so an audit failure
// rolls the business mutation back with it.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *domain.AuditLogEntry) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLogEntry, error)
	ListByComment(ctx context.Context, commentID string) ([]domain.AuditLogEntry, error)
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository instantiates the repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

const auditColumns = "id, ticket_id, comment_id, actor_id, action, old_value, new_value, created_at"

func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditLogEntry) error {
	const query = `
        INSERT INTO audit_logs (ticket_id, comment_id, actor_id, action, old_value, new_value, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		entry.TicketID,
		entry.CommentID,
		entry.ActorID,
		entry.Action,
		entry.OldValue,
		entry.NewValue,
		entry.CreatedAt,
	).Scan(&entry.ID)
}

func (r *auditLogRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.AuditLogEntry, error) {
	return r.list(ctx, `SELECT `+auditColumns+` FROM audit_logs WHERE ticket_id=$1 ORDER BY created_at, id`, ticketID)
}

func (r *auditLogRepository) ListByComment(ctx context.Context, commentID string) ([]domain.AuditLogEntry, error) {
	return r.list(ctx, `SELECT `+auditColumns+` FROM audit_logs WHERE comment_id=$1 ORDER BY created_at, id`, commentID)
}

func (r *auditLogRepository) list(ctx context.Context, query string, arg any) ([]domain.AuditLogEntry, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditLogEntry
	for rows.Next() {
		var entry domain.AuditLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.CommentID,
			&entry.ActorID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
