package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CommentRepository encapsulates comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	Update(ctx context.Context, comment *domain.Comment) error
	GetByIDAndTicket(ctx context.Context, id, ticketID string) (*domain.Comment, error)
	GetByIDAndTicketAndAuthor(ctx context.Context, id, ticketID, authorID string) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository instantiates the repository.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

const commentColumns = "id, ticket_id, author_id, content, created_at"

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, author_id, content, created_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return querier(ctx, r.pool).QueryRow(ctx, query,
		comment.TicketID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
	).Scan(&comment.ID)
}

// Update never touches ticket_id or author_id; both links are immutable.
func (r *commentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	const query = `UPDATE comments SET content=$1, created_at=$2 WHERE id=$3`
	cmd, err := querier(ctx, r.pool).Exec(ctx, query,
		comment.Content,
		comment.CreatedAt,
		comment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *commentRepository) GetByIDAndTicket(ctx context.Context, id, ticketID string) (*domain.Comment, error) {
	return r.fetchSingle(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id=$1 AND ticket_id=$2`, id, ticketID)
}

func (r *commentRepository) GetByIDAndTicketAndAuthor(ctx context.Context, id, ticketID, authorID string) (*domain.Comment, error) {
	return r.fetchSingle(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id=$1 AND ticket_id=$2 AND author_id=$3`,
		id, ticketID, authorID)
}

func (r *commentRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Comment, error) {
	var comment domain.Comment
	if err := querier(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.AuthorID,
		&comment.Content,
		&comment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	rows, err := querier(ctx, r.pool).Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE ticket_id=$1 ORDER BY created_at`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.AuthorID,
			&comment.Content,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, comment)
	}
	return result, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := querier(ctx, r.pool).Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
