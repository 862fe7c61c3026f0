package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

const (
	requestColumns = `id, client_organisation_id, created_by_user_id, title, description, status, priority, due_date, created_at, updated_at`

	createRequestSQL = `INSERT INTO requests (` + requestColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	getRequestSQL    = `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	updateStatusSQL  = `UPDATE requests SET status = $2, updated_at = $3 WHERE id = $1`
	touchRequestSQL  = `UPDATE requests SET updated_at = $2 WHERE id = $1`
	countOpenSQL     = `SELECT count(*) FROM requests WHERE status NOT IN ('Resolved', 'Closed') AND ($1::uuid IS NULL OR client_organisation_id = $1)`
	countUpdatedSQL  = `SELECT count(*) FROM requests WHERE updated_at >= $2 AND ($1::uuid IS NULL OR client_organisation_id = $1)`
	commentColumns   = `id, request_id, author_user_id, message, is_internal, created_at`
	createCommentSQL = `INSERT INTO request_comments (` + commentColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	listCommentsSQL  = `SELECT ` + commentColumns + ` FROM request_comments WHERE request_id = $1 ORDER BY created_at`
)

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.Request) error {
	_, err := conn(ctx, r.pool).Exec(ctx, createRequestSQL,
		req.ID.UUID, req.ClientOrganisationID.UUID, req.CreatedByUserID.UUID, req.Title, req.Description,
		string(req.Status), string(req.Priority), req.DueDate, req.CreatedAt, req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id domain.RequestID) (*domain.Request, error) {
	req, err := scanRequest(conn(ctx, r.pool).QueryRow(ctx, getRequestSQL, id.UUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *RequestRepository) List(ctx context.Context, filter ports.RequestFilter) ([]*domain.Request, error) {
	var (
		where []string
		args  []any
	)
	if filter.ClientOrganisationID != nil {
		args = append(args, filter.ClientOrganisationID.UUID)
		where = append(where, fmt.Sprintf("client_organisation_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	sql := `SELECT ` + requestColumns + ` FROM requests`
	if len(where) > 0 {
		sql += ` WHERE ` + strings.Join(where, " AND ")
	}
	sql += ` ORDER BY created_at DESC`
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRequest)
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id domain.RequestID, status domain.RequestStatus, at time.Time) error {
	return r.exec(ctx, updateStatusSQL, id.UUID, string(status), at)
}

func (r *RequestRepository) Touch(ctx context.Context, id domain.RequestID, at time.Time) error {
	return r.exec(ctx, touchRequestSQL, id.UUID, at)
}

func (r *RequestRepository) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

func (r *RequestRepository) CountOpen(ctx context.Context, orgID *domain.ClientOrganisationID) (int, error) {
	return count(ctx, conn(ctx, r.pool), countOpenSQL, orgParam(orgID))
}

func (r *RequestRepository) CountUpdatedSince(ctx context.Context, orgID *domain.ClientOrganisationID, since time.Time) (int, error) {
	return count(ctx, conn(ctx, r.pool), countUpdatedSQL, orgParam(orgID), since)
}

func scanRequest(row pgx.Row) (*domain.Request, error) {
	var (
		req              domain.Request
		id, org, creator uuid.UUID
		status, priority string
	)
	if err := row.Scan(&id, &org, &creator, &req.Title, &req.Description, &status, &priority, &req.DueDate, &req.CreatedAt, &req.UpdatedAt); err != nil {
		return nil, err
	}
	req.ID = domain.NewRequestID(id)
	req.ClientOrganisationID = domain.NewClientOrganisationID(org)
	req.CreatedByUserID = domain.NewUserID(creator)
	req.Status = domain.RequestStatus(status)
	req.Priority = domain.RequestPriority(priority)
	return &req, nil
}

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.RequestComment) error {
	_, err := conn(ctx, r.pool).Exec(ctx, createCommentSQL,
		c.ID.UUID, c.RequestID.UUID, c.AuthorUserID.UUID, c.Message, c.IsInternal, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepository) ListByRequest(ctx context.Context, id domain.RequestID) ([]*domain.RequestComment, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listCommentsSQL, id.UUID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row pgx.Row) (*domain.RequestComment, error) {
		var (
			c                    domain.RequestComment
			cid, reqID, authorID uuid.UUID
		)
		if err := row.Scan(&cid, &reqID, &authorID, &c.Message, &c.IsInternal, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.ID = domain.NewRequestCommentID(cid)
		c.RequestID = domain.NewRequestID(reqID)
		c.AuthorUserID = domain.NewUserID(authorID)
		return &c, nil
	})
}

var (
	_ ports.RequestRepository = (*RequestRepository)(nil)
	_ ports.CommentRepository = (*CommentRepository)(nil)
)
