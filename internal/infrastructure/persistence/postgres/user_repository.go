package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

const (
	userColumns = `id, email, password_hash, display_name, role, client_organisation_id, is_active, created_at, updated_at`

	createUserSQL     = `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	getUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	updateUserSQL     = `UPDATE users SET display_name = $2, role = $3, client_organisation_id = $4, is_active = $5, updated_at = $6 WHERE id = $1`
	updatePasswordSQL = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	listInternalSQL   = `SELECT ` + userColumns + ` FROM users WHERE is_active AND role IN ('Admin', 'Staff') ORDER BY created_at`
	listByOrgSQL      = `SELECT ` + userColumns + ` FROM users WHERE is_active AND client_organisation_id = $1 ORDER BY created_at`
	countUsersSQL     = `SELECT count(*) FROM users`
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create relies on the unique index on lower(email) so concurrent registrations cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := conn(ctx, r.pool).Exec(ctx, createUserSQL,
		u.ID.UUID, domain.NormalizeEmail(u.Email), u.PasswordHash, u.DisplayName, string(u.Role),
		orgParam(u.ClientOrganisationID), u.IsActive, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return domerrors.ErrEmailAlreadyRegistered
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, getUserByEmailSQL, domain.NormalizeEmail(email))
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return r.getOne(ctx, getUserByIDSQL, id.UUID)
}

func (r *UserRepository) getOne(ctx context.Context, sql string, arg any) (*domain.User, error) {
	u, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, updateUserSQL,
		u.ID.UUID, u.DisplayName, string(u.Role), orgParam(u.ClientOrganisationID), u.IsActive, u.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error {
	_, err := conn(ctx, r.pool).Exec(ctx, updatePasswordSQL, id.UUID, passwordHash)
	return err
}

func (r *UserRepository) ListActiveInternal(ctx context.Context) ([]*domain.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listInternalSQL)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func (r *UserRepository) ListActiveByOrganisation(ctx context.Context, orgID domain.ClientOrganisationID) ([]*domain.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listByOrgSQL, orgID.UUID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	return count(ctx, conn(ctx, r.pool), countUsersSQL)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		id   uuid.UUID
		role string
		org  *uuid.UUID
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.DisplayName, &role, &org, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = domain.NewUserID(id)
	u.Role = domain.Role(role)
	if org != nil {
		u.ClientOrganisationID = domain.NewClientOrganisationID(*org).Ptr()
	}
	return &u, nil
}

func orgParam(id *domain.ClientOrganisationID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := id.UUID
	return &v
}

var _ ports.UserRepository = (*UserRepository)(nil)
