package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
	domerrors "github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain/errors"
)

const (
	orgColumns = `id, name, primary_contact_id, address, timezone, is_active, created_at, updated_at`

	createOrgSQL = `INSERT INTO client_organisations (` + orgColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	getOrgSQL    = `SELECT ` + orgColumns + ` FROM client_organisations WHERE id = $1`
	listOrgsSQL  = `SELECT ` + orgColumns + ` FROM client_organisations WHERE is_active OR $1 ORDER BY name`
	updateOrgSQL = `UPDATE client_organisations SET name = $2, primary_contact_id = $3, address = $4, timezone = $5, is_active = $6, updated_at = $7 WHERE id = $1`
)

type OrganisationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganisationRepository(pool *pgxpool.Pool) *OrganisationRepository {
	return &OrganisationRepository{pool: pool}
}

func (r *OrganisationRepository) Create(ctx context.Context, o *domain.ClientOrganisation) error {
	_, err := conn(ctx, r.pool).Exec(ctx, createOrgSQL,
		o.ID.UUID, o.Name, userParam(o.PrimaryContactID), o.Address, o.Timezone, o.IsActive, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *OrganisationRepository) GetByID(ctx context.Context, id domain.ClientOrganisationID) (*domain.ClientOrganisation, error) {
	o, err := scanOrg(conn(ctx, r.pool).QueryRow(ctx, getOrgSQL, id.UUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrganisationRepository) List(ctx context.Context, includeInactive bool) ([]*domain.ClientOrganisation, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listOrgsSQL, includeInactive)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrg)
}

func (r *OrganisationRepository) Update(ctx context.Context, o *domain.ClientOrganisation) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, updateOrgSQL,
		o.ID.UUID, o.Name, userParam(o.PrimaryContactID), o.Address, o.Timezone, o.IsActive, o.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domerrors.ErrNotFound
	}
	return nil
}

func scanOrg(row pgx.Row) (*domain.ClientOrganisation, error) {
	var (
		o       domain.ClientOrganisation
		id      uuid.UUID
		contact *uuid.UUID
	)
	if err := row.Scan(&id, &o.Name, &contact, &o.Address, &o.Timezone, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.ID = domain.NewClientOrganisationID(id)
	if contact != nil {
		c := domain.NewUserID(*contact)
		o.PrimaryContactID = &c
	}
	return &o, nil
}

func userParam(id *domain.UserID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := id.UUID
	return &v
}

var _ ports.OrganisationRepository = (*OrganisationRepository)(nil)
