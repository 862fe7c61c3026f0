package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/application/ports"
	"github.com/GielinorR-S/Enterprise-Client-Portal-Platform/internal/domain"
)

const (
	documentColumns = `id, client_organisation_id, uploaded_by_user_id, file_name, blob_path, content_type, size_bytes, category, version_number, uploaded_at`

	createDocumentSQL = `INSERT INTO documents (` + documentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	getDocumentSQL    = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	listDocumentsSQL  = `SELECT ` + documentColumns + ` FROM documents WHERE client_organisation_id = $1 ORDER BY uploaded_at DESC`
	countDocumentsSQL = `SELECT count(*) FROM documents WHERE uploaded_at >= $2 AND ($1::uuid IS NULL OR client_organisation_id = $1)`
)

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	_, err := conn(ctx, r.pool).Exec(ctx, createDocumentSQL,
		d.ID.UUID, d.ClientOrganisationID.UUID, d.UploadedByUserID.UUID, d.FileName, d.BlobPath,
		d.ContentType, d.SizeBytes, string(d.Category), d.VersionNumber, d.UploadedAt)
	if isUniqueViolation(err) {
		return ports.ErrDuplicateDocumentVersion
	}
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id domain.DocumentID) (*domain.Document, error) {
	d, err := scanDocument(conn(ctx, r.pool).QueryRow(ctx, getDocumentSQL, id.UUID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DocumentRepository) ListByOrganisation(ctx context.Context, orgID domain.ClientOrganisationID) ([]*domain.Document, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, listDocumentsSQL, orgID.UUID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDocument)
}

func (r *DocumentRepository) CountUploadedSince(ctx context.Context, orgID *domain.ClientOrganisationID, since time.Time) (int, error) {
	return count(ctx, conn(ctx, r.pool), countDocumentsSQL, orgParam(orgID), since)
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var (
		d                 domain.Document
		id, org, uploader uuid.UUID
		category          string
	)
	if err := row.Scan(&id, &org, &uploader, &d.FileName, &d.BlobPath, &d.ContentType, &d.SizeBytes, &category, &d.VersionNumber, &d.UploadedAt); err != nil {
		return nil, err
	}
	d.ID = domain.NewDocumentID(id)
	d.ClientOrganisationID = domain.NewClientOrganisationID(org)
	d.UploadedByUserID = domain.NewUserID(uploader)
	d.Category = domain.DocumentCategory(category)
	return &d, nil
}

var _ ports.DocumentRepository = (*DocumentRepository)(nil)
