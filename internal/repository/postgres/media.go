package postgres

import (
	"context"
	"fmt"

	"portfolio-cms/internal/domain/media"
	apperrors "portfolio-cms/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const mediaColumns = `id, object_key, file_name, content_type, size_bytes, alt_text, uploaded_by, created_at`

type MediaRepository struct {
	db *DB
}

func NewMediaRepository(db *DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func scanMedia(row pgx.Row) (*media.Item, error) {
	m := &media.Item{}
	err := row.Scan(&m.ID, &m.ObjectKey, &m.FileName, &m.ContentType, &m.SizeBytes, &m.AltText, &m.UploadedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *MediaRepository) Create(ctx context.Context, input media.CreateItemInput) (*media.Item, error) {
	query := `
		INSERT INTO media_items (id, object_key, file_name, content_type, size_bytes, alt_text, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + mediaColumns

	id := input.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	m, err := scanMedia(r.db.Pool.QueryRow(ctx, query,
		id, input.ObjectKey, input.FileName, input.ContentType, input.SizeBytes, input.AltText, input.UploadedBy,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errMediaExists)
		}
		return nil, errFailedCreateMedia(err)
	}
	return m, nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*media.Item, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_items WHERE id = $1`

	m, err := scanMedia(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errMediaNotFound)
		}
		return nil, errFailedGetMedia(err)
	}
	return m, nil
}

func (r *MediaRepository) List(ctx context.Context, filter media.ListItemsFilter) ([]*media.Item, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_items`
	args := []any{}

	if filter.ContentTypePrefix != "" {
		query += ` WHERE content_type LIKE $1`
		args = append(args, escapeLikePattern(filter.ContentTypePrefix)+"%")
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limitOrDefault(filter.Limit), filter.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListMedia(err)
	}
	defer rows.Close()

	items := []*media.Item{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, errFailedScanMedia(err)
		}
		items = append(items, m)
	}

	return items, rows.Err()
}

func (r *MediaRepository) UpdateAlt(ctx context.Context, id uuid.UUID, alt string) (*media.Item, error) {
	query := `UPDATE media_items SET alt_text = $2 WHERE id = $1 RETURNING ` + mediaColumns

	m, err := scanMedia(r.db.Pool.QueryRow(ctx, query, id, alt))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errMediaNotFound)
		}
		return nil, errFailedUpdateMedia(err)
	}
	return m, nil
}

// Delete removes the row and returns it so the caller can drop the object.
func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) (*media.Item, error) {
	query := `DELETE FROM media_items WHERE id = $1 RETURNING ` + mediaColumns

	m, err := scanMedia(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errMediaNotFound)
		}
		return nil, errFailedDeleteMedia(err)
	}
	return m, nil
}
