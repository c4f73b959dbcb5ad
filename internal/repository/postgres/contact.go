package postgres

import (
	"context"
	"fmt"

	"portfolio-cms/internal/domain/contact"
	apperrors "portfolio-cms/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const submissionColumns = `id, name, email, subject, message, status, visitor_hash, created_at, updated_at`

type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func scanSubmission(row pgx.Row) (*contact.Submission, error) {
	s := &contact.Submission{}
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Subject, &s.Message, &s.Status, &s.VisitorHash, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ContactRepository) Create(ctx context.Context, input contact.CreateSubmissionInput) (*contact.Submission, error) {
	query := `
		INSERT INTO contact_submissions (name, email, subject, message, visitor_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + submissionColumns

	s, err := scanSubmission(r.db.Pool.QueryRow(ctx, query, input.Name, input.Email, input.Subject, input.Message, input.VisitorHash))
	if err != nil {
		return nil, errFailedCreateSubmission(err)
	}
	return s, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*contact.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM contact_submissions WHERE id = $1`

	s, err := scanSubmission(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errSubmissionNotFound)
		}
		return nil, errFailedGetSubmission(err)
	}
	return s, nil
}

func (r *ContactRepository) List(ctx context.Context, filter contact.ListSubmissionsFilter) ([]*contact.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM contact_submissions`
	args := []any{}

	if filter.Status != nil {
		query += " WHERE status = $1"
		args = append(args, *filter.Status)
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limitOrDefault(filter.Limit), filter.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListSubmissions(err)
	}
	defer rows.Close()

	submissions := []*contact.Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, errFailedScanSubmission(err)
		}
		submissions = append(submissions, s)
	}

	return submissions, rows.Err()
}

// UpdateStatus leaves updated_at alone when the status is unchanged, so
// repeating a transition is a no-op.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status contact.Status) (*contact.Submission, error) {
	query := `
		UPDATE contact_submissions
		SET status = $2,
		    updated_at = CASE WHEN status = $2 THEN updated_at ELSE NOW() END
		WHERE id = $1
		RETURNING ` + submissionColumns

	s, err := scanSubmission(r.db.Pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errSubmissionNotFound)
		}
		return nil, errFailedUpdateSubmission(err)
	}
	return s, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteSubmission(err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errSubmissionNotFound)
	}
	return nil
}

// CountByStatus counts submissions in one status.
func (r *ContactRepository) CountByStatus(ctx context.Context, status contact.Status) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM contact_submissions WHERE status = $1`, status).Scan(&n); err != nil {
		return 0, errFailedCountSubmissions(err)
	}
	return n, nil
}
