package postgres

import (
	"context"
	"fmt"

	"portfolio-cms/internal/domain/post"
	apperrors "portfolio-cms/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const postColumns = `id, slug, title, excerpt, content, tags, cover_image_url, status,
	published_at, reading_minutes, author_email, created_at, updated_at`

type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (*post.Post, error) {
	p := &post.Post{}
	err := row.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Tags, &p.CoverImageURL, &p.Status,
		&p.PublishedAt, &p.ReadingMinutes, &p.AuthorEmail, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, input post.CreatePostInput) (*post.Post, error) {
	query := `
		INSERT INTO posts (slug, title, excerpt, content, tags, cover_image_url, reading_minutes, author_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + postColumns

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query,
		input.Slug, input.Title, input.Excerpt, input.Content, tags,
		input.CoverImageURL, input.ReadingMinutes, input.AuthorEmail,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errPostSlugTaken)
		}
		return nil, errFailedCreatePost(err)
	}

	return p, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		return nil, errFailedGetPost(err)
	}

	return p, nil
}

// GetPublishedBySlug hides drafts behind NotFound.
func (r *PostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1 AND status = $2`

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, slug, post.StatusPublished))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		return nil, errFailedGetPost(err)
	}

	return p, nil
}

func (r *PostRepository) List(ctx context.Context, filter post.ListPostsFilter) ([]*post.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE 1=1`
	args := []any{}
	argCount := 0

	if filter.Status != nil {
		argCount++
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
	}

	if filter.Tag != "" {
		argCount++
		query += fmt.Sprintf(" AND $%d = ANY(tags)", argCount)
		args = append(args, filter.Tag)
	}

	query += " ORDER BY COALESCE(published_at, created_at) DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	args = append(args, limitOrDefault(filter.Limit), filter.Offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListPosts(err)
	}
	defer rows.Close()

	posts := []*post.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, errFailedScanPost(err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

func (r *PostRepository) Update(ctx context.Context, id uuid.UUID, input post.UpdatePostInput) (*post.Post, error) {
	query := "UPDATE posts SET updated_at = NOW()"
	args := []any{id}
	argCount := 1

	set := func(column string, value any) {
		argCount++
		query += fmt.Sprintf(", %s = $%d", column, argCount)
		args = append(args, value)
	}

	if input.Slug != nil {
		set("slug", *input.Slug)
	}
	if input.Title != nil {
		set("title", *input.Title)
	}
	if input.Excerpt != nil {
		set("excerpt", *input.Excerpt)
	}
	if input.Content != nil {
		set("content", *input.Content)
	}
	if input.Tags != nil {
		tags := *input.Tags
		if tags == nil {
			tags = []string{}
		}
		set("tags", tags)
	}
	if input.CoverImageURL != nil {
		set("cover_image_url", *input.CoverImageURL)
	}
	if input.ReadingMinutes != nil {
		set("reading_minutes", *input.ReadingMinutes)
	}

	query += " WHERE id = $1 RETURNING " + postColumns

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errPostSlugTaken)
		}
		return nil, errFailedUpdatePost(err)
	}

	return p, nil
}

// Publish keeps the first publication time across unpublish cycles.
func (r *PostRepository) Publish(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query := `
		UPDATE posts
		SET status = $2, published_at = COALESCE(published_at, NOW()), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	return r.setStatus(ctx, query, id, post.StatusPublished)
}

func (r *PostRepository) Unpublish(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query := `
		UPDATE posts
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	return r.setStatus(ctx, query, id, post.StatusDraft)
}

func (r *PostRepository) setStatus(ctx context.Context, query string, id uuid.UUID, status post.Status) (*post.Post, error) {
	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		return nil, errFailedUpdatePost(err)
	}
	return p, nil
}

// Delete removes the post and returns it so callers can invalidate by slug.
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound(errPostNotFound)
		}
		return nil, errFailedDeletePost(err)
	}

	return p, nil
}

// Count returns post totals by status. Both statuses are always present.
func (r *PostRepository) Count(ctx context.Context) (map[post.Status]int64, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT status, COUNT(*) FROM posts GROUP BY status`)
	if err != nil {
		return nil, errFailedCountPosts(err)
	}
	defer rows.Close()

	counts := map[post.Status]int64{post.StatusDraft: 0, post.StatusPublished: 0}
	for rows.Next() {
		var status post.Status
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errFailedCountPosts(err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
