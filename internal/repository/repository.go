package repository

import (
	"context"
	"time"

	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/domain/media"
	"portfolio-cms/internal/domain/post"
	"portfolio-cms/internal/domain/setting"

	"github.com/google/uuid"
)

// PostRepository defines post data access operations
type PostRepository interface {
	Create(ctx context.Context, input post.CreatePostInput) (*post.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*post.Post, error)
	List(ctx context.Context, filter post.ListPostsFilter) ([]*post.Post, error)
	Update(ctx context.Context, id uuid.UUID, input post.UpdatePostInput) (*post.Post, error)
	Publish(ctx context.Context, id uuid.UUID) (*post.Post, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*post.Post, error)
	Delete(ctx context.Context, id uuid.UUID) (*post.Post, error)
	Count(ctx context.Context) (map[post.Status]int64, error)
}

// ContactRepository defines contact submission data access operations
type ContactRepository interface {
	Create(ctx context.Context, input contact.CreateSubmissionInput) (*contact.Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (*contact.Submission, error)
	List(ctx context.Context, filter contact.ListSubmissionsFilter) ([]*contact.Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status contact.Status) (*contact.Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, status contact.Status) (int64, error)
}

// MediaRepository defines media item data access operations
type MediaRepository interface {
	Create(ctx context.Context, input media.CreateItemInput) (*media.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*media.Item, error)
	List(ctx context.Context, filter media.ListItemsFilter) ([]*media.Item, error)
	UpdateAlt(ctx context.Context, id uuid.UUID, alt string) (*media.Item, error)
	Delete(ctx context.Context, id uuid.UUID) (*media.Item, error)
}

// SettingRepository defines site setting data access operations
type SettingRepository interface {
	List(ctx context.Context) ([]*setting.Setting, error)
	Upsert(ctx context.Context, values map[string]string, updatedBy string) ([]*setting.Setting, error)
}

// AnalyticsRepository defines page view data access operations
type AnalyticsRepository interface {
	RecordPageView(ctx context.Context, input analytics.RecordPageViewInput) error
	Summary(ctx context.Context, days int, now time.Time) (*analytics.Summary, error)
}
