package post

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

const wordsPerMinute = 200

type Post struct {
	ID             uuid.UUID
	Slug           string
	Title          string
	Excerpt        string
	Content        string
	Tags           []string
	CoverImageURL  string
	Status         Status
	PublishedAt    *time.Time
	ReadingMinutes int
	AuthorEmail    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Post) IsPublished() bool {
	return p.Status == StatusPublished
}

type CreatePostInput struct {
	Slug           string
	Title          string
	Excerpt        string
	Content        string
	Tags           []string
	CoverImageURL  string
	ReadingMinutes int
	AuthorEmail    string
}

type UpdatePostInput struct {
	Slug           *string
	Title          *string
	Excerpt        *string
	Content        *string
	Tags           *[]string
	CoverImageURL  *string
	ReadingMinutes *int
}

// Empty reports whether the update changes nothing.
func (in UpdatePostInput) Empty() bool {
	return in.Slug == nil && in.Title == nil && in.Excerpt == nil && in.Content == nil &&
		in.Tags == nil && in.CoverImageURL == nil && in.ReadingMinutes == nil
}

type ListPostsFilter struct {
	Status *Status
	Tag    string
	Limit  int
	Offset int
}

// ReadingMinutes estimates reading time at 200 words per minute, never less
// than one minute.
func ReadingMinutes(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
