package actions

import (
	"context"
	"errors"
	"strings"

	"portfolio-cms/internal/domain/post"
	"portfolio-cms/internal/infra/cache"
	"portfolio-cms/internal/rbac/presets"
	"portfolio-cms/pkg/validator"

	"github.com/google/uuid"
)

const (
	actionPostList      = "post.list"
	actionPostGet       = "post.get"
	actionPostCreate    = "post.create"
	actionPostUpdate    = "post.update"
	actionPostPublish   = "post.publish"
	actionPostUnpublish = "post.unpublish"
	actionPostDelete    = "post.delete"

	fieldCoverImageURL = "cover_image_url"
)

var errNothingToUpdate = errors.New("nothing to update")

// PostDraft is the payload for a new post. Slug is derived from Title when
// empty.
type PostDraft struct {
	Slug          string
	Title         string
	Excerpt       string
	Content       string
	Tags          []string
	CoverImageURL string
}

func (d *PostDraft) normalize() error {
	d.Title = strings.TrimSpace(d.Title)
	if err := validator.PostTitle(d.Title); err != nil {
		return err
	}

	d.Slug = strings.TrimSpace(d.Slug)
	if d.Slug == "" {
		d.Slug = validator.Slugify(d.Title)
	}
	if err := validator.Slug(d.Slug); err != nil {
		return err
	}

	d.Excerpt = validator.StripHTML(d.Excerpt)
	if err := validator.Excerpt(d.Excerpt); err != nil {
		return err
	}
	if err := validator.Content(d.Content); err != nil {
		return err
	}

	d.Tags = normalizeTags(d.Tags)
	if err := validator.Tags(d.Tags); err != nil {
		return err
	}

	d.CoverImageURL = strings.TrimSpace(d.CoverImageURL)
	return validator.HTTPURL(fieldCoverImageURL, d.CoverImageURL)
}

// PostChanges is a partial update; nil fields are left alone.
type PostChanges struct {
	Slug          *string
	Title         *string
	Excerpt       *string
	Content       *string
	Tags          *[]string
	CoverImageURL *string
}

func (c *PostChanges) toInput() (post.UpdatePostInput, error) {
	var in post.UpdatePostInput

	if c.Title != nil {
		title := strings.TrimSpace(*c.Title)
		if err := validator.PostTitle(title); err != nil {
			return in, err
		}
		in.Title = &title
	}
	if c.Slug != nil {
		slug := strings.TrimSpace(*c.Slug)
		if err := validator.Slug(slug); err != nil {
			return in, err
		}
		in.Slug = &slug
	}
	if c.Excerpt != nil {
		excerpt := validator.StripHTML(*c.Excerpt)
		if err := validator.Excerpt(excerpt); err != nil {
			return in, err
		}
		in.Excerpt = &excerpt
	}
	if c.Content != nil {
		if err := validator.Content(*c.Content); err != nil {
			return in, err
		}
		minutes := post.ReadingMinutes(*c.Content)
		in.Content = c.Content
		in.ReadingMinutes = &minutes
	}
	if c.Tags != nil {
		tags := normalizeTags(*c.Tags)
		if err := validator.Tags(tags); err != nil {
			return in, err
		}
		in.Tags = &tags
	}
	if c.CoverImageURL != nil {
		cover := strings.TrimSpace(*c.CoverImageURL)
		if err := validator.HTTPURL(fieldCoverImageURL, cover); err != nil {
			return in, err
		}
		in.CoverImageURL = &cover
	}

	if in.Empty() {
		return in, errNothingToUpdate
	}
	return in, nil
}

// normalizeTags lower-cases, trims and de-duplicates tags, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// postKeys lists the public cache entries touched by a change to the given
// slugs.
func postKeys(slugs ...string) []string {
	keys := []string{cache.KeyPostsList}
	seen := map[string]bool{}
	for _, slug := range slugs {
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		keys = append(keys, cache.PostSlugKey(slug))
	}
	return keys
}

func postID(p *post.Post) string {
	return p.ID.String()
}

func (a *Actions) ListPosts(ctx context.Context, filter post.ListPostsFilter) Result[[]*post.Post] {
	return guarded(ctx, a, op[[]*post.Post]{
		name:     actionPostList,
		resource: presets.ResourcePost,
		action:   presets.ActionView,
		run: func(ctx context.Context, _ string) ([]*post.Post, error) {
			return a.posts.List(ctx, filter)
		},
	})
}

func (a *Actions) GetPost(ctx context.Context, id uuid.UUID) Result[*post.Post] {
	return guarded(ctx, a, op[*post.Post]{
		name:     actionPostGet,
		resource: presets.ResourcePost,
		action:   presets.ActionView,
		target:   id.String(),
		run: func(ctx context.Context, _ string) (*post.Post, error) {
			return a.posts.GetByID(ctx, id)
		},
	})
}

// CreatePost stores a new draft. Drafts are not public, so nothing is
// invalidated.
func (a *Actions) CreatePost(ctx context.Context, draft PostDraft) Result[*post.Post] {
	return guarded(ctx, a, op[*post.Post]{
		name:     actionPostCreate,
		resource: presets.ResourcePost,
		action:   presets.ActionCreate,
		validate: draft.normalize,
		run: func(ctx context.Context, actor string) (*post.Post, error) {
			return a.posts.Create(ctx, post.CreatePostInput{
				Slug:           draft.Slug,
				Title:          draft.Title,
				Excerpt:        draft.Excerpt,
				Content:        draft.Content,
				Tags:           draft.Tags,
				CoverImageURL:  draft.CoverImageURL,
				ReadingMinutes: post.ReadingMinutes(draft.Content),
				AuthorEmail:    actor,
			})
		},
		targetOf: postID,
	})
}

func (a *Actions) UpdatePost(ctx context.Context, id uuid.UUID, changes PostChanges) Result[*post.Post] {
	var (
		input    post.UpdatePostInput
		prevSlug string
	)

	return guarded(ctx, a, op[*post.Post]{
		name:     actionPostUpdate,
		resource: presets.ResourcePost,
		action:   presets.ActionEdit,
		target:   id.String(),
		validate: func() (err error) {
			input, err = changes.toInput()
			return err
		},
		run: func(ctx context.Context, _ string) (*post.Post, error) {
			before, err := a.posts.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			prevSlug = before.Slug
			return a.posts.Update(ctx, id, input)
		},
		invalidate: func(p *post.Post) []string {
			return postKeys(prevSlug, p.Slug)
		},
	})
}

func (a *Actions) PublishPost(ctx context.Context, id uuid.UUID) Result[*post.Post] {
	return guarded(ctx, a, op[*post.Post]{
		name:     actionPostPublish,
		resource: presets.ResourcePost,
		action:   presets.ActionEdit,
		target:   id.String(),
		run: func(ctx context.Context, _ string) (*post.Post, error) {
			return a.posts.Publish(ctx, id)
		},
		invalidate: func(p *post.Post) []string {
			return postKeys(p.Slug)
		},
	})
}

func (a *Actions) UnpublishPost(ctx context.Context, id uuid.UUID) Result[*post.Post] {
	return guarded(ctx, a, op[*post.Post]{
		name:     actionPostUnpublish,
		resource: presets.ResourcePost,
		action:   presets.ActionEdit,
		target:   id.String(),
		run: func(ctx context.Context, _ string) (*post.Post, error) {
			return a.posts.Unpublish(ctx, id)
		},
		invalidate: func(p *post.Post) []string {
			return postKeys(p.Slug)
		},
	})
}

// DeletePost is admin only.
func (a *Actions) DeletePost(ctx context.Context, id uuid.UUID) Result[*post.Post] {
	return guarded(ctx, a, op[*post.Post]{
		name:     actionPostDelete,
		resource: presets.ResourcePost,
		action:   presets.ActionDelete,
		target:   id.String(),
		run: func(ctx context.Context, _ string) (*post.Post, error) {
			return a.posts.Delete(ctx, id)
		},
		invalidate: func(p *post.Post) []string {
			return postKeys(p.Slug)
		},
	})
}
