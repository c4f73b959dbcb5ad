package actions

import (
	"context"
	"strings"
	"time"

	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/domain/post"
	"portfolio-cms/internal/domain/setting"
	"portfolio-cms/internal/infra/cache"
	"portfolio-cms/pkg/validator"
)

const (
	actionPublicPosts    = "public.posts"
	actionPublicPost     = "public.post"
	actionPublicSettings = "public.settings"
	actionContactSubmit  = "public.contact"
	actionPageView       = "public.pageview"

	notifyTimeout = 15 * time.Second
)

// unguarded runs an anonymous action. It shares the Result shape and the
// outcome metric with the guarded ones.
func unguarded[T any](a *Actions, name string, validate func() error, run func() (T, error)) (res Result[T]) {
	defer func() { a.metrics.ObserveAction(name, outcome(res.Err)) }()

	if validate != nil {
		if err := validate(); err != nil {
			return failed[T](invalid(err))
		}
	}

	value, err := run()
	if err != nil {
		f := classify(err)
		if f.Kind == KindInternal {
			a.logger.Error().Err(err).Str("action", name).Msg("action failed")
		}
		return failed[T](f)
	}
	return ok(value)
}

// cached reads key from the cache or fills it with load. Cache errors never
// fail the read.
func cached[T any](ctx context.Context, a *Actions, key string, load func() (T, error)) (T, error) {
	var value T
	hit, err := a.cache.Get(ctx, key, &value)
	if err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if hit {
		return value, nil
	}

	value, err = load()
	if err != nil {
		return value, err
	}
	if err := a.cache.Set(ctx, key, value); err != nil {
		a.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return value, nil
}

// PublishedPosts lists published posts, newest first. Only the first page
// without a tag filter is cached.
func (a *Actions) PublishedPosts(ctx context.Context, tag string, limit, offset int) Result[[]*post.Post] {
	published := post.StatusPublished
	if limit <= 0 {
		limit = a.pageSize
	}
	filter := post.ListPostsFilter{
		Status: &published,
		Tag:    strings.ToLower(strings.TrimSpace(tag)),
		Limit:  limit,
		Offset: offset,
	}

	return unguarded(a, actionPublicPosts, nil, func() ([]*post.Post, error) {
		load := func() ([]*post.Post, error) { return a.posts.List(ctx, filter) }
		if filter.Tag == "" && offset == 0 && limit == a.pageSize {
			return cached(ctx, a, cache.KeyPostsList, load)
		}
		return load()
	})
}

func (a *Actions) PublishedPost(ctx context.Context, slug string) Result[*post.Post] {
	return unguarded(a, actionPublicPost,
		func() error { return validator.Slug(slug) },
		func() (*post.Post, error) {
			return cached(ctx, a, cache.PostSlugKey(slug), func() (*post.Post, error) {
				return a.posts.GetPublishedBySlug(ctx, slug)
			})
		})
}

// PublicSettings returns the anonymous subset as a plain key/value map.
func (a *Actions) PublicSettings(ctx context.Context) Result[map[string]string] {
	return unguarded(a, actionPublicSettings, nil, func() (map[string]string, error) {
		return cached(ctx, a, cache.KeySettingsPublic, func() (map[string]string, error) {
			all, err := a.settings.List(ctx)
			if err != nil {
				return nil, err
			}
			out := map[string]string{}
			for _, s := range setting.PublicOnly(all) {
				out[s.Key] = s.Value
			}
			return out, nil
		})
	})
}

// ContactForm is a message sent from the public contact page.
type ContactForm struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (f *ContactForm) normalize() error {
	f.Name = validator.StripHTML(f.Name)
	if err := validator.ContactName(f.Name); err != nil {
		return err
	}

	f.Email = validator.NormalizeEmail(f.Email)
	if err := validator.Email(f.Email); err != nil {
		return err
	}

	f.Subject = validator.StripHTML(f.Subject)
	if err := validator.ContactSubject(f.Subject); err != nil {
		return err
	}

	f.Message = validator.StripHTML(f.Message)
	return validator.ContactMessage(f.Message)
}

func (a *Actions) SubmitContact(ctx context.Context, form ContactForm) Result[*contact.Submission] {
	res := unguarded(a, actionContactSubmit, form.normalize, func() (*contact.Submission, error) {
		return a.contacts.Create(ctx, contact.CreateSubmissionInput{
			Name:        form.Name,
			Email:       form.Email,
			Subject:     form.Subject,
			Message:     form.Message,
			VisitorHash: a.visitorHash(ctx),
		})
	})
	if res.Ok() {
		a.notifyContact(ctx, res.Value)
	}
	return res
}

// notifyContact mails the owner in the background. The message is already
// stored, so a delivery failure is only logged.
func (a *Actions) notifyContact(ctx context.Context, s *contact.Submission) {
	if a.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	go func() {
		defer cancel()
		if err := a.notifier.NotifyContact(ctx, s); err != nil {
			a.logger.Warn().Err(err).Str("submission_id", s.ID.String()).Msg("contact notification failed")
		}
	}()
}

// RecordPageView stores one anonymous view. Bots are stored too and left out
// of the summaries.
func (a *Actions) RecordPageView(ctx context.Context, path, referrer string) Result[struct{}] {
	path = strings.TrimSpace(path)

	return unguarded(a, actionPageView,
		func() error { return validator.PagePath(path) },
		func() (struct{}, error) {
			info := RequestInfoFrom(ctx)
			return struct{}{}, a.analytics.RecordPageView(ctx, analytics.RecordPageViewInput{
				Path:           path,
				ReferrerHost:   analytics.ReferrerHost(referrer),
				VisitorHash:    a.visitorHash(ctx),
				UserAgentClass: analytics.ClassifyUserAgent(info.UserAgent),
			})
		})
}

func (a *Actions) visitorHash(ctx context.Context) string {
	if a.hasher == nil {
		return ""
	}
	info := RequestInfoFrom(ctx)
	return a.hasher.VisitorHash(info.IPAddress, info.UserAgent, a.now())
}
