package actions

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"portfolio-cms/internal/audit"
	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/domain/media"
	"portfolio-cms/internal/domain/post"
	"portfolio-cms/internal/domain/setting"
	apperrors "portfolio-cms/pkg/errors"

	"github.com/google/uuid"
)

// journal records every repository, storage and cache call in order.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// writes counts entries that changed state.
func (j *journal) writes() int {
	n := 0
	for _, e := range j.list() {
		if strings.HasPrefix(e, "write:") {
			n++
		}
	}
	return n
}

func (j *journal) count(entry string) int {
	n := 0
	for _, e := range j.list() {
		if e == entry {
			n++
		}
	}
	return n
}

type fakePosts struct {
	j     *journal
	items map[uuid.UUID]*post.Post
	err   error
}

func newFakePosts(j *journal) *fakePosts {
	return &fakePosts{j: j, items: map[uuid.UUID]*post.Post{}}
}

func (f *fakePosts) seed(p post.Post) *post.Post {
	stored := p
	f.items[p.ID] = &stored
	return &stored
}

func (f *fakePosts) Create(_ context.Context, in post.CreatePostInput) (*post.Post, error) {
	f.j.add("write:posts.create")
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.items {
		if p.Slug == in.Slug {
			return nil, apperrors.Conflict("a post with this slug already exists")
		}
	}
	p := &post.Post{
		ID:             uuid.New(),
		Slug:           in.Slug,
		Title:          in.Title,
		Excerpt:        in.Excerpt,
		Content:        in.Content,
		Tags:           in.Tags,
		CoverImageURL:  in.CoverImageURL,
		Status:         post.StatusDraft,
		ReadingMinutes: in.ReadingMinutes,
		AuthorEmail:    in.AuthorEmail,
	}
	f.items[p.ID] = p
	return p, nil
}

func (f *fakePosts) GetByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	f.j.add("read:posts.get")
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) GetPublishedBySlug(_ context.Context, slug string) (*post.Post, error) {
	f.j.add("read:posts.slug")
	for _, p := range f.items {
		if p.Slug == slug && p.IsPublished() {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("post not found")
}

func (f *fakePosts) List(_ context.Context, filter post.ListPostsFilter) ([]*post.Post, error) {
	f.j.add("read:posts.list")
	if f.err != nil {
		return nil, f.err
	}
	out := []*post.Post{}
	for _, p := range f.items {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].Slug < out[k].Slug })
	return out, nil
}

func (f *fakePosts) Update(_ context.Context, id uuid.UUID, in post.UpdatePostInput) (*post.Post, error) {
	f.j.add("write:posts.update")
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	if in.Slug != nil {
		p.Slug = *in.Slug
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Excerpt != nil {
		p.Excerpt = *in.Excerpt
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Tags != nil {
		p.Tags = *in.Tags
	}
	if in.CoverImageURL != nil {
		p.CoverImageURL = *in.CoverImageURL
	}
	if in.ReadingMinutes != nil {
		p.ReadingMinutes = *in.ReadingMinutes
	}
	cp := *p
	return &cp, nil
}

func (f *fakePosts) setStatus(id uuid.UUID, status post.Status) (*post.Post, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	p.Status = status
	cp := *p
	return &cp, nil
}

func (f *fakePosts) Publish(_ context.Context, id uuid.UUID) (*post.Post, error) {
	f.j.add("write:posts.publish")
	return f.setStatus(id, post.StatusPublished)
}

func (f *fakePosts) Unpublish(_ context.Context, id uuid.UUID) (*post.Post, error) {
	f.j.add("write:posts.unpublish")
	return f.setStatus(id, post.StatusDraft)
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) (*post.Post, error) {
	f.j.add("write:posts.delete")
	p, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("post not found")
	}
	delete(f.items, id)
	return p, nil
}

func (f *fakePosts) Count(context.Context) (map[post.Status]int64, error) {
	f.j.add("read:posts.count")
	if f.err != nil {
		return nil, f.err
	}
	counts := map[post.Status]int64{post.StatusDraft: 0, post.StatusPublished: 0}
	for _, p := range f.items {
		counts[p.Status]++
	}
	return counts, nil
}

type fakeContacts struct {
	j     *journal
	items map[uuid.UUID]*contact.Submission
}

func newFakeContacts(j *journal) *fakeContacts {
	return &fakeContacts{j: j, items: map[uuid.UUID]*contact.Submission{}}
}

func (f *fakeContacts) Create(_ context.Context, in contact.CreateSubmissionInput) (*contact.Submission, error) {
	f.j.add("write:contacts.create")
	s := &contact.Submission{
		ID:          uuid.New(),
		Name:        in.Name,
		Email:       in.Email,
		Subject:     in.Subject,
		Message:     in.Message,
		Status:      contact.StatusNew,
		VisitorHash: in.VisitorHash,
	}
	f.items[s.ID] = s
	return s, nil
}

func (f *fakeContacts) GetByID(_ context.Context, id uuid.UUID) (*contact.Submission, error) {
	f.j.add("read:contacts.get")
	s, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("submission not found")
	}
	return s, nil
}

func (f *fakeContacts) List(_ context.Context, _ contact.ListSubmissionsFilter) ([]*contact.Submission, error) {
	f.j.add("read:contacts.list")
	out := []*contact.Submission{}
	for _, s := range f.items {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeContacts) UpdateStatus(_ context.Context, id uuid.UUID, status contact.Status) (*contact.Submission, error) {
	f.j.add("write:contacts.status")
	s, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("submission not found")
	}
	s.Status = status
	cp := *s
	return &cp, nil
}

func (f *fakeContacts) Delete(_ context.Context, id uuid.UUID) error {
	f.j.add("write:contacts.delete")
	if _, ok := f.items[id]; !ok {
		return apperrors.NotFound("submission not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeContacts) CountByStatus(_ context.Context, status contact.Status) (int64, error) {
	f.j.add("read:contacts.count")
	var n int64
	for _, s := range f.items {
		if s.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeMedia struct {
	j         *journal
	items     map[uuid.UUID]*media.Item
	createErr error
}

func newFakeMedia(j *journal) *fakeMedia {
	return &fakeMedia{j: j, items: map[uuid.UUID]*media.Item{}}
}

func (f *fakeMedia) Create(_ context.Context, in media.CreateItemInput) (*media.Item, error) {
	f.j.add("write:media.create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	m := &media.Item{
		ID:          in.ID,
		ObjectKey:   in.ObjectKey,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		SizeBytes:   in.SizeBytes,
		AltText:     in.AltText,
		UploadedBy:  in.UploadedBy,
	}
	f.items[m.ID] = m
	return m, nil
}

func (f *fakeMedia) GetByID(_ context.Context, id uuid.UUID) (*media.Item, error) {
	f.j.add("read:media.get")
	m, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("media item not found")
	}
	return m, nil
}

func (f *fakeMedia) List(_ context.Context, _ media.ListItemsFilter) ([]*media.Item, error) {
	f.j.add("read:media.list")
	out := []*media.Item{}
	for _, m := range f.items {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMedia) UpdateAlt(_ context.Context, id uuid.UUID, alt string) (*media.Item, error) {
	f.j.add("write:media.alt")
	m, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("media item not found")
	}
	m.AltText = alt
	return m, nil
}

func (f *fakeMedia) Delete(_ context.Context, id uuid.UUID) (*media.Item, error) {
	f.j.add("write:media.delete")
	m, ok := f.items[id]
	if !ok {
		return nil, apperrors.NotFound("media item not found")
	}
	delete(f.items, id)
	return m, nil
}

type fakeSettings struct {
	j      *journal
	values map[string]string
}

func (f *fakeSettings) List(context.Context) ([]*setting.Setting, error) {
	f.j.add("read:settings.list")
	out := []*setting.Setting{}
	for _, k := range sortedKeys(f.values) {
		out = append(out, &setting.Setting{Key: k, Value: f.values[k]})
	}
	return out, nil
}

func (f *fakeSettings) Upsert(_ context.Context, values map[string]string, updatedBy string) ([]*setting.Setting, error) {
	f.j.add("write:settings.upsert")
	out := []*setting.Setting{}
	for _, k := range sortedKeys(values) {
		if values[k] == "" {
			delete(f.values, k)
			continue
		}
		f.values[k] = values[k]
		out = append(out, &setting.Setting{Key: k, Value: values[k], UpdatedBy: updatedBy})
	}
	return out, nil
}

type fakeAnalytics struct {
	j        *journal
	views    []analytics.RecordPageViewInput
	lastDays int
}

func (f *fakeAnalytics) RecordPageView(_ context.Context, in analytics.RecordPageViewInput) error {
	f.j.add("write:analytics.record")
	f.views = append(f.views, in)
	return nil
}

func (f *fakeAnalytics) Summary(_ context.Context, days int, _ time.Time) (*analytics.Summary, error) {
	f.j.add("read:analytics.summary")
	f.lastDays = days
	return &analytics.Summary{Days: days, TotalViews: int64(len(f.views))}, nil
}

type fakeObjects struct {
	j       *journal
	objects map[string]string
	deleted []string
	putErr  error
}

func newFakeObjects(j *journal) *fakeObjects {
	return &fakeObjects{j: j, objects: map[string]string{}}
}

func (f *fakeObjects) PutObject(_ context.Context, key, _ string, body io.ReadSeeker, _ int64) error {
	f.j.add("write:objects.put")
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = string(data)
	return nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, key string) error {
	f.j.add("write:objects.delete")
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjects) URL(_ context.Context, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

// fakeCache mimics the JSON round trip of the Redis store.
type fakeCache struct {
	j       *journal
	entries map[string][]byte
}

func newFakeCache(j *journal) *fakeCache {
	return &fakeCache{j: j, entries: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, keys ...string) error {
	c.j.add("cache.invalidate:" + strings.Join(keys, ","))
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

type fakeAudit struct {
	mu     sync.Mutex
	events []*audit.Event
}

func (f *fakeAudit) Record(event *audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeAudit) Query(context.Context, audit.QueryFilter) ([]*audit.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*audit.Event(nil), f.events...), nil
}

func (f *fakeAudit) last() *audit.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return nil
	}
	return f.events[len(f.events)-1]
}

type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func (f *fakeMetrics) ObserveAction(action, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int{}
	}
	f.counts[action+"/"+outcome]++
}

func (f *fakeMetrics) count(action, outcome string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[action+"/"+outcome]
}

type fakeNotifier struct {
	sent chan *contact.Submission
	err  error
}

func (f *fakeNotifier) NotifyContact(_ context.Context, s *contact.Submission) error {
	select {
	case f.sent <- s:
	default:
	}
	return f.err
}
