package actions

import (
	"context"
	"io"
	"time"

	"portfolio-cms/internal/audit"
	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/infra/cache"
	"portfolio-cms/internal/rbac"
	"portfolio-cms/internal/repository"

	"github.com/rs/zerolog"
)

// Authorizer answers whether email may perform action on resource.
// Implemented by rbac.Predicates.
type Authorizer interface {
	Authorize(email string, resource rbac.Resource, action rbac.Action) error
}

// ObjectStore holds uploaded media bytes.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body io.ReadSeeker, size int64) error
	DeleteObject(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// AuditLog records and lists audit events.
type AuditLog interface {
	Record(event *audit.Event)
	Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Event, error)
}

// ContactNotifier tells the site owner about a new contact message.
type ContactNotifier interface {
	NotifyContact(ctx context.Context, s *contact.Submission) error
}

// Observer counts action outcomes.
type Observer interface {
	ObserveAction(action, outcome string)
}

// Deps are the collaborators an Actions value is built from. Cache, Audit,
// Metrics, Notifier and Hasher are optional.
type Deps struct {
	Authorizer    Authorizer
	Posts         repository.PostRepository
	Contacts      repository.ContactRepository
	Media         repository.MediaRepository
	Settings      repository.SettingRepository
	Analytics     repository.AnalyticsRepository
	Objects       ObjectStore
	Cache         cache.Store
	Audit         AuditLog
	Metrics       Observer
	Notifier      ContactNotifier
	Hasher        *analytics.Hasher
	MaxUploadSize int64
	PageSize      int
	Logger        zerolog.Logger
}

// Actions is the single entry point for reads and mutations of site content.
// Admin operations go through the guard; the public ones do not need a
// session.
type Actions struct {
	authz         Authorizer
	posts         repository.PostRepository
	contacts      repository.ContactRepository
	media         repository.MediaRepository
	settings      repository.SettingRepository
	analytics     repository.AnalyticsRepository
	objects       ObjectStore
	cache         cache.Store
	audit         AuditLog
	metrics       Observer
	notifier      ContactNotifier
	hasher        *analytics.Hasher
	maxUploadSize int64
	pageSize      int
	logger        zerolog.Logger
	now           func() time.Time
}

func New(d Deps) *Actions {
	a := &Actions{
		authz:         d.Authorizer,
		posts:         d.Posts,
		contacts:      d.Contacts,
		media:         d.Media,
		settings:      d.Settings,
		analytics:     d.Analytics,
		objects:       d.Objects,
		cache:         d.Cache,
		audit:         d.Audit,
		metrics:       d.Metrics,
		notifier:      d.Notifier,
		hasher:        d.Hasher,
		maxUploadSize: d.MaxUploadSize,
		pageSize:      d.PageSize,
		logger:        d.Logger.With().Str("component", "actions").Logger(),
		now:           time.Now,
	}
	if a.cache == nil {
		a.cache = cache.NopStore{}
	}
	if a.audit == nil {
		a.audit = nopAudit{}
	}
	if a.pageSize <= 0 {
		a.pageSize = defaultPageSize
	}
	if a.metrics == nil {
		a.metrics = nopObserver{}
	}
	return a
}

const defaultPageSize = 10

type nopAudit struct{}

func (nopAudit) Record(*audit.Event) {}
func (nopAudit) Query(context.Context, audit.QueryFilter) ([]*audit.Event, error) {
	return []*audit.Event{}, nil
}

type nopObserver struct{}

func (nopObserver) ObserveAction(string, string) {}

type requestInfoKey struct{}

// RequestInfo describes the HTTP request an action runs for. It only feeds
// the audit trail and analytics.
type RequestInfo struct {
	IPAddress string
	UserAgent string
	RequestID string
}

func WithRequestInfo(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestInfoKey{}, info)
}

func RequestInfoFrom(ctx context.Context) RequestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(RequestInfo)
	return info
}
