package handler

import (
	"context"
	"net/http"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/audit"
	"portfolio-cms/internal/auth"
	"portfolio-cms/internal/auth/provider"
	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/domain/media"
	"portfolio-cms/internal/domain/post"
	"portfolio-cms/internal/domain/setting"
	"portfolio-cms/internal/rbac"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type ProviderLookup interface {
	Get(name string) (provider.OAuthProvider, error)
	Names() []string
}

type SignInCompleter interface {
	Complete(ctx context.Context, p auth.CodeExchanger, code, verifier string) (*auth.Session, error)
}

type SessionIssuer interface {
	Issue(w http.ResponseWriter, s auth.Session) (*auth.Session, error)
	Clear(w http.ResponseWriter)
	CookieOptions() auth.CookieOptions
}

type PermissionReporter interface {
	RoleOf(email string) (rbac.Role, bool)
	CanView(email string) bool
	CanEdit(email string) bool
	IsAdmin(email string) bool
}

type CSRFTokens interface {
	GetOrCreateToken(email string) (string, error)
	Revoke(email string)
}

type SignInObserver interface {
	ObserveSignIn(provider, outcome string)
}

// PostHandler interfaces
type PostActions interface {
	ListPosts(ctx context.Context, filter post.ListPostsFilter) actions.Result[[]*post.Post]
	GetPost(ctx context.Context, id uuid.UUID) actions.Result[*post.Post]
	CreatePost(ctx context.Context, draft actions.PostDraft) actions.Result[*post.Post]
	UpdatePost(ctx context.Context, id uuid.UUID, changes actions.PostChanges) actions.Result[*post.Post]
	PublishPost(ctx context.Context, id uuid.UUID) actions.Result[*post.Post]
	UnpublishPost(ctx context.Context, id uuid.UUID) actions.Result[*post.Post]
	DeletePost(ctx context.Context, id uuid.UUID) actions.Result[*post.Post]
}

// ContactHandler interfaces
type ContactActions interface {
	ListSubmissions(ctx context.Context, filter contact.ListSubmissionsFilter) actions.Result[[]*contact.Submission]
	GetSubmission(ctx context.Context, id uuid.UUID) actions.Result[*contact.Submission]
	UpdateSubmissionStatus(ctx context.Context, id uuid.UUID, status contact.Status) actions.Result[*contact.Submission]
	DeleteSubmission(ctx context.Context, id uuid.UUID) actions.Result[struct{}]
}

// MediaHandler interfaces
type MediaActions interface {
	ListMedia(ctx context.Context, filter media.ListItemsFilter) actions.Result[[]actions.MediaItem]
	UploadMedia(ctx context.Context, upload actions.Upload) actions.Result[actions.MediaItem]
	UpdateMediaAlt(ctx context.Context, id uuid.UUID, alt string) actions.Result[actions.MediaItem]
	DeleteMedia(ctx context.Context, id uuid.UUID) actions.Result[actions.MediaItem]
}

// SiteHandler interfaces
type SiteActions interface {
	ListSettings(ctx context.Context) actions.Result[[]*setting.Setting]
	UpdateSettings(ctx context.Context, values map[string]string) actions.Result[[]*setting.Setting]
	AnalyticsSummary(ctx context.Context, days int) actions.Result[*analytics.Summary]
	DashboardSummary(ctx context.Context) actions.Result[actions.Dashboard]
	ListAuditEvents(ctx context.Context, filter audit.QueryFilter) actions.Result[[]*audit.Event]
}

// PublicHandler interfaces
type PublicActions interface {
	PublishedPosts(ctx context.Context, tag string, limit, offset int) actions.Result[[]*post.Post]
	PublishedPost(ctx context.Context, slug string) actions.Result[*post.Post]
	PublicSettings(ctx context.Context) actions.Result[map[string]string]
	SubmitContact(ctx context.Context, form actions.ContactForm) actions.Result[*contact.Submission]
	RecordPageView(ctx context.Context, path, referrer string) actions.Result[struct{}]
}
