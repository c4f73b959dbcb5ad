package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

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
	"golang.org/x/oauth2"
)

// ============================================================================
// Actions
// ============================================================================

// fakeActions implements every action interface. A non-nil failure is
// returned from whichever action is called.
type fakeActions struct {
	failure *actions.Failure

	post      *post.Post
	posts     []*post.Post
	sub       *contact.Submission
	item      actions.MediaItem
	settings  []*setting.Setting
	public    map[string]string
	summary   *analytics.Summary
	events    []*audit.Event
	calls     []string
	lastID    uuid.UUID
	lastDraft actions.PostDraft
	lastPatch actions.PostChanges
	lastPosts post.ListPostsFilter
	lastSubs  contact.ListSubmissionsFilter
	lastMedia media.ListItemsFilter
	lastAudit audit.QueryFilter
	lastUp    actions.Upload
	upBody    string
	lastAlt   string
	lastVals  map[string]string
	lastDays  int
	lastForm  actions.ContactForm
	lastView  [2]string
	lastPage  [3]any
}

func result[T any](f *fakeActions, name string, v T) actions.Result[T] {
	f.calls = append(f.calls, name)
	if f.failure != nil {
		return actions.Result[T]{Err: f.failure}
	}
	return actions.Result[T]{Value: v}
}

func (f *fakeActions) ListPosts(_ context.Context, filter post.ListPostsFilter) actions.Result[[]*post.Post] {
	f.lastPosts = filter
	return result(f, "ListPosts", f.posts)
}

func (f *fakeActions) GetPost(_ context.Context, id uuid.UUID) actions.Result[*post.Post] {
	f.lastID = id
	return result(f, "GetPost", f.post)
}

func (f *fakeActions) CreatePost(_ context.Context, draft actions.PostDraft) actions.Result[*post.Post] {
	f.lastDraft = draft
	return result(f, "CreatePost", f.post)
}

func (f *fakeActions) UpdatePost(_ context.Context, id uuid.UUID, changes actions.PostChanges) actions.Result[*post.Post] {
	f.lastID = id
	f.lastPatch = changes
	return result(f, "UpdatePost", f.post)
}

func (f *fakeActions) PublishPost(_ context.Context, id uuid.UUID) actions.Result[*post.Post] {
	f.lastID = id
	return result(f, "PublishPost", f.post)
}

func (f *fakeActions) UnpublishPost(_ context.Context, id uuid.UUID) actions.Result[*post.Post] {
	f.lastID = id
	return result(f, "UnpublishPost", f.post)
}

func (f *fakeActions) DeletePost(_ context.Context, id uuid.UUID) actions.Result[*post.Post] {
	f.lastID = id
	return result(f, "DeletePost", f.post)
}

func (f *fakeActions) ListSubmissions(_ context.Context, filter contact.ListSubmissionsFilter) actions.Result[[]*contact.Submission] {
	f.lastSubs = filter
	return result(f, "ListSubmissions", []*contact.Submission{f.sub})
}

func (f *fakeActions) GetSubmission(_ context.Context, id uuid.UUID) actions.Result[*contact.Submission] {
	f.lastID = id
	return result(f, "GetSubmission", f.sub)
}

func (f *fakeActions) UpdateSubmissionStatus(_ context.Context, id uuid.UUID, status contact.Status) actions.Result[*contact.Submission] {
	f.lastID = id
	sub := *f.sub
	sub.Status = status
	return result(f, "UpdateSubmissionStatus", &sub)
}

func (f *fakeActions) DeleteSubmission(_ context.Context, id uuid.UUID) actions.Result[struct{}] {
	f.lastID = id
	return result(f, "DeleteSubmission", struct{}{})
}

func (f *fakeActions) ListMedia(_ context.Context, filter media.ListItemsFilter) actions.Result[[]actions.MediaItem] {
	f.lastMedia = filter
	return result(f, "ListMedia", []actions.MediaItem{f.item})
}

func (f *fakeActions) UploadMedia(_ context.Context, upload actions.Upload) actions.Result[actions.MediaItem] {
	f.lastUp = upload
	if upload.Body != nil {
		b, _ := io.ReadAll(upload.Body)
		f.upBody = string(b)
	}
	return result(f, "UploadMedia", f.item)
}

func (f *fakeActions) UpdateMediaAlt(_ context.Context, id uuid.UUID, alt string) actions.Result[actions.MediaItem] {
	f.lastID = id
	f.lastAlt = alt
	return result(f, "UpdateMediaAlt", f.item)
}

func (f *fakeActions) DeleteMedia(_ context.Context, id uuid.UUID) actions.Result[actions.MediaItem] {
	f.lastID = id
	return result(f, "DeleteMedia", f.item)
}

func (f *fakeActions) ListSettings(context.Context) actions.Result[[]*setting.Setting] {
	return result(f, "ListSettings", f.settings)
}

func (f *fakeActions) UpdateSettings(_ context.Context, values map[string]string) actions.Result[[]*setting.Setting] {
	f.lastVals = values
	return result(f, "UpdateSettings", f.settings)
}

func (f *fakeActions) AnalyticsSummary(_ context.Context, days int) actions.Result[*analytics.Summary] {
	f.lastDays = days
	return result(f, "AnalyticsSummary", f.summary)
}

func (f *fakeActions) DashboardSummary(context.Context) actions.Result[actions.Dashboard] {
	return result(f, "DashboardSummary", actions.Dashboard{
		Posts:          map[post.Status]int64{post.StatusDraft: 2, post.StatusPublished: 5},
		UnreadContacts: 3,
	})
}

func (f *fakeActions) ListAuditEvents(_ context.Context, filter audit.QueryFilter) actions.Result[[]*audit.Event] {
	f.lastAudit = filter
	return result(f, "ListAuditEvents", f.events)
}

func (f *fakeActions) PublishedPosts(_ context.Context, tag string, limit, offset int) actions.Result[[]*post.Post] {
	f.lastPage = [3]any{tag, limit, offset}
	return result(f, "PublishedPosts", f.posts)
}

func (f *fakeActions) PublishedPost(_ context.Context, slug string) actions.Result[*post.Post] {
	f.lastPage = [3]any{slug, 0, 0}
	return result(f, "PublishedPost", f.post)
}

func (f *fakeActions) PublicSettings(context.Context) actions.Result[map[string]string] {
	return result(f, "PublicSettings", f.public)
}

func (f *fakeActions) SubmitContact(_ context.Context, form actions.ContactForm) actions.Result[*contact.Submission] {
	f.lastForm = form
	return result(f, "SubmitContact", f.sub)
}

func (f *fakeActions) RecordPageView(_ context.Context, path, referrer string) actions.Result[struct{}] {
	f.lastView = [2]string{path, referrer}
	return result(f, "RecordPageView", struct{}{})
}

// ============================================================================
// Sign-in collaborators
// ============================================================================

type fakeProvider struct {
	name string
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) AuthCodeURL(state, verifier string) string {
	return "https://provider.example/authorize?" + url.Values{"state": {state}, "verifier": {verifier}}.Encode()
}

func (p *fakeProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, *oauth2.Token, error) {
	return nil, nil, fmt.Errorf("not used")
}

type fakeProviders map[string]provider.OAuthProvider

func (f fakeProviders) Get(name string) (provider.OAuthProvider, error) {
	p, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("unknown oauth provider: %s", name)
	}
	return p, nil
}

func (f fakeProviders) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	return names
}

type fakeSignIn struct {
	session      *auth.Session
	err          error
	gotCode      string
	gotVerifier  string
	gotProvider  string
	completeCall int
}

func (f *fakeSignIn) Complete(_ context.Context, p auth.CodeExchanger, code, verifier string) (*auth.Session, error) {
	f.completeCall++
	f.gotProvider = p.Name()
	f.gotCode = code
	f.gotVerifier = verifier
	return f.session, f.err
}

type fakeSessions struct {
	issued  *auth.Session
	cleared bool
	err     error
}

func (f *fakeSessions) Issue(w http.ResponseWriter, s auth.Session) (*auth.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.issued = &s
	http.SetCookie(w, &http.Cookie{Name: auth.SessionCookieName, Value: "signed"})
	return &s, nil
}

func (f *fakeSessions) Clear(http.ResponseWriter) { f.cleared = true }

func (f *fakeSessions) CookieOptions() auth.CookieOptions {
	return auth.CookieOptions{SameSite: http.SameSiteLaxMode}
}

type fakePerms map[string]rbac.Role

func (f fakePerms) RoleOf(email string) (rbac.Role, bool) {
	r, ok := f[email]
	return r, ok
}

func (f fakePerms) CanView(email string) bool {
	_, ok := f[email]
	return ok
}

func (f fakePerms) CanEdit(email string) bool {
	return f[email] == "admin" || f[email] == "editor"
}

func (f fakePerms) IsAdmin(email string) bool {
	return f[email] == "admin"
}

type fakeCSRF struct {
	tokens  map[string]string
	revoked []string
}

func (f *fakeCSRF) GetOrCreateToken(email string) (string, error) {
	if f.tokens == nil {
		f.tokens = map[string]string{}
	}
	if _, ok := f.tokens[email]; !ok {
		f.tokens[email] = "csrf-" + email
	}
	return f.tokens[email], nil
}

func (f *fakeCSRF) Revoke(email string) { f.revoked = append(f.revoked, email) }

type fakeObserver struct {
	outcomes []string
}

func (f *fakeObserver) ObserveSignIn(provider, outcome string) {
	f.outcomes = append(f.outcomes, provider+":"+outcome)
}
