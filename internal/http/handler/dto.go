package handler

import (
	"time"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/audit"
	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/domain/post"
	"portfolio-cms/internal/domain/setting"
)

// ============================================================================
// Requests
// ============================================================================

type PostRequest struct {
	Slug          string   `json:"slug"`
	Title         string   `json:"title"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	CoverImageURL string   `json:"cover_image_url"`
}

// PostPatchRequest only changes the fields that are present.
type PostPatchRequest struct {
	Slug          *string   `json:"slug"`
	Title         *string   `json:"title"`
	Excerpt       *string   `json:"excerpt"`
	Content       *string   `json:"content"`
	Tags          *[]string `json:"tags"`
	CoverImageURL *string   `json:"cover_image_url"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AltTextRequest struct {
	AltText string `json:"alt_text"`
}

type SettingsRequest struct {
	Values map[string]string `json:"values"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type PageViewRequest struct {
	Path     string `json:"path"`
	Referrer string `json:"referrer"`
}

// ============================================================================
// Responses
// ============================================================================

type PostResponse struct {
	ID             string     `json:"id"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Excerpt        string     `json:"excerpt"`
	Content        string     `json:"content"`
	Tags           []string   `json:"tags"`
	CoverImageURL  string     `json:"cover_image_url,omitempty"`
	Status         string     `json:"status"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	ReadingMinutes int        `json:"reading_minutes"`
	AuthorEmail    string     `json:"author_email,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func newPostResponse(p *post.Post) PostResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:             p.ID.String(),
		Slug:           p.Slug,
		Title:          p.Title,
		Excerpt:        p.Excerpt,
		Content:        p.Content,
		Tags:           tags,
		CoverImageURL:  p.CoverImageURL,
		Status:         string(p.Status),
		PublishedAt:    p.PublishedAt,
		ReadingMinutes: p.ReadingMinutes,
		AuthorEmail:    p.AuthorEmail,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// newPublicPostResponse hides the author's address from visitors.
func newPublicPostResponse(p *post.Post) PostResponse {
	r := newPostResponse(p)
	r.AuthorEmail = ""
	return r
}

func newPostList(posts []*post.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResponse(p))
	}
	return out
}

func newPublicPostList(posts []*post.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPublicPostResponse(p))
	}
	return out
}

type ContactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newContactResponse(s *contact.Submission) ContactResponse {
	return ContactResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Email:     s.Email,
		Subject:   s.Subject,
		Message:   s.Message,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func newContactList(subs []*contact.Submission) []ContactResponse {
	out := make([]ContactResponse, 0, len(subs))
	for _, s := range subs {
		out = append(out, newContactResponse(s))
	}
	return out
}

type MediaResponse struct {
	ID          string    `json:"id"`
	ObjectKey   string    `json:"object_key"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	AltText     string    `json:"alt_text"`
	UploadedBy  string    `json:"uploaded_by"`
	URL         string    `json:"url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func newMediaResponse(m actions.MediaItem) MediaResponse {
	return MediaResponse{
		ID:          m.ID.String(),
		ObjectKey:   m.ObjectKey,
		FileName:    m.FileName,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		AltText:     m.AltText,
		UploadedBy:  m.UploadedBy,
		URL:         m.URL,
		CreatedAt:   m.CreatedAt,
	}
}

func newMediaList(items []actions.MediaItem) []MediaResponse {
	out := make([]MediaResponse, 0, len(items))
	for _, m := range items {
		out = append(out, newMediaResponse(m))
	}
	return out
}

type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSettingList(settings []*setting.Setting) []SettingResponse {
	out := make([]SettingResponse, 0, len(settings))
	for _, s := range settings {
		out = append(out, SettingResponse{
			Key:       s.Key,
			Value:     s.Value,
			UpdatedBy: s.UpdatedBy,
			UpdatedAt: s.UpdatedAt,
		})
	}
	return out
}

type CountResponse struct {
	Key   string `json:"key"`
	Views int64  `json:"views"`
}

type DailyResponse struct {
	Day      string `json:"day"`
	Views    int64  `json:"views"`
	Visitors int64  `json:"visitors"`
}

type AnalyticsResponse struct {
	Days           int             `json:"days"`
	TotalViews     int64           `json:"total_views"`
	UniqueVisitors int64           `json:"unique_visitors"`
	TopPages       []CountResponse `json:"top_pages"`
	TopReferrers   []CountResponse `json:"top_referrers"`
	Daily          []DailyResponse `json:"daily"`
}

func newCounts(counts []analytics.Count) []CountResponse {
	out := make([]CountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, CountResponse{Key: c.Key, Views: c.Views})
	}
	return out
}

func newAnalyticsResponse(s *analytics.Summary) AnalyticsResponse {
	daily := make([]DailyResponse, 0, len(s.Daily))
	for _, d := range s.Daily {
		daily = append(daily, DailyResponse{
			Day:      d.Day.Format(time.DateOnly),
			Views:    d.Views,
			Visitors: d.Visitors,
		})
	}
	return AnalyticsResponse{
		Days:           s.Days,
		TotalViews:     s.TotalViews,
		UniqueVisitors: s.UniqueVisitors,
		TopPages:       newCounts(s.TopPages),
		TopReferrers:   newCounts(s.TopReferrers),
		Daily:          daily,
	}
}

type DashboardResponse struct {
	DraftPosts     int64 `json:"draft_posts"`
	PublishedPosts int64 `json:"published_posts"`
	UnreadContacts int64 `json:"unread_contacts"`
}

func newDashboardResponse(d actions.Dashboard) DashboardResponse {
	return DashboardResponse{
		DraftPosts:     d.Posts[post.StatusDraft],
		PublishedPosts: d.Posts[post.StatusPublished],
		UnreadContacts: d.UnreadContacts,
	}
}

type AuditEventResponse struct {
	ID           string         `json:"id"`
	EventType    string         `json:"event_type"`
	ActorEmail   string         `json:"actor_email"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Action       string         `json:"action"`
	Status       string         `json:"status"`
	RequestID    string         `json:"request_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func newAuditList(events []*audit.Event) []AuditEventResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AuditEventResponse{
			ID:           e.ID.String(),
			EventType:    e.EventType,
			ActorEmail:   e.ActorEmail,
			ResourceType: e.ResourceType,
			ResourceID:   e.ResourceID,
			Action:       e.Action,
			Status:       string(e.Status),
			RequestID:    e.RequestID,
			Metadata:     e.Metadata,
			ErrorMessage: e.ErrorMessage,
			CreatedAt:    e.CreatedAt,
		})
	}
	return out
}

// SessionResponse describes the signed-in operator and what the admin UI may
// show them. The flags are recomputed from the registry on every call.
type SessionResponse struct {
	Authenticated bool       `json:"authenticated"`
	Email         string     `json:"email,omitempty"`
	Name          string     `json:"name,omitempty"`
	Picture       string     `json:"picture,omitempty"`
	Role          string     `json:"role,omitempty"`
	CanView       bool       `json:"can_view"`
	CanEdit       bool       `json:"can_edit"`
	IsAdmin       bool       `json:"is_admin"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CSRFToken     string     `json:"csrf_token,omitempty"`
	Providers     []string   `json:"providers"`
}
