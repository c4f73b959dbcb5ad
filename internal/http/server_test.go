package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/auth"
	"portfolio-cms/internal/auth/provider"
	"portfolio-cms/internal/config"
	"portfolio-cms/internal/http/middleware"
	"portfolio-cms/internal/rbac"
	"portfolio-cms/internal/rbac/presets"
	apperrors "portfolio-cms/pkg/errors"
	"portfolio-cms/pkg/logger"
	"portfolio-cms/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "k3Jp9Qx7Lm2Vz8Rt4Yw6Bn1Hc5Gd0Fs"

type testServer struct {
	server   *Server
	sessions *auth.SessionManager
}

func newTestServer(t *testing.T, readiness ...ReadinessCheck) *testServer {
	t.Helper()
	log := logger.Nop()

	preds, err := presets.PredicatesFor(
		rbac.RegistryEntry{Email: "owner@example.com", Role: presets.RoleAdmin, DisplayName: "Owner"},
		rbac.RegistryEntry{Email: "reader@example.com", Role: presets.RoleViewer, DisplayName: "Reader"},
	)
	require.NoError(t, err)

	sessions := auth.NewSessionManager(testSessionSecret, time.Hour, auth.CookieOptions{})
	csrf := middleware.NewCSRFMiddleware(context.Background())
	t.Cleanup(csrf.Stop)

	cfg := &config.Config{
		App:     config.AppConfig{BaseURL: "https://site.example"},
		Media:   config.MediaConfig{MaxUploadSize: 1 << 20},
		Session: config.SessionConfig{CookieSecure: true},
	}

	srv := NewServer(&ServerDependencies{
		Config:         cfg,
		Logger:         log,
		Metrics:        metrics.New(),
		Actions:        actions.New(actions.Deps{Authorizer: preds, Logger: log}),
		Providers:      provider.NewRegistry(),
		SignIn:         auth.NewSignIn(auth.NewGate("owner@example.com", time.Second, log), preds, log),
		Sessions:       sessions,
		Permissions:    preds,
		AuthMiddleware: auth.NewMiddleware(sessions),
		RBACMiddleware: auth.NewRBACMiddleware(preds),
		CSRFMiddleware: csrf,
		Readiness:      readiness,
	})
	return &testServer{server: srv, sessions: sessions}
}

func (ts *testServer) do(t *testing.T, method, target, email string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader("{}"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if email != "" {
		token, _, err := ts.sessions.Encode(auth.Session{Email: email, Role: "admin"})
		require.NoError(t, err)
		req.AddCookie(&stdhttp.Cookie{Name: auth.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

// ============================================================================
// Routing and middleware
// ============================================================================

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, stdhttp.MethodGet, "/health", "")

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestServer_AdminRequiresRegisteredSession(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		method string
		email  string
		want   int
	}{
		{"anonymous", stdhttp.MethodGet, "", stdhttp.StatusUnauthorized},
		{"signed in but not registered", stdhttp.MethodGet, "random@example.com", stdhttp.StatusForbidden},
		{"write without csrf token", stdhttp.MethodPost, "owner@example.com", stdhttp.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, "/api/admin/posts", tt.email)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestServer_SessionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, stdhttp.MethodGet, "/auth/session", "owner@example.com")
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["authenticated"])
	assert.Equal(t, true, body["is_admin"])
	assert.NotEmpty(t, body["csrf_token"])
}

func TestServer_TamperedCookieIsAnonymous(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(stdhttp.MethodGet, "/auth/session", nil)
	req.AddCookie(&stdhttp.Cookie{Name: auth.SessionCookieName, Value: "not-a-token"})
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)

	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestServer_UnknownProvider(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, stdhttp.MethodGet, "/auth/signin/gitlab", "")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestServer_Readiness(t *testing.T) {
	ok := ReadinessCheck{Name: "postgres", Check: func(context.Context) error { return nil }}
	down := ReadinessCheck{Name: "s3", Check: func(context.Context) error { return errors.New("no route") }}

	rec := newTestServer(t, ok).do(t, stdhttp.MethodGet, "/ready", "")
	assert.Equal(t, stdhttp.StatusOK, rec.Code)

	rec = newTestServer(t, ok, down).do(t, stdhttp.MethodGet, "/ready", "")
	assert.Equal(t, stdhttp.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"s3":"unavailable"`)
	assert.NotContains(t, rec.Body.String(), "no route")
}

func TestServer_SweepRateLimiters(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, stdhttp.MethodGet, "/health", "")

	assert.Equal(t, 0, ts.server.SweepRateLimiters(time.Hour))
	assert.Equal(t, 1, ts.server.SweepRateLimiters(-time.Second))
}

func TestServer_RuntimeDiagnostics(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, stdhttp.MethodGet, "/api/admin/debug/runtime", "owner@example.com")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"goroutines"`)

	rec = ts.do(t, stdhttp.MethodGet, "/api/admin/debug/runtime", "reader@example.com")
	assert.Equal(t, stdhttp.StatusForbidden, rec.Code)

	rec = ts.do(t, stdhttp.MethodGet, "/api/admin/debug/pprof/", "owner@example.com")
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

func TestUploadBodyLimit(t *testing.T) {
	assert.Equal(t, "2048K", uploadBodyLimit(1<<20))
}

// ============================================================================
// Error handler
// ============================================================================

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"echo error", echo.NewHTTPError(stdhttp.StatusTeapot, "brew"), stdhttp.StatusTeapot, "brew"},
		{"not found", apperrors.NotFound("post not found"), stdhttp.StatusNotFound, "post not found"},
		{"unauthenticated", apperrors.ErrUnauthenticated, stdhttp.StatusUnauthorized, "Sign in required"},
		{"unauthorized", apperrors.Unauthorized("no"), stdhttp.StatusForbidden, "no"},
		{"validation", apperrors.Validation("title is required"), stdhttp.StatusBadRequest, "title is required"},
		{"conflict", apperrors.ErrConflict, stdhttp.StatusConflict, "Resource already exists"},
		{"upstream", apperrors.UpstreamProvider("github down", errors.New("x")), stdhttp.StatusBadGateway, "Upstream provider error"},
		{"internal", apperrors.InternalServer("db exploded", errors.New("x")), stdhttp.StatusInternalServerError, msgInternalServerError},
		{"plain", errors.New("boom"), stdhttp.StatusInternalServerError, msgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := mapError(tt.err)
			if code != tt.wantCode || msg != tt.wantMsg {
				t.Errorf("mapError() = (%d, %q), want (%d, %q)", code, msg, tt.wantCode, tt.wantMsg)
			}
		})
	}
}

func TestHTTPErrorHandler_MasksInternalErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.RequestIDContextKey, "req-1")

	NewHTTPErrorHandler(logger.Nop())(errors.New("pq: password authentication failed"), c)

	assert.Equal(t, stdhttp.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.Contains(t, rec.Body.String(), `"request_id":"req-1"`)
}
