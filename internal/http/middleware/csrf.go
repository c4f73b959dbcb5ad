package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"portfolio-cms/internal/auth"

	"github.com/labstack/echo/v4"
)

const (
	csrfTokenLength = 32
	csrfTokenTTL    = 24 * time.Hour
	csrfHeaderName  = "X-CSRF-Token"
	cleanupInterval = 1 * time.Hour

	msgCSRFMissing  = "CSRF token required"
	msgCSRFUnknown  = "CSRF token not found"
	msgCSRFExpired  = "CSRF token expired"
	msgCSRFMismatch = "invalid CSRF token"
)

// CSRFToken represents a CSRF token with expiry
type CSRFToken struct {
	Token     string
	ExpiresAt time.Time
}

// CSRFMiddleware issues one token per signed-in email and checks it on
// state-changing requests.
type CSRFMiddleware struct {
	tokens  sync.Map // email -> *CSRFToken
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
}

// NewCSRFMiddleware creates a new CSRF middleware with background cleanup
func NewCSRFMiddleware(ctx context.Context) *CSRFMiddleware {
	cleanupCtx, cancel := context.WithCancel(ctx)
	m := &CSRFMiddleware{
		now:     time.Now,
		ctx:     cleanupCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

// Stop gracefully stops the cleanup goroutine
func (m *CSRFMiddleware) Stop() {
	m.cancel()
	<-m.stopped
}

func (m *CSRFMiddleware) cleanupLoop() {
	defer close(m.stopped)

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.CleanupExpiredTokens()
		}
	}
}

func generateToken() (string, error) {
	bytes := make([]byte, csrfTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GetOrCreateToken returns the live token for email, minting one when none
// exists or the old one expired.
func (m *CSRFMiddleware) GetOrCreateToken(email string) (string, error) {
	if tok, ok := m.lookup(email); ok {
		return tok.Token, nil
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	m.tokens.Store(email, &CSRFToken{
		Token:     token,
		ExpiresAt: m.now().Add(csrfTokenTTL),
	})
	return token, nil
}

// Revoke forgets the token for email. Called on sign-out.
func (m *CSRFMiddleware) Revoke(email string) {
	m.tokens.Delete(email)
}

func (m *CSRFMiddleware) lookup(email string) (*CSRFToken, bool) {
	raw, exists := m.tokens.Load(email)
	if !exists {
		return nil, false
	}
	tok, ok := raw.(*CSRFToken)
	if !ok || !m.now().Before(tok.ExpiresAt) {
		return nil, false
	}
	return tok, true
}

// Middleware rejects unsafe requests from a session that do not carry the
// session's token in the X-CSRF-Token header. Anonymous requests pass; the
// session guard decides about those.
func (m *CSRFMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			method := c.Request().Method
			if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
				return next(c)
			}

			s, ok := auth.GetSession(c)
			if !ok {
				return next(c)
			}

			raw, exists := m.tokens.Load(s.Email)
			if !exists {
				return c.JSON(http.StatusForbidden, map[string]string{"error": msgCSRFUnknown})
			}
			expected, ok := raw.(*CSRFToken)
			if !ok || m.now().After(expected.ExpiresAt) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": msgCSRFExpired})
			}

			provided := c.Request().Header.Get(csrfHeaderName)
			if provided == "" {
				return c.JSON(http.StatusForbidden, map[string]string{"error": msgCSRFMissing})
			}

			if subtle.ConstantTimeCompare([]byte(provided), []byte(expected.Token)) != 1 {
				return c.JSON(http.StatusForbidden, map[string]string{"error": msgCSRFMismatch})
			}

			return next(c)
		}
	}
}

// CleanupExpiredTokens removes expired tokens (called by background goroutine)
func (m *CSRFMiddleware) CleanupExpiredTokens() {
	now := m.now()
	m.tokens.Range(func(key, value any) bool {
		if tok, ok := value.(*CSRFToken); ok && now.After(tok.ExpiresAt) {
			m.tokens.Delete(key)
		}
		return true
	})
}
