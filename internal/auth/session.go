package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "portfolio-cms/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the signed-in operator carried in the session cookie. Role is
// informational; guarded actions re-resolve it from the registry.
type Session struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// CookieOptions defines how session and flow cookies are issued.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
	Domain   string
}

func (o CookieOptions) normalize() CookieOptions {
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SessionManager signs sessions into a single HS256 JWT cookie.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	cookie CookieOptions
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration, opts CookieOptions) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		cookie: opts.normalize(),
		now:    time.Now,
	}
}

// CookieOptions exposes the cookie attributes so flow cookies match.
func (m *SessionManager) CookieOptions() CookieOptions {
	return m.cookie
}

// Encode signs s and returns the token with its expiry. IssuedAt and
// ExpiresAt on s are overwritten.
func (m *SessionManager) Encode(s Session) (string, *Session, error) {
	now := m.now().UTC().Truncate(time.Second)
	s.IssuedAt = now
	s.ExpiresAt = now.Add(m.ttl)

	claims := SessionClaims{
		Email:   s.Email,
		Name:    s.Name,
		Picture: s.Picture,
		Role:    s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   s.Email,
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, apperrors.InternalServer(msgSessionSignFailed, err)
	}
	return token, &s, nil
}

// Decode verifies a token and returns the session it carries.
func (m *SessionManager) Decode(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf(msgTokenParseFailed, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, errors.New(msgInvalidTokenClaims)
	}

	s := &Session{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
		Role:    claims.Role,
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return s, nil
}

// Issue signs s and writes the session cookie.
func (m *SessionManager) Issue(w http.ResponseWriter, s Session) (*Session, error) {
	token, issued, err := m.Encode(s)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     cookiePath,
		Domain:   m.cookie.Domain,
		Expires:  issued.ExpiresAt,
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: m.cookie.SameSite,
	})
	return issued, nil
}

// Read returns the session from the request cookie. Missing cookies yield
// ErrUnauthenticated; tampered or expired ones too, with a different message.
func (m *SessionManager) Read(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.Unauthenticated(msgSessionMissing)
	}

	s, err := m.Decode(cookie.Value)
	if err != nil {
		return nil, &apperrors.AppError{Code: "UNAUTHENTICATED", Message: msgSessionInvalid, Err: errors.Join(apperrors.ErrUnauthenticated, err)}
	}
	return s, nil
}

// Clear removes the session cookie.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     cookiePath,
		Domain:   m.cookie.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: m.cookie.SameSite,
	})
}
