package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	apperrors "portfolio-cms/pkg/errors"

	"golang.org/x/oauth2"
)

// Flow holds the per-attempt OAuth values kept in short-lived cookies
// between the redirect to the provider and the callback.
type Flow struct {
	State    string
	Verifier string
}

// NewFlow generates a random state and a PKCE verifier.
func NewFlow() (Flow, error) {
	b := make([]byte, stateByteLength)
	if _, err := rand.Read(b); err != nil {
		return Flow{}, apperrors.InternalServer("failed to generate oauth state", err)
	}
	return Flow{
		State:    base64.RawURLEncoding.EncodeToString(b),
		Verifier: oauth2.GenerateVerifier(),
	}, nil
}

// SetFlowCookies stores the flow for the callback.
func SetFlowCookies(w http.ResponseWriter, f Flow, opts CookieOptions) {
	opts = opts.normalize()
	for name, value := range map[string]string{StateCookieName: f.State, PKCECookieName: f.Verifier} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     cookiePath,
			Domain:   opts.Domain,
			MaxAge:   int(flowCookieTTL.Seconds()),
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: opts.SameSite,
		})
	}
}

// ClearFlowCookies expires both flow cookies.
func ClearFlowCookies(w http.ResponseWriter, opts CookieOptions) {
	opts = opts.normalize()
	for _, name := range []string{StateCookieName, PKCECookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     cookiePath,
			Domain:   opts.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   opts.Secure,
			SameSite: opts.SameSite,
		})
	}
}

// VerifyFlow checks the callback's state against the cookie and returns the
// stored PKCE verifier.
func VerifyFlow(r *http.Request, state string) (string, error) {
	cookie, err := r.Cookie(StateCookieName)
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		return "", apperrors.Unauthenticated(msgStateMismatch)
	}

	verifier, err := r.Cookie(PKCECookieName)
	if err != nil || verifier.Value == "" {
		return "", apperrors.Unauthenticated(msgVerifierMissing)
	}
	return verifier.Value, nil
}
