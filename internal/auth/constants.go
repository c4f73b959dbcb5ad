package auth

import "time"

const (
	SessionCookieName = "portfolio_session"
	StateCookieName   = "__oauth_state"
	PKCECookieName    = "__oauth_pkce"

	ContextKeySession = "session"

	flowCookieTTL   = 5 * time.Minute
	stateByteLength = 32
	cookiePath      = "/"
	sessionIssuer   = "portfolio-cms"
	jsonKeyError    = "error"
)

const (
	msgIdentityIncomplete       = "identity is missing provider or subject"
	msgSessionMissing           = "sign in required"
	msgSessionInvalid           = "session is invalid or expired"
	msgUnexpectedSigningMethod  = "unexpected signing method: %v"
	msgTokenParseFailed         = "failed to parse session token: %w"
	msgInvalidTokenClaims       = "invalid session claims"
	msgSessionSignFailed        = "failed to sign session"
	msgAllowedEmailMissing      = "allow-listed admin email is not configured"
	msgAllowedEmailUnregistered = "allow-listed admin email has no role registry entry"
	msgEmailUnavailable         = "provider did not supply a verified email"
	msgEmailLookupFailed        = "provider email lookup failed"
	msgEmailNotAllowed          = "email is not allowed to sign in"
	msgExchangeFailed           = "provider code exchange failed"
	msgStateMismatch            = "oauth state mismatch"
	msgVerifierMissing          = "oauth verifier missing"
)
