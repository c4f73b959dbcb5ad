package provider

import (
	"context"

	"portfolio-cms/internal/auth"

	"golang.org/x/oauth2"
)

// OAuthProvider is the contract every external sign-in provider implements.
// Implementations return identity facts only; admission belongs to the gate.
type OAuthProvider interface {
	// Name returns the identifier used in routes, e.g. "github".
	Name() string

	// AuthCodeURL returns the authorization URL. The caller owns state and
	// the PKCE verifier; the provider derives the S256 challenge.
	AuthCodeURL(state, verifier string) string

	// ExchangeCode trades the code for a token and a normalized identity.
	ExchangeCode(ctx context.Context, code, verifier string) (*auth.Identity, *oauth2.Token, error)
}
