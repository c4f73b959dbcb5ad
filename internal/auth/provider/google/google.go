package google

import (
	"context"
	"errors"
	"fmt"

	"portfolio-cms/internal/auth"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const (
	providerName = "google"
	issuerURL    = "https://accounts.google.com"
)

type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New discovers Google's OIDC configuration. It performs a network call.
func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*Provider, error) {
	return NewWithIssuer(ctx, issuerURL, clientID, clientSecret, redirectURL)
}

// NewWithIssuer is New against an arbitrary OIDC issuer.
func NewWithIssuer(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes: []string{
				oidc.ScopeOpenID,
				"profile",
				"email",
			},
		},
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

type idTokenClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (p *Provider) ExchangeCode(ctx context.Context, code, verifier string) (*auth.Identity, *oauth2.Token, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, nil, errors.New("google did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}

	identity, err := identityFromClaims(claims)
	if err != nil {
		return nil, nil, err
	}
	return identity, token, nil
}

// identityFromClaims drops unverified addresses. Google has no email API to
// fall back on, so such identities are denied by the gate.
func identityFromClaims(claims idTokenClaims) (*auth.Identity, error) {
	email := claims.Email
	if !claims.EmailVerified {
		email = ""
	}
	return auth.NewIdentity(providerName, claims.Subject, email, claims.Name, claims.Picture)
}
