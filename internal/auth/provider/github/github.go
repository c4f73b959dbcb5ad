package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"portfolio-cms/internal/auth"

	"github.com/google/go-github/v61/github"
	"golang.org/x/oauth2"
	xgithub "golang.org/x/oauth2/github"
)

const providerName = "github"

// Provider signs operators in with GitHub. The API calls are fields so tests
// can replace them without a live GitHub.
type Provider struct {
	oauthConfig *oauth2.Config

	AuthenticatedUser func(ctx context.Context, client *http.Client) (*github.User, error)
	ListEmails        func(ctx context.Context, client *http.Client) ([]*github.UserEmail, error)
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     xgithub.Endpoint,
			Scopes: []string{
				"read:user",
				"user:email",
			},
		},
		AuthenticatedUser: func(ctx context.Context, client *http.Client) (*github.User, error) {
			user, _, err := github.NewClient(client).Users.Get(ctx, "")
			return user, err
		},
		ListEmails: func(ctx context.Context, client *http.Client) ([]*github.UserEmail, error) {
			emails, _, err := github.NewClient(client).Users.ListEmails(ctx, &github.ListOptions{PerPage: 100})
			return emails, err
		},
	}, nil
}

// WithEndpoint overrides the OAuth endpoint, used against GitHub Enterprise
// and in tests.
func (p *Provider) WithEndpoint(endpoint oauth2.Endpoint) *Provider {
	p.oauthConfig.Endpoint = endpoint
	return p
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

// ExchangeCode returns the profile identity. GitHub omits the email when the
// user keeps it private; LookupEmail recovers it.
func (p *Provider) ExchangeCode(ctx context.Context, code, verifier string) (*auth.Identity, *oauth2.Token, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	user, err := p.AuthenticatedUser(ctx, client)
	if err != nil {
		return nil, nil, fmt.Errorf("get authenticated github user: %w", err)
	}
	if user == nil || user.GetID() == 0 {
		return nil, nil, errors.New("github returned an empty profile")
	}

	name := user.GetName()
	if name == "" {
		name = user.GetLogin()
	}

	identity, err := auth.NewIdentity(
		providerName,
		strconv.FormatInt(user.GetID(), 10),
		user.GetEmail(),
		name,
		user.GetAvatarURL(),
	)
	if err != nil {
		return nil, nil, err
	}
	return identity, token, nil
}

// LookupEmail lists the account's addresses and returns the preferred
// verified one, or "" when none is verified.
func (p *Provider) LookupEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	emails, err := p.ListEmails(ctx, client)
	if err != nil {
		return "", fmt.Errorf("list github emails: %w", err)
	}
	return SelectEmail(emails), nil
}

// SelectEmail prefers the primary verified address, then any verified one.
func SelectEmail(emails []*github.UserEmail) string {
	var fallback string
	for _, e := range emails {
		if e == nil || !e.GetVerified() || e.GetEmail() == "" {
			continue
		}
		if e.GetPrimary() {
			return e.GetEmail()
		}
		if fallback == "" {
			fallback = e.GetEmail()
		}
	}
	return fallback
}
