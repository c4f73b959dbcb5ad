package auth

import (
	"context"
	"time"

	"portfolio-cms/internal/rbac"
	apperrors "portfolio-cms/pkg/errors"
	"portfolio-cms/pkg/logger"
	"portfolio-cms/pkg/validator"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// EmailLookup is implemented by providers that can recover a verified
// address through their API when the profile omits it.
type EmailLookup interface {
	LookupEmail(ctx context.Context, token *oauth2.Token) (string, error)
}

// CodeExchanger is the part of a provider the sign-in flow needs.
type CodeExchanger interface {
	Name() string
	ExchangeCode(ctx context.Context, code, verifier string) (*Identity, *oauth2.Token, error)
}

// MemberResolver finds the registry record for an email.
type MemberResolver interface {
	Member(email string) (rbac.Member, bool)
}

// Gate admits exactly one configured email into the admin area. Every
// provider call made during sign-in is bounded by providerTimeout.
type Gate struct {
	allowedEmail    string
	providerTimeout time.Duration
	logger          zerolog.Logger
}

func NewGate(allowedEmail string, providerTimeout time.Duration, log zerolog.Logger) *Gate {
	return &Gate{
		allowedEmail:    validator.NormalizeEmail(allowedEmail),
		providerTimeout: providerTimeout,
		logger:          log,
	}
}

// Configured reports whether an allow-listed email is set.
func (g *Gate) Configured() bool {
	return g.allowedEmail != ""
}

// AllowedEmail returns the normalized allow-listed address.
func (g *Gate) AllowedEmail() string {
	return g.allowedEmail
}

// Admit returns the admitted email or an error explaining the denial. lookup
// may be nil when the provider has no email API.
func (g *Gate) Admit(ctx context.Context, identity *Identity, lookup EmailLookup, token *oauth2.Token) (string, error) {
	if !g.Configured() {
		g.logger.Error().Str("provider", identity.Provider).Msg(msgAllowedEmailMissing)
		return "", apperrors.Configuration(msgAllowedEmailMissing)
	}

	email, ok := identity.Email()
	if !ok {
		recovered, err := g.lookupEmail(ctx, identity, lookup, token)
		if err != nil {
			return "", err
		}
		email = recovered
	}

	if email != g.allowedEmail {
		g.logger.Warn().
			Str("provider", identity.Provider).
			Str("email", logger.MaskEmail(email)).
			Msg(msgEmailNotAllowed)
		return "", apperrors.Unauthenticated(msgEmailNotAllowed)
	}

	return email, nil
}

func (g *Gate) lookupEmail(ctx context.Context, identity *Identity, lookup EmailLookup, token *oauth2.Token) (string, error) {
	if lookup == nil || token == nil {
		g.logger.Warn().Str("provider", identity.Provider).Msg(msgEmailUnavailable)
		return "", apperrors.Unauthenticated(msgEmailUnavailable)
	}

	var email string
	err := g.bounded(ctx, func(ctx context.Context) error {
		var err error
		email, err = lookup.LookupEmail(ctx, token)
		return err
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("provider", identity.Provider).Msg(msgEmailLookupFailed)
		return "", apperrors.UpstreamProvider(msgEmailLookupFailed, err)
	}

	recovered := identity.WithEmail(email)
	address, ok := recovered.Email()
	if !ok {
		g.logger.Warn().Str("provider", identity.Provider).Msg(msgEmailUnavailable)
		return "", apperrors.Unauthenticated(msgEmailUnavailable)
	}
	return address, nil
}

// bounded runs fn with the provider deadline and returns once the deadline
// passes, even if fn ignores its context. fn's results must only be read
// when bounded returns nil.
func (g *Gate) bounded(ctx context.Context, fn func(context.Context) error) error {
	if g.providerTimeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, g.providerTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SignIn turns a provider callback into a session.
type SignIn struct {
	gate    *Gate
	members MemberResolver
	logger  zerolog.Logger
}

func NewSignIn(gate *Gate, members MemberResolver, log zerolog.Logger) *SignIn {
	return &SignIn{gate: gate, members: members, logger: log}
}

// Complete exchanges the code, applies the gate and resolves the role. The
// returned session is not yet signed.
func (s *SignIn) Complete(ctx context.Context, provider CodeExchanger, code, verifier string) (*Session, error) {
	var (
		identity *Identity
		token    *oauth2.Token
	)
	err := s.gate.bounded(ctx, func(ctx context.Context) error {
		var err error
		identity, token, err = provider.ExchangeCode(ctx, code, verifier)
		return err
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", provider.Name()).Msg(msgExchangeFailed)
		return nil, apperrors.UpstreamProvider(msgExchangeFailed, err)
	}

	lookup, _ := provider.(EmailLookup)
	email, err := s.gate.Admit(ctx, identity, lookup, token)
	if err != nil {
		return nil, err
	}

	member, ok := s.members.Member(email)
	if !ok {
		s.logger.Error().Str("email", logger.MaskEmail(email)).Msg(msgAllowedEmailUnregistered)
		return nil, apperrors.Configuration(msgAllowedEmailUnregistered)
	}

	name := identity.DisplayName
	if name == "" {
		name = member.DisplayName
	}
	if name == "" {
		name = email
	}

	return &Session{
		Email:   email,
		Name:    name,
		Picture: identity.AvatarURL,
		Role:    string(member.Role),
	}, nil
}
