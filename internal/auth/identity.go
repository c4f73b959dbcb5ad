package auth

import (
	"strings"

	apperrors "portfolio-cms/pkg/errors"
	"portfolio-cms/pkg/validator"
)

// Identity is what an OAuth provider tells us about the person who signed
// in. It holds facts only; admission decisions belong to the Gate.
type Identity struct {
	Provider       string
	ProviderUserID string
	email          string
	DisplayName    string
	AvatarURL      string
}

// NewIdentity normalizes provider output at the boundary. A malformed email
// is dropped rather than trusted, which routes the identity through the
// email lookup path.
func NewIdentity(provider, providerUserID, email, displayName, avatarURL string) (*Identity, error) {
	provider = strings.TrimSpace(provider)
	providerUserID = strings.TrimSpace(providerUserID)
	if provider == "" || providerUserID == "" {
		return nil, apperrors.Validation(msgIdentityIncomplete)
	}

	email = validator.NormalizeEmail(email)
	if validator.Email(email) != nil {
		email = ""
	}

	return &Identity{
		Provider:       provider,
		ProviderUserID: providerUserID,
		email:          email,
		DisplayName:    strings.TrimSpace(displayName),
		AvatarURL:      strings.TrimSpace(avatarURL),
	}, nil
}

// Email returns the normalized address and whether one is present.
func (i *Identity) Email() (string, bool) {
	return i.email, i.email != ""
}

// HasEmail reports whether the provider supplied a usable address.
func (i *Identity) HasEmail() bool {
	return i.email != ""
}

// WithEmail returns a copy carrying a recovered address.
func (i *Identity) WithEmail(email string) *Identity {
	cp := *i
	cp.email = validator.NormalizeEmail(email)
	if validator.Email(cp.email) != nil {
		cp.email = ""
	}
	return &cp
}
