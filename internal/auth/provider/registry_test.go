package provider

import (
	"context"
	"testing"

	"portfolio-cms/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type fakeProvider struct{ name string }

func (f fakeProvider) Name() string                       { return f.name }
func (f fakeProvider) AuthCodeURL(state, _ string) string { return "https://idp/" + f.name + "?state=" + state }
func (f fakeProvider) ExchangeCode(context.Context, string, string) (*auth.Identity, *oauth2.Token, error) {
	return nil, nil, nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(fakeProvider{"google"}, nil, fakeProvider{"github"})

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"github", "google"}, r.Names())

	p, err := r.Get("github")
	require.NoError(t, err)
	assert.Equal(t, "github", p.Name())

	_, err = r.Get("gitlab")
	assert.Error(t, err)
}
