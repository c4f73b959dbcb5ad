package config

import (
	"testing"
	"time"

	apperrors "portfolio-cms/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "k3J9xq2LmP8vR4tZ7wYbN1cD6fH0gS5aQeUiOoTr"

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{Password: "pw"},
		Session:  SessionConfig{Secret: testSecret, TTL: time.Hour},
		Auth:     AuthConfig{AllowedEmail: "owner@example.com", ProviderTimeout: time.Second},
		Media:    MediaConfig{Bucket: "media", MaxUploadSize: 1024},
		OAuth:    OAuthConfig{GitHub: OAuthClient{ClientID: "id", ClientSecret: "secret"}},
		App:      AppConfig{BaseURL: "https://example.com"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Session.Secret = "" }, wantErr: "SESSION_SECRET must be set"},
		{name: "short secret", mutate: func(c *Config) { c.Session.Secret = "abc" }, wantErr: "at least 32"},
		{name: "low entropy secret", mutate: func(c *Config) { c.Session.Secret = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" }, wantErr: "insufficient entropy"},
		{name: "missing db password", mutate: func(c *Config) { c.Database.Password = "" }, wantErr: "DB_PASSWORD"},
		{name: "missing base url", mutate: func(c *Config) { c.App.BaseURL = "" }, wantErr: "APP_BASE_URL must be set"},
		{name: "relative base url", mutate: func(c *Config) { c.App.BaseURL = "/admin" }, wantErr: "absolute"},
		{name: "zero provider timeout", mutate: func(c *Config) { c.Auth.ProviderTimeout = 0 }, wantErr: "PROVIDER_TIMEOUT"},
		// A missing allow-listed email is a soft failure handled by the gate.
		{name: "missing admin email still loads", mutate: func(c *Config) { c.Auth.AllowedEmail = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := validConfig()
	assert.Empty(t, cfg.Warnings())

	cfg.Auth.AllowedEmail = ""
	cfg.OAuth = OAuthConfig{}
	cfg.Media.Bucket = ""

	assert.ElementsMatch(t, []string{warnAdminEmailMissing, warnNoOAuthProvider, warnMediaBucketMissing}, cfg.Warnings())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(envAdminEmail, "  Owner@Example.com ")
	t.Setenv(envSessionTTL, "90")
	t.Setenv(envCookieSecure, "false")
	t.Setenv(envAppBaseURL, "https://example.com/")
	t.Setenv(envDBMaxConns, "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, "Owner@Example.com", cfg.Auth.AllowedEmail)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, "https://example.com", cfg.App.BaseURL)
	assert.Equal(t, defaultDBMaxConns, cfg.Database.MaxConns)
	assert.Equal(t, "https://example.com/auth/callback/github", cfg.CallbackURL("github"))
	assert.Equal(t, "Owner@Example.com", cfg.Mail.NotifyTo)
	assert.False(t, cfg.Mail.Enabled())
}

func TestMailEnabled(t *testing.T) {
	tests := []struct {
		name string
		mail MailConfig
		want bool
	}{
		{"nothing set", MailConfig{}, false},
		{"no provider key", MailConfig{From: "site@example.com", NotifyTo: "owner@example.com"}, false},
		{"no recipient", MailConfig{From: "site@example.com", ResendAPIKey: "re_123"}, false},
		{"resend", MailConfig{From: "site@example.com", NotifyTo: "owner@example.com", ResendAPIKey: "re_123"}, true},
		{"sendgrid", MailConfig{From: "site@example.com", NotifyTo: "owner@example.com", SendGridAPIKey: "SG.123"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mail.Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", Database: "portfolio", SSLMode: "disable"}
	assert.Equal(t, "pgx5://app:p%40ss@db:5432/portfolio?sslmode=disable", db.URL("pgx5"))
}
