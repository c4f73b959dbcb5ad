package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "portfolio-cms/pkg/errors"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envEnableProfiling       = "ENABLE_PROFILING"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envAWSRegion             = "REGION"
	envAWSAccessKeyID        = "AWS_ACCESS_KEY_ID"
	envAWSSecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	envAWSEndpoint           = "AWS_ENDPOINT"
	envMediaBucket           = "MEDIA_BUCKET"
	envMediaPublicBaseURL    = "MEDIA_PUBLIC_BASE_URL"
	envMediaURLExpiry        = "MEDIA_URL_EXPIRY"
	envMaxUploadSize         = "MAX_UPLOAD_SIZE"
	envSessionSecret         = "SESSION_SECRET"
	envSessionTTL            = "SESSION_TTL"
	envCookieSecure          = "COOKIE_SECURE"
	envAdminEmail            = "ADMIN_EMAIL"
	envRoleRegistryFile      = "ROLE_REGISTRY_FILE"
	envProviderTimeout       = "PROVIDER_TIMEOUT"
	envAppBaseURL            = "APP_BASE_URL"
	envGitHubClientID        = "GITHUB_CLIENT_ID"
	envGitHubClientSecret    = "GITHUB_CLIENT_SECRET"
	envGoogleClientID        = "GOOGLE_CLIENT_ID"
	envGoogleClientSecret    = "GOOGLE_CLIENT_SECRET"
	envRedisAddr             = "REDIS_ADDR"
	envRedisPassword         = "REDIS_PASSWORD"
	envRedisDB               = "REDIS_DB"
	envCacheTTL              = "CACHE_TTL"
	envLogLevel              = "LOG_LEVEL"
	envLogFormat             = "LOG_FORMAT"
	envPaginationPageSize    = "PAGINATION_PAGE_SIZE"
	envMailFrom              = "MAIL_FROM"
	envMailNotifyTo          = "MAIL_NOTIFY_TO"
	envResendAPIKey          = "RESEND_API_KEY"
	envSendGridAPIKey        = "SENDGRID_API_KEY"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 30 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "portfolio"
	defaultDBUser             = "portfolio_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 10
	defaultDBMinConns         = 2
	defaultAWSRegion          = "us-east-1"
	defaultMediaURLExpiry     = 15 * time.Minute
	defaultMaxUploadSize      = int64(20 * 1024 * 1024)
	defaultSessionTTL         = 7 * 24 * time.Hour
	defaultCookieSecure       = true
	defaultProviderTimeout    = 5 * time.Second
	defaultRedisDB            = 0
	defaultCacheTTL           = 5 * time.Minute
	defaultLogLevel           = "info"
	defaultLogFormat          = "json"
	defaultPageSize           = 50
	minSessionSecretLength    = 32
	minUniqueCharsInSecret    = 16
	minRepeatedCharThreshold  = 4
	maxRepeatedChars          = 2

	errPortRequired              = "PORT must be set"
	errDBPasswordRequired        = "DB_PASSWORD must be set"
	errSessionSecretRequired     = "SESSION_SECRET must be set"
	errSessionSecretMinLengthFmt = "SESSION_SECRET must be at least %d characters"
	errSessionSecretLowEntropy   = "SESSION_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errAppBaseURLRequired        = "APP_BASE_URL must be set"
	errAppBaseURLInvalidFmt      = "APP_BASE_URL must be an absolute http(s) URL: %q"
	errSessionTTLInvalid         = "SESSION_TTL must be positive"
	errProviderTimeoutInvalid    = "PROVIDER_TIMEOUT must be positive"
	errMaxUploadSizeInvalid      = "MAX_UPLOAD_SIZE must be positive"
	errInvalidConfigurationFmt   = "invalid configuration: %w"

	warnAdminEmailMissing  = "ADMIN_EMAIL is not set: every sign-in will be denied"
	warnNoOAuthProvider    = "no OAuth provider is configured: the admin area is unreachable"
	warnMediaBucketMissing = "MEDIA_BUCKET is not set: media uploads will fail"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AWS      AWSConfig
	Media    MediaConfig
	Session  SessionConfig
	Auth     AuthConfig
	OAuth    OAuthConfig
	Redis    RedisConfig
	Log      LogConfig
	Mail     MailConfig
	App      AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Profiling mounts pprof under the admin diagnostics routes.
	Profiling       bool
}

type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the S3 endpoint for S3-compatible stores.
	Endpoint        string
}

type MediaConfig struct {
	Bucket        string
	PublicBaseURL string
	URLExpiry     time.Duration
	MaxUploadSize int64
}

type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// AuthConfig feeds the access gate and the role registry.
type AuthConfig struct {
	AllowedEmail     string
	RoleRegistryFile string
	ProviderTimeout  time.Duration
}

type OAuthConfig struct {
	GitHub OAuthClient
	Google OAuthClient
}

type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

// Enabled reports whether both halves of the credential pair are present.
func (c OAuthClient) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// Enabled reports whether a Redis address was configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type LogConfig struct {
	Level  string
	Format string
}

// MailConfig drives the owner notification sent for each contact message.
type MailConfig struct {
	From           string
	NotifyTo       string
	ResendAPIKey   string
	SendGridAPIKey string
}

// Enabled reports whether a sender, a recipient and at least one provider
// key are configured.
func (c MailConfig) Enabled() bool {
	return c.From != "" && c.NotifyTo != "" && (c.ResendAPIKey != "" || c.SendGridAPIKey != "")
}

type AppConfig struct {
	BaseURL  string
	PageSize int
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

// FromEnv reads the environment without validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
			Profiling:       getBoolEnv(envEnableProfiling, false),
		},
		Database: DatabaseConfig{
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		AWS: AWSConfig{
			Region:          getEnv(envAWSRegion, defaultAWSRegion),
			AccessKeyID:     os.Getenv(envAWSAccessKeyID),
			SecretAccessKey: os.Getenv(envAWSSecretAccessKey),
			Endpoint:        os.Getenv(envAWSEndpoint),
		},
		Media: MediaConfig{
			Bucket:        os.Getenv(envMediaBucket),
			PublicBaseURL: strings.TrimRight(os.Getenv(envMediaPublicBaseURL), "/"),
			URLExpiry:     getDurationEnv(envMediaURLExpiry, defaultMediaURLExpiry),
			MaxUploadSize: getInt64Env(envMaxUploadSize, defaultMaxUploadSize),
		},
		Session: SessionConfig{
			Secret:       os.Getenv(envSessionSecret),
			TTL:          getDurationEnv(envSessionTTL, defaultSessionTTL),
			CookieSecure: getBoolEnv(envCookieSecure, defaultCookieSecure),
		},
		Auth: AuthConfig{
			AllowedEmail:     strings.TrimSpace(os.Getenv(envAdminEmail)),
			RoleRegistryFile: os.Getenv(envRoleRegistryFile),
			ProviderTimeout:  getDurationEnv(envProviderTimeout, defaultProviderTimeout),
		},
		OAuth: OAuthConfig{
			GitHub: OAuthClient{
				ClientID:     os.Getenv(envGitHubClientID),
				ClientSecret: os.Getenv(envGitHubClientSecret),
			},
			Google: OAuthClient{
				ClientID:     os.Getenv(envGoogleClientID),
				ClientSecret: os.Getenv(envGoogleClientSecret),
			},
		},
		Redis: RedisConfig{
			Addr:     os.Getenv(envRedisAddr),
			Password: os.Getenv(envRedisPassword),
			DB:       getIntEnv(envRedisDB, defaultRedisDB),
			CacheTTL: getDurationEnv(envCacheTTL, defaultCacheTTL),
		},
		Log: LogConfig{
			Level:  getEnv(envLogLevel, defaultLogLevel),
			Format: getEnv(envLogFormat, defaultLogFormat),
		},
		Mail: MailConfig{
			From:           strings.TrimSpace(os.Getenv(envMailFrom)),
			NotifyTo:       strings.TrimSpace(getEnv(envMailNotifyTo, os.Getenv(envAdminEmail))),
			ResendAPIKey:   os.Getenv(envResendAPIKey),
			SendGridAPIKey: os.Getenv(envSendGridAPIKey),
		},
		App: AppConfig{
			BaseURL:  strings.TrimRight(os.Getenv(envAppBaseURL), "/"),
			PageSize: getIntEnv(envPaginationPageSize, defaultPageSize),
		},
	}
}

// Validate reports every hard misconfiguration, each wrapping apperrors.ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", apperrors.ErrConfiguration, fmt.Sprintf(format, args...)))
	}

	if c.Server.Port == "" {
		fail(errPortRequired)
	}

	if c.Database.Password == "" {
		fail(errDBPasswordRequired)
	}

	switch {
	case c.Session.Secret == "":
		fail(errSessionSecretRequired)
	case len(c.Session.Secret) < minSessionSecretLength:
		fail(errSessionSecretMinLengthFmt, minSessionSecretLength)
	case !hasMinimumEntropy(c.Session.Secret):
		fail(errSessionSecretLowEntropy)
	}

	if c.Session.TTL <= 0 {
		fail(errSessionTTLInvalid)
	}

	if c.Auth.ProviderTimeout <= 0 {
		fail(errProviderTimeoutInvalid)
	}

	if c.Media.MaxUploadSize <= 0 {
		fail(errMaxUploadSizeInvalid)
	}

	if c.App.BaseURL == "" {
		fail(errAppBaseURLRequired)
	} else if u, err := url.Parse(c.App.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fail(errAppBaseURLInvalidFmt, c.App.BaseURL)
	}

	return errors.Join(errs...)
}

// Warnings lists soft misconfigurations that keep the public site running
// but disable parts of the admin area.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Auth.AllowedEmail == "" {
		warnings = append(warnings, warnAdminEmailMissing)
	}
	if !c.OAuth.GitHub.Enabled() && !c.OAuth.Google.Enabled() {
		warnings = append(warnings, warnNoOAuthProvider)
	}
	if c.Media.Bucket == "" {
		warnings = append(warnings, warnMediaBucketMissing)
	}
	return warnings
}

// CallbackURL is the redirect URI registered with an OAuth provider.
func (c *Config) CallbackURL(provider string) string {
	return c.App.BaseURL + "/auth/callback/" + provider
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minSessionSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// URL renders the connection string in URL form, as golang-migrate expects.
func (c *DatabaseConfig) URL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		logInvalid(key, value)
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
		logInvalid(key, value)
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		logInvalid(key, value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
		logInvalid(key, value)
	}
	return defaultValue
}
