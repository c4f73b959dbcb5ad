package app

import (
	"context"
	"fmt"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/audit"
	"portfolio-cms/internal/auth"
	"portfolio-cms/internal/auth/provider"
	"portfolio-cms/internal/auth/provider/github"
	"portfolio-cms/internal/auth/provider/google"
	"portfolio-cms/internal/config"
	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/http"
	"portfolio-cms/internal/http/middleware"
	"portfolio-cms/internal/infra/cache"
	"portfolio-cms/internal/notify"
	"portfolio-cms/internal/rbac/presets"
	"portfolio-cms/internal/repository/postgres"
	"portfolio-cms/internal/storage/s3"
	"portfolio-cms/pkg/mailer"
	"portfolio-cms/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	providerGitHub = "github"
	providerGoogle = "google"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Service, error) {
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}

	predicates, err := presets.NewPredicates(cfg.Auth.RoleRegistryFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load role registry: %w", err)
	}
	log.Info().Int("members", predicates.Registry().Len()).Msg("role registry loaded")

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("database connection established")

	s3Client, err := s3.NewClient(&cfg.AWS, &cfg.Media)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	var (
		store       cache.Store = cache.NopStore{}
		redisClient *redis.Client
	)
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			db.Close()
			return nil, err
		}
		store = cache.NewRedisStore(redisClient, cfg.Redis.CacheTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis cache enabled")
	}

	providers, err := buildProviders(ctx, cfg)
	if err != nil {
		closeAll(db, redisClient)
		return nil, err
	}
	if providers.Len() == 0 {
		log.Warn().Msg("no OAuth providers configured, sign-in is disabled")
	}

	notifier, err := buildNotifier(cfg)
	if err != nil {
		closeAll(db, redisClient)
		return nil, err
	}
	if notifier == nil {
		log.Info().Msg("mail not configured, contact notifications are off")
	}

	m := metrics.New()

	acts := actions.New(actions.Deps{
		Authorizer:    predicates,
		Posts:         postgres.NewPostRepository(db),
		Contacts:      postgres.NewContactRepository(db),
		Media:         postgres.NewMediaRepository(db),
		Settings:      postgres.NewSettingRepository(db),
		Analytics:     postgres.NewAnalyticsRepository(db),
		Objects:       s3Client,
		Cache:         store,
		Audit:         audit.NewLogger(db.Pool, log),
		Metrics:       m,
		Notifier:      notifier,
		Hasher:        analytics.NewHasher(cfg.Session.Secret),
		MaxUploadSize: cfg.Media.MaxUploadSize,
		PageSize:      cfg.App.PageSize,
		Logger:        log,
	})

	sessions := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL, auth.CookieOptions{
		Secure: cfg.Session.CookieSecure,
	})
	gate := auth.NewGate(cfg.Auth.AllowedEmail, cfg.Auth.ProviderTimeout, log)

	bgCtx, cancel := context.WithCancel(context.Background())
	csrf := middleware.NewCSRFMiddleware(bgCtx)

	readiness := []http.ReadinessCheck{
		{Name: "postgres", Check: db.Ping},
		{Name: "s3", Check: s3Client.Ping},
	}
	if redisClient != nil {
		readiness = append(readiness, http.ReadinessCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		})
	}

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Logger:         log,
		Metrics:        m,
		Actions:        acts,
		Providers:      providers,
		SignIn:         auth.NewSignIn(gate, predicates, log),
		Sessions:       sessions,
		Permissions:    predicates,
		AuthMiddleware: auth.NewMiddleware(sessions),
		RBACMiddleware: auth.NewRBACMiddleware(predicates),
		CSRFMiddleware: csrf,
		Readiness:      readiness,
	})

	return &Service{
		config:   cfg,
		logger:   log,
		db:       db,
		redis:    redisClient,
		s3Client: s3Client,
		csrf:     csrf,
		server:   server,
		cancel:   cancel,
	}, nil
}

// buildProviders registers every provider whose client credentials are set.
func buildProviders(ctx context.Context, cfg *config.Config) (*provider.Registry, error) {
	var list []provider.OAuthProvider

	if cfg.OAuth.GitHub.Enabled() {
		p, err := github.New(cfg.OAuth.GitHub.ClientID, cfg.OAuth.GitHub.ClientSecret, cfg.CallbackURL(providerGitHub))
		if err != nil {
			return nil, fmt.Errorf("failed to configure github sign-in: %w", err)
		}
		list = append(list, p)
	}

	if cfg.OAuth.Google.Enabled() {
		p, err := google.New(ctx, cfg.OAuth.Google.ClientID, cfg.OAuth.Google.ClientSecret, cfg.CallbackURL(providerGoogle))
		if err != nil {
			return nil, fmt.Errorf("failed to configure google sign-in: %w", err)
		}
		list = append(list, p)
	}

	return provider.NewRegistry(list...), nil
}

// buildNotifier returns nil when mail is not configured.
func buildNotifier(cfg *config.Config) (actions.ContactNotifier, error) {
	if !cfg.Mail.Enabled() {
		return nil, nil
	}

	var list []mailer.Provider
	if cfg.Mail.ResendAPIKey != "" {
		list = append(list, mailer.NewResendProvider(mailer.ResendConfig{APIKey: cfg.Mail.ResendAPIKey}))
	}
	if cfg.Mail.SendGridAPIKey != "" {
		list = append(list, mailer.NewSendGridProvider(mailer.SendGridConfig{APIKey: cfg.Mail.SendGridAPIKey}))
	}

	m, err := mailer.New(cfg.Mail.From, list...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure mail: %w", err)
	}
	return notify.NewContactNotifier(m, cfg.Mail.NotifyTo, cfg.App.BaseURL), nil
}

func closeAll(db *postgres.DB, redisClient *redis.Client) {
	if redisClient != nil {
		_ = redisClient.Close()
	}
	db.Close()
}
