package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"portfolio-cms/internal/actions"
	"portfolio-cms/internal/auth"
	"portfolio-cms/internal/config"
	"portfolio-cms/internal/http/handler"
	"portfolio-cms/internal/http/middleware"
	"portfolio-cms/internal/rbac/presets"
	"portfolio-cms/pkg/metrics"
	"portfolio-cms/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	jsonKeyStatus     = "status"
	jsonKeyChecks     = "checks"
	statusOK          = "ok"
	statusUnavailable = "unavailable"
	requestBodyLimit  = "1M"
	mediaUploadPath   = "/api/admin/media"
	readinessTimeout  = 3 * time.Second
	multipartOverhead = 1 << 20
)

// ReadinessCheck is one dependency probed by /ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type ServerDependencies struct {
	Config         *config.Config
	Logger         zerolog.Logger
	Metrics        *metrics.Metrics
	Actions        *actions.Actions
	Providers      handler.ProviderLookup
	SignIn         handler.SignInCompleter
	Sessions       handler.SessionIssuer
	Permissions    handler.PermissionReporter
	AuthMiddleware *auth.Middleware
	RBACMiddleware *auth.RBACMiddleware
	CSRFMiddleware *middleware.CSRFMiddleware
	Readiness      []ReadinessCheck
}

type Server struct {
	echo     *echo.Echo
	deps     *ServerDependencies
	limiters []*middleware.RateLimiter
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware (first, so all logs have request ID)
	e.Use(middleware.RequestID())
	e.Use(middleware.SecurityHeaders(deps.Config.Session.CookieSecure))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(deps.Metrics.Middleware())
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit: requestBodyLimit,
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == stdhttp.MethodPost && c.Path() == mediaUploadPath
		},
	}))
	e.Use(deps.AuthMiddleware.LoadSession())

	// Global rate limiting, keyed by session when there is one
	globalRateLimiter := middleware.NewGlobalRateLimiter()
	e.Use(globalRateLimiter.Middleware())

	strictRateLimiter := middleware.NewStrictRateLimiter()
	contactRateLimiter := middleware.NewContactRateLimiter()

	authHandler := handler.NewAuthHandler(
		deps.Providers,
		deps.SignIn,
		deps.Sessions,
		deps.Permissions,
		deps.CSRFMiddleware,
		deps.Metrics,
		deps.Config.App.BaseURL,
		deps.Logger,
	)
	publicHandler := handler.NewPublicHandler(deps.Actions)
	postHandler := handler.NewPostHandler(deps.Actions)
	contactHandler := handler.NewContactHandler(deps.Actions)
	mediaHandler := handler.NewMediaHandler(deps.Actions, deps.Logger)
	siteHandler := handler.NewSiteHandler(deps.Actions)

	deps.Metrics.RegisterRoute(e)
	e.GET("/health", healthCheck)
	e.GET("/ready", readinessCheck(deps.Readiness, deps.Logger))

	authGroup := e.Group("/auth", strictRateLimiter.Middleware())
	authGroup.GET("/signin/:provider", authHandler.SignIn)
	authGroup.GET("/callback/:provider", authHandler.Callback)
	authGroup.POST("/signout", authHandler.SignOut, deps.CSRFMiddleware.Middleware())
	authGroup.GET("/session", authHandler.Session)

	api := e.Group("/api")
	api.GET("/posts", publicHandler.ListPosts)
	api.GET("/posts/:slug", publicHandler.GetPost)
	api.GET("/settings", publicHandler.Settings)
	api.POST("/contact", publicHandler.SubmitContact, strictRateLimiter.Middleware(), contactRateLimiter.Middleware())
	api.POST("/analytics/pageview", publicHandler.RecordPageView)

	admin := api.Group("/admin")
	admin.Use(deps.AuthMiddleware.RequireSession())
	admin.Use(deps.RBACMiddleware.RequireMember())
	admin.Use(deps.CSRFMiddleware.Middleware())

	admin.GET("/posts", postHandler.ListPosts)
	admin.POST("/posts", postHandler.CreatePost)
	admin.GET("/posts/:id", postHandler.GetPost)
	admin.PUT("/posts/:id", postHandler.UpdatePost)
	admin.POST("/posts/:id/publish", postHandler.PublishPost)
	admin.POST("/posts/:id/unpublish", postHandler.UnpublishPost)
	admin.DELETE("/posts/:id", postHandler.DeletePost)

	admin.GET("/contacts", contactHandler.ListSubmissions)
	admin.GET("/contacts/:id", contactHandler.GetSubmission)
	admin.PUT("/contacts/:id/status", contactHandler.UpdateStatus)
	admin.DELETE("/contacts/:id", contactHandler.DeleteSubmission)

	admin.GET("/media", mediaHandler.ListMedia)
	admin.POST("/media", mediaHandler.Upload, echomiddleware.BodyLimit(uploadBodyLimit(deps.Config.Media.MaxUploadSize)))
	admin.PUT("/media/:id", mediaHandler.UpdateAltText)
	admin.DELETE("/media/:id", mediaHandler.DeleteMedia)

	admin.GET("/settings", siteHandler.ListSettings)
	admin.PUT("/settings", siteHandler.UpdateSettings)
	admin.GET("/analytics", siteHandler.Analytics)
	admin.GET("/dashboard", siteHandler.Dashboard)
	admin.GET("/audit", siteHandler.ListAuditEvents)

	debug := admin.Group("/debug", deps.RBACMiddleware.RequirePermission(presets.ResourceSystem, presets.ActionView))
	debug.GET("/runtime", profiling.RuntimeHandler(time.Now()))
	if deps.Config.Server.Profiling {
		profiling.RegisterPprofRoutes(debug.Group("/pprof"))
	}

	return &Server{
		echo:     e,
		deps:     deps,
		limiters: []*middleware.RateLimiter{globalRateLimiter, strictRateLimiter, contactRateLimiter},
	}
}

// uploadBodyLimit leaves room for the multipart envelope around the file.
func uploadBodyLimit(maxUpload int64) string {
	return fmt.Sprintf("%dK", (maxUpload+multipartOverhead)/1024)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Warn().Err(v.Error)
			}
			event.
				Str("request_id", middleware.GetRequestID(c)).
				Str("method", v.Method).
				Str("path", v.URIPath).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() stdhttp.Handler {
	return s.echo
}

// SweepRateLimiters drops limiter state for keys idle longer than idle.
func (s *Server) SweepRateLimiters(idle time.Duration) int {
	removed := 0
	for _, rl := range s.limiters {
		removed += rl.Sweep(idle)
	}
	return removed
}

func healthCheck(c echo.Context) error {
	return c.JSON(stdhttp.StatusOK, map[string]string{
		jsonKeyStatus: statusOK,
	})
}

// readinessCheck reports 503 when any dependency probe fails. Failure
// details stay in the logs.
func readinessCheck(checks []ReadinessCheck, log zerolog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
		defer cancel()

		status := stdhttp.StatusOK
		results := make(map[string]string, len(checks))
		for _, check := range checks {
			if err := check.Check(ctx); err != nil {
				log.Error().Err(err).Str("check", check.Name).Msg("readiness check failed")
				results[check.Name] = statusUnavailable
				status = stdhttp.StatusServiceUnavailable
				continue
			}
			results[check.Name] = statusOK
		}

		overall := statusOK
		if status != stdhttp.StatusOK {
			overall = statusUnavailable
		}
		return c.JSON(status, map[string]any{
			jsonKeyStatus: overall,
			jsonKeyChecks: results,
		})
	}
}
