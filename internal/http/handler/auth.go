package handler

import (
	"errors"
	"net/http"
	"net/url"

	"portfolio-cms/internal/auth"
	apperrors "portfolio-cms/pkg/errors"
	"portfolio-cms/pkg/logger"
	"portfolio-cms/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	adminPath       = "/admin"
	adminSignInPath = "/admin/signin"
)

type AuthHandler struct {
	providers ProviderLookup
	signIn    SignInCompleter
	sessions  SessionIssuer
	perms     PermissionReporter
	csrf      CSRFTokens
	observer  SignInObserver
	baseURL   string
	logger    zerolog.Logger
}

func NewAuthHandler(
	providers ProviderLookup,
	signIn SignInCompleter,
	sessions SessionIssuer,
	perms PermissionReporter,
	csrf CSRFTokens,
	observer SignInObserver,
	baseURL string,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		providers: providers,
		signIn:    signIn,
		sessions:  sessions,
		perms:     perms,
		csrf:      csrf,
		observer:  observer,
		baseURL:   baseURL,
		logger:    log.With().Str("component", "auth_handler").Logger(),
	}
}

// SignIn starts the authorization code flow with PKCE for the provider in
// the path.
func (h *AuthHandler) SignIn(c echo.Context) error {
	p, err := h.providers.Get(c.Param(paramProvider))
	if err != nil {
		return respondError(c, http.StatusNotFound, msgUnknownProvider)
	}

	flow, err := auth.NewFlow()
	if err != nil {
		h.logger.Error().Err(err).Msg(msgSignInStartFail)
		return respondError(c, http.StatusInternalServerError, msgSignInStartFail)
	}

	auth.SetFlowCookies(c.Response(), flow, h.sessions.CookieOptions())
	return c.Redirect(http.StatusFound, p.AuthCodeURL(flow.State, flow.Verifier))
}

// Callback finishes the flow. Every failure ends on the sign-in page with a
// short error code; the reason is only logged.
func (h *AuthHandler) Callback(c echo.Context) error {
	name := c.Param(paramProvider)
	p, err := h.providers.Get(name)
	if err != nil {
		return respondError(c, http.StatusNotFound, msgUnknownProvider)
	}

	opts := h.sessions.CookieOptions()
	if providerErr := c.QueryParam(queryError); providerErr != "" {
		auth.ClearFlowCookies(c.Response(), opts)
		h.logger.Info().Str("provider", name).Str("reason", logger.SanitizeLogMessage(providerErr)).Msg("provider returned an error")
		h.observer.ObserveSignIn(name, metrics.OutcomeDenied)
		return h.denied(c, signInErrorCancelled)
	}

	verifier, err := auth.VerifyFlow(c.Request(), c.QueryParam(queryState))
	auth.ClearFlowCookies(c.Response(), opts)
	if err != nil {
		h.logger.Warn().Err(err).Str("provider", name).Msg("oauth flow verification failed")
		h.observer.ObserveSignIn(name, metrics.OutcomeInvalid)
		return h.denied(c, signInErrorState)
	}

	session, err := h.signIn.Complete(c.Request().Context(), p, c.QueryParam(queryCode), verifier)
	if err != nil {
		return h.signInFailed(c, name, err)
	}

	issued, err := h.sessions.Issue(c.Response(), *session)
	if err != nil {
		h.logger.Error().Err(err).Str("provider", name).Msg("failed to issue session")
		h.observer.ObserveSignIn(name, metrics.OutcomeError)
		return h.denied(c, signInErrorConfiguration)
	}

	h.observer.ObserveSignIn(name, metrics.OutcomeOK)
	h.logger.Info().
		Str("provider", name).
		Str("email", logger.MaskEmail(issued.Email)).
		Str("role", issued.Role).
		Msg("signed in")
	return c.Redirect(http.StatusFound, h.baseURL+adminPath)
}

func (h *AuthHandler) signInFailed(c echo.Context, provider string, err error) error {
	switch {
	case errors.Is(err, apperrors.ErrConfiguration):
		h.observer.ObserveSignIn(provider, metrics.OutcomeError)
		return h.denied(c, signInErrorConfiguration)
	case errors.Is(err, apperrors.ErrUpstreamProvider):
		h.observer.ObserveSignIn(provider, metrics.OutcomeError)
		return h.denied(c, signInErrorProvider)
	default:
		h.observer.ObserveSignIn(provider, metrics.OutcomeDenied)
		return h.denied(c, signInErrorAccessDenied)
	}
}

func (h *AuthHandler) denied(c echo.Context, code string) error {
	return c.Redirect(http.StatusFound, h.baseURL+adminSignInPath+"?"+url.Values{queryError: {code}}.Encode())
}

// SignOut clears the session cookie. It succeeds without a session too.
func (h *AuthHandler) SignOut(c echo.Context) error {
	if s, ok := auth.GetSession(c); ok {
		h.csrf.Revoke(s.Email)
		h.logger.Info().Str("email", logger.MaskEmail(s.Email)).Msg("signed out")
	}
	h.sessions.Clear(c.Response())
	return respondMessage(c, http.StatusOK, msgSignedOut)
}

// Session reports the current operator with permission flags resolved from
// the registry, never from the cookie.
func (h *AuthHandler) Session(c echo.Context) error {
	resp := SessionResponse{Providers: h.providers.Names()}

	s, ok := auth.GetSession(c)
	if !ok {
		return c.JSON(http.StatusOK, resp)
	}

	resp.Authenticated = true
	resp.Email = s.Email
	resp.Name = s.Name
	resp.Picture = s.Picture
	resp.ExpiresAt = &s.ExpiresAt
	if role, found := h.perms.RoleOf(s.Email); found {
		resp.Role = string(role)
	}
	resp.CanView = h.perms.CanView(s.Email)
	resp.CanEdit = h.perms.CanEdit(s.Email)
	resp.IsAdmin = h.perms.IsAdmin(s.Email)

	token, err := h.csrf.GetOrCreateToken(s.Email)
	if err != nil {
		h.logger.Error().Err(err).Msg(msgCSRFTokenFail)
		return respondError(c, http.StatusInternalServerError, msgCSRFTokenFail)
	}
	resp.CSRFToken = token

	return c.JSON(http.StatusOK, resp)
}
