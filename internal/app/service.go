package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/http"
	"portfolio-cms/internal/http/middleware"
	"portfolio-cms/internal/rbac"
	"portfolio-cms/internal/repository/postgres"
	"portfolio-cms/internal/storage/s3"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	maintenanceInterval = 5 * time.Minute
	limiterIdleTimeout  = 15 * time.Minute
	serverAddrPrefix    = ":"
)

// Service owns the long-lived resources of a running site.
type Service struct {
	config   *config.Config
	logger   zerolog.Logger
	db       *postgres.DB
	redis    *redis.Client
	s3Client *s3.Client
	csrf     *middleware.CSRFMiddleware
	server   *http.Server
	cancel   context.CancelFunc
}

// Start runs background maintenance and blocks serving HTTP until the server
// is shut down.
func (s *Service) Start(ctx context.Context) error {
	go s.startMaintenance(ctx)

	s.logger.Info().Str("port", s.config.Server.Port).Msg("starting portfolio server")
	if err := s.server.Start(serverAddrPrefix + s.config.Server.Port); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}

// startMaintenance prunes expired presigned URLs and idle rate limiter keys.
func (s *Service) startMaintenance(ctx context.Context) {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.s3Client.PruneURLs()
			if removed := s.server.SweepRateLimiters(limiterIdleTimeout); removed > 0 {
				s.logger.Debug().Int("removed", removed).Msg("rate limiter keys swept")
			}
		}
	}
}

// Shutdown drains the HTTP server, then releases the stores.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	s.cancel()
	s.csrf.Stop()
	closeAll(s.db, s.redis)

	return err
}

// PageViewPurger deletes raw page views recorded before a cutoff.
type PageViewPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgePageViews deletes raw page views older than the requested age.
func PurgePageViews(ctx context.Context, purger PageViewPurger, req *PurgePageViewsRequest, log zerolog.Logger) (*PurgePageViewsResponse, error) {
	if req.OlderThan <= 0 {
		return nil, fmt.Errorf("retention must be positive, got %s", req.OlderThan)
	}

	cutoff := time.Now().UTC().Add(-req.OlderThan)
	deleted, err := purger.PurgeBefore(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to purge page views: %w", err)
	}

	log.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("page views purged")
	return &PurgePageViewsResponse{Cutoff: cutoff, Deleted: deleted}, nil
}

// BuildRoleReport lists every registry member with its predicates and the
// full role/resource permission table.
func BuildRoleReport(p *rbac.Predicates) *RoleReport {
	report := &RoleReport{}

	for _, m := range p.Registry().Members() {
		report.Members = append(report.Members, MemberReport{
			Member:  m,
			CanView: p.CanView(m.Email),
			CanEdit: p.CanEdit(m.Email),
			IsAdmin: p.IsAdmin(m.Email),
		})
	}

	checker := p.Checker()
	for _, role := range checker.Roles() {
		for _, resource := range checker.Resources() {
			var allowed []rbac.Action
			for _, action := range checker.Actions() {
				if checker.IsAuthorized(role.Name, resource, action) {
					allowed = append(allowed, action)
				}
			}
			report.Grants = append(report.Grants, Grant{Role: role.Name, Resource: resource, Actions: allowed})
		}
	}

	return report
}
