package actions

import (
	"context"

	"portfolio-cms/internal/audit"
	"portfolio-cms/internal/auth"
	"portfolio-cms/internal/rbac"
	"portfolio-cms/internal/rbac/presets"
	apperrors "portfolio-cms/pkg/errors"
)

// op describes one guarded action. The guard always runs the steps in the
// same order: authorize, validate, run, invalidate, record.
type op[T any] struct {
	name     string
	resource rbac.Resource
	action   rbac.Action
	target   string

	validate   func() error
	run        func(ctx context.Context, actor string) (T, error)
	invalidate func(T) []string
	targetOf   func(T) string
	metadata   map[string]any
}

func (o op[T]) mutates() bool {
	return o.action != presets.ActionView
}

func guarded[T any](ctx context.Context, a *Actions, o op[T]) (res Result[T]) {
	defer func() { a.metrics.ObserveAction(o.name, outcome(res.Err)) }()

	actor, f := a.authorize(ctx, o.resource, o.action)
	if f != nil {
		a.logger.Warn().
			Str("action", o.name).
			Str("kind", string(f.Kind)).
			Err(f.cause).
			Msg("action rejected")
		a.record(ctx, o.name, o.resource, o.action, actor, o.target, audit.StatusDenied, f, o.metadata)
		return failed[T](f)
	}

	if o.validate != nil {
		if err := o.validate(); err != nil {
			return failed[T](invalid(err))
		}
	}

	value, err := o.run(ctx, actor)
	if err != nil {
		f := classify(err)
		if f.Kind == KindInternal {
			a.logger.Error().Err(err).Str("action", o.name).Str("target", o.target).Msg("action failed")
		}
		if o.mutates() {
			a.record(ctx, o.name, o.resource, o.action, actor, o.target, audit.StatusFailure, f, o.metadata)
		}
		return failed[T](f)
	}

	if o.invalidate != nil {
		if keys := o.invalidate(value); len(keys) > 0 {
			if err := a.cache.Invalidate(ctx, keys...); err != nil {
				a.logger.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
			}
		}
	}

	if o.mutates() {
		target := o.target
		if o.targetOf != nil {
			target = o.targetOf(value)
		}
		a.record(ctx, o.name, o.resource, o.action, actor, target, audit.StatusSuccess, nil, o.metadata)
	}

	return ok(value)
}

// authorize resolves the session from ctx and re-checks the registry. The
// role carried in the session is never trusted.
func (a *Actions) authorize(ctx context.Context, resource rbac.Resource, action rbac.Action) (string, *Failure) {
	session, found := auth.SessionFromContext(ctx)
	if !found || session.Email == "" {
		return "", fail(KindUnauthenticated, msgUnauthenticated, apperrors.ErrUnauthenticated)
	}

	if err := a.authz.Authorize(session.Email, resource, action); err != nil {
		return session.Email, fail(KindUnauthorized, msgUnauthorized, err)
	}

	return session.Email, nil
}

func (a *Actions) record(ctx context.Context, name string, resource rbac.Resource, action rbac.Action,
	actor, target string, status audit.Status, f *Failure, metadata map[string]any) {
	info := RequestInfoFrom(ctx)
	event := &audit.Event{
		EventType:    name,
		ActorEmail:   actor,
		ResourceType: string(resource),
		ResourceID:   target,
		Action:       string(action),
		Status:       status,
		IPAddress:    info.IPAddress,
		UserAgent:    info.UserAgent,
		RequestID:    info.RequestID,
		Metadata:     metadata,
	}
	if f != nil {
		event.ErrorMessage = f.Error()
	}
	a.audit.Record(event)
}
