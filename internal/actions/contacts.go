package actions

import (
	"context"
	"fmt"

	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/rbac/presets"

	"github.com/google/uuid"
)

const (
	actionContactList   = "contact.list"
	actionContactGet    = "contact.get"
	actionContactStatus = "contact.update_status"
	actionContactDelete = "contact.delete"

	errUnknownStatusFmt = "unknown submission status %q"
)

func (a *Actions) ListSubmissions(ctx context.Context, filter contact.ListSubmissionsFilter) Result[[]*contact.Submission] {
	return guarded(ctx, a, op[[]*contact.Submission]{
		name:     actionContactList,
		resource: presets.ResourceContact,
		action:   presets.ActionView,
		validate: func() error {
			if filter.Status != nil && !contact.ValidStatus(*filter.Status) {
				return fmt.Errorf(errUnknownStatusFmt, *filter.Status)
			}
			return nil
		},
		run: func(ctx context.Context, _ string) ([]*contact.Submission, error) {
			return a.contacts.List(ctx, filter)
		},
	})
}

func (a *Actions) GetSubmission(ctx context.Context, id uuid.UUID) Result[*contact.Submission] {
	return guarded(ctx, a, op[*contact.Submission]{
		name:     actionContactGet,
		resource: presets.ResourceContact,
		action:   presets.ActionView,
		target:   id.String(),
		run: func(ctx context.Context, _ string) (*contact.Submission, error) {
			return a.contacts.GetByID(ctx, id)
		},
	})
}

// UpdateSubmissionStatus is idempotent: setting the current status again
// succeeds and leaves the row as it was.
func (a *Actions) UpdateSubmissionStatus(ctx context.Context, id uuid.UUID, status contact.Status) Result[*contact.Submission] {
	return guarded(ctx, a, op[*contact.Submission]{
		name:     actionContactStatus,
		resource: presets.ResourceContact,
		action:   presets.ActionEdit,
		target:   id.String(),
		metadata: map[string]any{"status": string(status)},
		validate: func() error {
			if !contact.ValidStatus(status) {
				return fmt.Errorf(errUnknownStatusFmt, status)
			}
			return nil
		},
		run: func(ctx context.Context, _ string) (*contact.Submission, error) {
			return a.contacts.UpdateStatus(ctx, id, status)
		},
	})
}

// DeleteSubmission is admin only.
func (a *Actions) DeleteSubmission(ctx context.Context, id uuid.UUID) Result[struct{}] {
	return guarded(ctx, a, op[struct{}]{
		name:     actionContactDelete,
		resource: presets.ResourceContact,
		action:   presets.ActionDelete,
		target:   id.String(),
		run: func(ctx context.Context, _ string) (struct{}, error) {
			return struct{}{}, a.contacts.Delete(ctx, id)
		},
	})
}
