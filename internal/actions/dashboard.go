package actions

import (
	"context"

	"portfolio-cms/internal/domain/contact"
	"portfolio-cms/internal/domain/post"
	"portfolio-cms/internal/rbac/presets"
)

const actionDashboard = "dashboard.summary"

// Dashboard is the landing view of the admin area.
type Dashboard struct {
	Posts          map[post.Status]int64
	UnreadContacts int64
}

// DashboardSummary counts posts by status and contact messages still marked
// new. Any registry member may view it.
func (a *Actions) DashboardSummary(ctx context.Context) Result[Dashboard] {
	return guarded(ctx, a, op[Dashboard]{
		name:     actionDashboard,
		resource: presets.ResourceAnalytics,
		action:   presets.ActionView,
		run: func(ctx context.Context, _ string) (Dashboard, error) {
			posts, err := a.posts.Count(ctx)
			if err != nil {
				return Dashboard{}, err
			}
			unread, err := a.contacts.CountByStatus(ctx, contact.StatusNew)
			if err != nil {
				return Dashboard{}, err
			}
			return Dashboard{Posts: posts, UnreadContacts: unread}, nil
		},
	})
}
