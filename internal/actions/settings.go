package actions

import (
	"context"
	"errors"
	"sort"
	"strings"

	"portfolio-cms/internal/audit"
	"portfolio-cms/internal/domain/analytics"
	"portfolio-cms/internal/domain/setting"
	"portfolio-cms/internal/infra/cache"
	"portfolio-cms/internal/rbac/presets"
	"portfolio-cms/pkg/validator"
)

const (
	actionSettingList   = "setting.list"
	actionSettingUpdate = "setting.update"
	actionAnalytics     = "analytics.summary"
	actionAuditList     = "audit.list"
)

var errNoSettings = errors.New("no settings given")

func (a *Actions) ListSettings(ctx context.Context) Result[[]*setting.Setting] {
	return guarded(ctx, a, op[[]*setting.Setting]{
		name:     actionSettingList,
		resource: presets.ResourceSetting,
		action:   presets.ActionView,
		run: func(ctx context.Context, _ string) ([]*setting.Setting, error) {
			return a.settings.List(ctx)
		},
	})
}

// UpdateSettings writes every key in one transaction. An empty value removes
// the key. Admin only.
func (a *Actions) UpdateSettings(ctx context.Context, values map[string]string) Result[[]*setting.Setting] {
	normalized := make(map[string]string, len(values))

	return guarded(ctx, a, op[[]*setting.Setting]{
		name:     actionSettingUpdate,
		resource: presets.ResourceSetting,
		action:   presets.ActionEdit,
		metadata: map[string]any{"keys": sortedKeys(values)},
		validate: func() error {
			if len(values) == 0 {
				return errNoSettings
			}
			for key, value := range values {
				key = strings.TrimSpace(key)
				value = strings.TrimSpace(value)
				if err := validator.SettingKey(key); err != nil {
					return err
				}
				if err := validator.SettingValue(key, value); err != nil {
					return err
				}
				normalized[key] = value
			}
			return nil
		},
		run: func(ctx context.Context, actor string) ([]*setting.Setting, error) {
			return a.settings.Upsert(ctx, normalized, actor)
		},
		invalidate: func([]*setting.Setting) []string {
			return []string{cache.KeySettingsPublic}
		},
	})
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AnalyticsSummary reports page views for the last days days, clamped to
// 1..365.
func (a *Actions) AnalyticsSummary(ctx context.Context, days int) Result[*analytics.Summary] {
	return guarded(ctx, a, op[*analytics.Summary]{
		name:     actionAnalytics,
		resource: presets.ResourceAnalytics,
		action:   presets.ActionView,
		run: func(ctx context.Context, _ string) (*analytics.Summary, error) {
			return a.analytics.Summary(ctx, analytics.ClampDays(days), a.now())
		},
	})
}

// ListAuditEvents is admin only.
func (a *Actions) ListAuditEvents(ctx context.Context, filter audit.QueryFilter) Result[[]*audit.Event] {
	return guarded(ctx, a, op[[]*audit.Event]{
		name:     actionAuditList,
		resource: presets.ResourceAudit,
		action:   presets.ActionView,
		run: func(ctx context.Context, _ string) ([]*audit.Event, error) {
			return a.audit.Query(ctx, filter)
		},
	})
}
