package postgres

import (
	"context"
	"time"

	"portfolio-cms/internal/domain/analytics"
)

type AnalyticsRepository struct {
	db *DB
}

func NewAnalyticsRepository(db *DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) RecordPageView(ctx context.Context, input analytics.RecordPageViewInput) error {
	query := `
		INSERT INTO page_views (path, referrer_host, visitor_hash, user_agent_class)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.Pool.Exec(ctx, query, input.Path, input.ReferrerHost, input.VisitorHash, input.UserAgentClass); err != nil {
		return errFailedRecordPageView(err)
	}
	return nil
}

// Summary aggregates page views since the start of the UTC day days-1 ago.
func (r *AnalyticsRepository) Summary(ctx context.Context, days int, now time.Time) (*analytics.Summary, error) {
	days = analytics.ClampDays(days)
	today := now.UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	summary := &analytics.Summary{Days: days}

	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT visitor_hash)
		FROM page_views
		WHERE created_at >= $1 AND user_agent_class <> $2
	`, since, analytics.AgentBot).Scan(&summary.TotalViews, &summary.UniqueVisitors)
	if err != nil {
		return nil, errFailedSummarizeAnalytics(err)
	}

	if summary.TopPages, err = r.topCounts(ctx, "path", since); err != nil {
		return nil, err
	}
	if summary.TopReferrers, err = r.topCounts(ctx, "referrer_host", since); err != nil {
		return nil, err
	}
	if summary.Daily, err = r.daily(ctx, since, days); err != nil {
		return nil, err
	}

	return summary, nil
}

// topCounts groups by one of two fixed columns; column never comes from input.
func (r *AnalyticsRepository) topCounts(ctx context.Context, column string, since time.Time) ([]analytics.Count, error) {
	query := `
		SELECT ` + column + `, COUNT(*) AS views
		FROM page_views
		WHERE created_at >= $1 AND user_agent_class <> $2 AND ` + column + ` <> ''
		GROUP BY ` + column + `
		ORDER BY views DESC, ` + column + `
		LIMIT $3
	`

	rows, err := r.db.Pool.Query(ctx, query, since, analytics.AgentBot, analytics.TopLimit)
	if err != nil {
		return nil, errFailedSummarizeAnalytics(err)
	}
	defer rows.Close()

	counts := []analytics.Count{}
	for rows.Next() {
		var c analytics.Count
		if err := rows.Scan(&c.Key, &c.Views); err != nil {
			return nil, errFailedSummarizeAnalytics(err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// daily returns one row per day in the window, zero-filled.
func (r *AnalyticsRepository) daily(ctx context.Context, since time.Time, days int) ([]analytics.DailyCount, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT d, COUNT(v.id), COUNT(DISTINCT v.visitor_hash)
		FROM generate_series($1::timestamptz, $1::timestamptz + ($2::int - 1) * interval '1 day', interval '1 day') AS d
		LEFT JOIN page_views v
		  ON v.created_at >= d AND v.created_at < d + interval '1 day' AND v.user_agent_class <> $3
		GROUP BY d
		ORDER BY d
	`, since, days, analytics.AgentBot)
	if err != nil {
		return nil, errFailedSummarizeAnalytics(err)
	}
	defer rows.Close()

	series := make([]analytics.DailyCount, 0, days)
	for rows.Next() {
		var dc analytics.DailyCount
		if err := rows.Scan(&dc.Day, &dc.Views, &dc.Visitors); err != nil {
			return nil, errFailedSummarizeAnalytics(err)
		}
		series = append(series, dc)
	}
	return series, rows.Err()
}

// PurgeBefore deletes raw page views older than cutoff.
func (r *AnalyticsRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM page_views WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, errFailedPurgePageViews(err)
	}
	return result.RowsAffected(), nil
}
