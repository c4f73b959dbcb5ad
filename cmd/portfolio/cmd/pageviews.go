package cmd

import (
	"fmt"
	"time"

	"portfolio-cms/internal/app"
	"portfolio-cms/internal/repository/postgres"

	"github.com/spf13/cobra"
)

const defaultPageViewRetention = 90 * 24 * time.Hour

var pageViewRetention time.Duration

var purgePageViewsCmd = &cobra.Command{
	Use:   "purge-pageviews",
	Short: "Delete raw page views past the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		db, err := postgres.New(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		resp, err := app.PurgePageViews(ctx, postgres.NewAnalyticsRepository(db), &app.PurgePageViewsRequest{
			OlderThan: pageViewRetention,
		}, log)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d page views recorded before %s\n", resp.Deleted, resp.Cutoff.Format(time.RFC3339))
		return nil
	},
}

func init() {
	purgePageViewsCmd.Flags().DurationVar(&pageViewRetention, "older-than", defaultPageViewRetention, "Retention window for raw page views")
}
