package cmd

import (
	"fmt"

	"portfolio-cms/internal/storage/s3"

	"github.com/spf13/cobra"
)

var ensureBucketCmd = &cobra.Command{
	Use:   "ensure-bucket",
	Short: "Create the media bucket when it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Media.Bucket == "" {
			return fmt.Errorf("MEDIA_BUCKET is not set")
		}

		client, err := s3.NewClient(&cfg.AWS, &cfg.Media)
		if err != nil {
			return err
		}
		if err := client.EnsureBucket(cmd.Context(), cfg.AWS.Region); err != nil {
			return err
		}

		log.Info().Str("bucket", client.Bucket()).Msg("media bucket ready")
		return nil
	},
}
