package postgres

import (
	"fmt"
	"time"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200

	poolHealthCheckPeriod = time.Minute
	poolMaxConnLifetime   = time.Hour
	poolMaxConnIdleTime   = 30 * time.Minute
	dbPingTimeout         = 5 * time.Second

	errPostNotFound       = "post not found"
	errPostSlugTaken      = "a post with this slug already exists"
	errSubmissionNotFound = "contact submission not found"
	errMediaNotFound      = "media item not found"
	errMediaExists        = "media object already registered"

	errFailedParseDatabaseConfigFmt  = "failed to parse database config: %w"
	errFailedCreateConnectionPoolFmt = "failed to create connection pool: %w"
	errFailedPingDatabaseFmt         = "failed to ping database: %w"

	errFailedStartTransactionFmt  = "failed to start transaction: %w"
	errFailedCommitTransactionFmt = "failed to commit transaction: %w"

	errFailedLoadMigrationsFmt = "failed to load embedded migrations: %w"
	errFailedOpenMigratorFmt   = "failed to open migrator: %w"
	errFailedMigrateFmt        = "migration failed: %w"

	errFailedCreatePostFmt = "failed to create post: %w"
	errFailedGetPostFmt    = "failed to get post: %w"
	errFailedListPostsFmt  = "failed to list posts: %w"
	errFailedScanPostFmt   = "failed to scan post: %w"
	errFailedUpdatePostFmt = "failed to update post: %w"
	errFailedDeletePostFmt = "failed to delete post: %w"
	errFailedCountPostsFmt = "failed to count posts: %w"

	errFailedCreateSubmissionFmt = "failed to create contact submission: %w"
	errFailedGetSubmissionFmt    = "failed to get contact submission: %w"
	errFailedListSubmissionsFmt  = "failed to list contact submissions: %w"
	errFailedScanSubmissionFmt   = "failed to scan contact submission: %w"
	errFailedUpdateSubmissionFmt = "failed to update contact submission: %w"
	errFailedDeleteSubmissionFmt = "failed to delete contact submission: %w"
	errFailedCountSubmissionsFmt = "failed to count contact submissions: %w"

	errFailedCreateMediaFmt = "failed to create media item: %w"
	errFailedGetMediaFmt    = "failed to get media item: %w"
	errFailedListMediaFmt   = "failed to list media items: %w"
	errFailedScanMediaFmt   = "failed to scan media item: %w"
	errFailedUpdateMediaFmt = "failed to update media item: %w"
	errFailedDeleteMediaFmt = "failed to delete media item: %w"

	errFailedListSettingsFmt  = "failed to list settings: %w"
	errFailedScanSettingFmt   = "failed to scan setting: %w"
	errFailedUpsertSettingFmt = "failed to write setting: %w"

	errFailedRecordPageViewFmt     = "failed to record page view: %w"
	errFailedSummarizeAnalyticsFmt = "failed to summarize analytics: %w"
	errFailedPurgePageViewsFmt     = "failed to purge page views: %w"
)

var (
	errFailedCommitTransaction    = func(err error) error { return fmt.Errorf(errFailedCommitTransactionFmt, err) }
	errFailedCountPosts           = func(err error) error { return fmt.Errorf(errFailedCountPostsFmt, err) }
	errFailedCountSubmissions     = func(err error) error { return fmt.Errorf(errFailedCountSubmissionsFmt, err) }
	errFailedCreateConnectionPool = func(err error) error { return fmt.Errorf(errFailedCreateConnectionPoolFmt, err) }
	errFailedCreateMedia          = func(err error) error { return fmt.Errorf(errFailedCreateMediaFmt, err) }
	errFailedCreatePost           = func(err error) error { return fmt.Errorf(errFailedCreatePostFmt, err) }
	errFailedCreateSubmission     = func(err error) error { return fmt.Errorf(errFailedCreateSubmissionFmt, err) }
	errFailedDeleteMedia          = func(err error) error { return fmt.Errorf(errFailedDeleteMediaFmt, err) }
	errFailedDeletePost           = func(err error) error { return fmt.Errorf(errFailedDeletePostFmt, err) }
	errFailedDeleteSubmission     = func(err error) error { return fmt.Errorf(errFailedDeleteSubmissionFmt, err) }
	errFailedGetMedia             = func(err error) error { return fmt.Errorf(errFailedGetMediaFmt, err) }
	errFailedGetPost              = func(err error) error { return fmt.Errorf(errFailedGetPostFmt, err) }
	errFailedGetSubmission        = func(err error) error { return fmt.Errorf(errFailedGetSubmissionFmt, err) }
	errFailedListMedia            = func(err error) error { return fmt.Errorf(errFailedListMediaFmt, err) }
	errFailedListPosts            = func(err error) error { return fmt.Errorf(errFailedListPostsFmt, err) }
	errFailedListSettings         = func(err error) error { return fmt.Errorf(errFailedListSettingsFmt, err) }
	errFailedListSubmissions      = func(err error) error { return fmt.Errorf(errFailedListSubmissionsFmt, err) }
	errFailedLoadMigrations       = func(err error) error { return fmt.Errorf(errFailedLoadMigrationsFmt, err) }
	errFailedMigrate              = func(err error) error { return fmt.Errorf(errFailedMigrateFmt, err) }
	errFailedOpenMigrator         = func(err error) error { return fmt.Errorf(errFailedOpenMigratorFmt, err) }
	errFailedParseDatabaseConfig  = func(err error) error { return fmt.Errorf(errFailedParseDatabaseConfigFmt, err) }
	errFailedPingDatabase         = func(err error) error { return fmt.Errorf(errFailedPingDatabaseFmt, err) }
	errFailedPurgePageViews       = func(err error) error { return fmt.Errorf(errFailedPurgePageViewsFmt, err) }
	errFailedRecordPageView       = func(err error) error { return fmt.Errorf(errFailedRecordPageViewFmt, err) }
	errFailedScanMedia            = func(err error) error { return fmt.Errorf(errFailedScanMediaFmt, err) }
	errFailedScanPost             = func(err error) error { return fmt.Errorf(errFailedScanPostFmt, err) }
	errFailedScanSetting          = func(err error) error { return fmt.Errorf(errFailedScanSettingFmt, err) }
	errFailedScanSubmission       = func(err error) error { return fmt.Errorf(errFailedScanSubmissionFmt, err) }
	errFailedStartTransaction     = func(err error) error { return fmt.Errorf(errFailedStartTransactionFmt, err) }
	errFailedSummarizeAnalytics   = func(err error) error { return fmt.Errorf(errFailedSummarizeAnalyticsFmt, err) }
	errFailedUpdateMedia          = func(err error) error { return fmt.Errorf(errFailedUpdateMediaFmt, err) }
	errFailedUpdatePost           = func(err error) error { return fmt.Errorf(errFailedUpdatePostFmt, err) }
	errFailedUpdateSubmission     = func(err error) error { return fmt.Errorf(errFailedUpdateSubmissionFmt, err) }
	errFailedUpsertSetting        = func(err error) error { return fmt.Errorf(errFailedUpsertSettingFmt, err) }
)

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
