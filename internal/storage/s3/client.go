package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"portfolio-cms/internal/config"
	"portfolio-cms/internal/infra/cache"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

const (
	emptyAWSSessionToken = ""
	defaultS3Region      = "us-east-1"
	mediaKeyPrefix       = "media"
	cacheControlMedia    = "public, max-age=31536000, immutable"
	// presigned URLs are dropped from the cache this long before they expire
	urlCacheMargin = time.Minute

	errFailedCreateAWSSessionFmt             = "failed to create AWS session: %w"
	errFailedPutObjectFmt                    = "failed to upload object: %w"
	errFailedGeneratePresignedDownloadURLFmt = "failed to generate presigned download URL: %w"
	errFailedDeleteObjectFmt                 = "failed to delete object: %w"
	errFailedCreateBucketFmt                 = "failed to create bucket: %w"
	errFailedWaitBucketExistsFmt             = "failed to wait for bucket to exist: %w"
	errFailedHeadBucketFmt                   = "failed to check bucket: %w"
)

// Client stores media objects in a single bucket.
type Client struct {
	svc           *s3.S3
	bucket        string
	publicBaseURL string
	urlExpiry     time.Duration
	urls          *cache.URLCache
}

func NewClient(aws *config.AWSConfig, media *config.MediaConfig) (*Client, error) {
	sess, err := session.NewSession(awsConfig(aws))
	if err != nil {
		return nil, fmt.Errorf(errFailedCreateAWSSessionFmt, err)
	}
	return newClient(s3.New(sess), media), nil
}

func awsConfig(cfg *config.AWSConfig) *aws.Config {
	c := &aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			emptyAWSSessionToken,
		),
	}
	if cfg.Endpoint != "" {
		c.Endpoint = aws.String(cfg.Endpoint)
		c.S3ForcePathStyle = aws.Bool(true)
	}
	return c
}

func newClient(svc *s3.S3, media *config.MediaConfig) *Client {
	return &Client{
		svc:           svc,
		bucket:        media.Bucket,
		publicBaseURL: strings.TrimRight(media.PublicBaseURL, "/"),
		urlExpiry:     media.URLExpiry,
		urls:          cache.NewURLCache(),
	}
}

func (c *Client) Bucket() string {
	return c.bucket
}

// PutObject uploads body under key.
func (c *Client) PutObject(ctx context.Context, key, contentType string, body io.ReadSeeker, size int64) error {
	_, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String(cacheControlMedia),
	})
	if err != nil {
		return fmt.Errorf(errFailedPutObjectFmt, err)
	}
	return nil
}

func (c *Client) DeleteObject(ctx context.Context, key string) error {
	_, err := c.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	c.urls.Delete(key)

	if err != nil {
		return fmt.Errorf(errFailedDeleteObjectFmt, err)
	}
	return nil
}

// URL returns the public URL for key: a CDN URL when MEDIA_PUBLIC_BASE_URL is
// set, otherwise a cached presigned GET.
func (c *Client) URL(ctx context.Context, key string) (string, error) {
	if c.publicBaseURL != "" {
		return c.publicBaseURL + "/" + escapeKey(key), nil
	}

	if cached, ok := c.urls.Get(key); ok {
		return cached, nil
	}

	req, _ := c.svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	signed, err := req.Presign(c.urlExpiry)
	if err != nil {
		return "", fmt.Errorf(errFailedGeneratePresignedDownloadURLFmt, err)
	}

	if c.urlExpiry > urlCacheMargin {
		c.urls.Set(key, signed, time.Now().Add(c.urlExpiry-urlCacheMargin))
	}
	return signed, nil
}

// PruneURLs drops expired presigned URLs from the cache.
func (c *Client) PruneURLs() {
	c.urls.Prune()
}

// EnsureBucket creates the media bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context, region string) error {
	_, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)})
	if err == nil {
		return nil
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(c.bucket),
	}

	if region != defaultS3Region {
		input.CreateBucketConfiguration = &s3.CreateBucketConfiguration{
			LocationConstraint: aws.String(region),
		}
	}

	if _, err := c.svc.CreateBucketWithContext(ctx, input); err != nil {
		return fmt.Errorf(errFailedCreateBucketFmt, err)
	}

	if err := c.svc.WaitUntilBucketExistsWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	}); err != nil {
		return fmt.Errorf(errFailedWaitBucketExistsFmt, err)
	}

	return nil
}

// Ping checks that the bucket is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.svc.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf(errFailedHeadBucketFmt, err)
	}
	return nil
}

// BuildObjectKey returns media/<id>/<name>. The name is reduced to its base
// so callers cannot escape the prefix.
func BuildObjectKey(id uuid.UUID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "file"
	}
	return mediaKeyPrefix + "/" + id.String() + "/" + name
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
