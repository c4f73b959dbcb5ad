package s3

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"portfolio-cms/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

type fakeS3 struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
	})
	status := f.status
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
}

func (f *fakeS3) setStatus(status int) {
	f.mu.Lock()
	f.status = status
	f.mu.Unlock()
}

func (f *fakeS3) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, media config.MediaConfig) (*Client, *fakeS3) {
	t.Helper()

	fake := &fakeS3{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.AWSConfig{
		Region:          "us-east-1",
		AccessKeyID:     "test-access",
		SecretAccessKey: "test-secret",
		Endpoint:        server.URL,
	}, &media)
	require.NoError(t, err)
	return client, fake
}

func TestClient_PutObject(t *testing.T) {
	client, fake := newTestClient(t, config.MediaConfig{Bucket: "media-bucket", URLExpiry: time.Hour})

	err := client.PutObject(context.Background(), "media/abc/photo.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)

	req := fake.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/media-bucket/media/abc/photo.png", req.Path)
	assert.Equal(t, "image/png", req.ContentType)
	assert.Equal(t, "png-bytes", req.Body)
}

func TestClient_PutObjectFailure(t *testing.T) {
	client, fake := newTestClient(t, config.MediaConfig{Bucket: "media-bucket", URLExpiry: time.Hour})
	fake.setStatus(http.StatusForbidden)

	err := client.PutObject(context.Background(), "media/abc/photo.png", "image/png", strings.NewReader("x"), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload object")
}

func TestClient_DeleteObject(t *testing.T) {
	client, fake := newTestClient(t, config.MediaConfig{Bucket: "media-bucket", URLExpiry: time.Hour})

	_, err := client.URL(context.Background(), "media/abc/photo.png")
	require.NoError(t, err)
	require.Equal(t, 1, client.urls.Len())

	require.NoError(t, client.DeleteObject(context.Background(), "media/abc/photo.png"))

	req := fake.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/media-bucket/media/abc/photo.png", req.Path)
	assert.Equal(t, 0, client.urls.Len(), "cached URL should be dropped with the object")
}

func TestClient_URL(t *testing.T) {
	t.Run("public base URL", func(t *testing.T) {
		client, fake := newTestClient(t, config.MediaConfig{
			Bucket:        "media-bucket",
			PublicBaseURL: "https://cdn.example.com/",
			URLExpiry:     time.Hour,
		})

		got, err := client.URL(context.Background(), "media/abc/my photo.png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/media/abc/my%20photo.png", got)
		assert.Empty(t, fake.requests, "public URLs need no S3 call")
	})

	t.Run("presigned and cached", func(t *testing.T) {
		client, _ := newTestClient(t, config.MediaConfig{Bucket: "media-bucket", URLExpiry: time.Hour})

		first, err := client.URL(context.Background(), "media/abc/photo.png")
		require.NoError(t, err)
		assert.Contains(t, first, "/media-bucket/media/abc/photo.png")
		assert.Contains(t, first, "X-Amz-Signature=")

		second, err := client.URL(context.Background(), "media/abc/photo.png")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("short expiry is not cached", func(t *testing.T) {
		client, _ := newTestClient(t, config.MediaConfig{Bucket: "media-bucket", URLExpiry: 30 * time.Second})

		_, err := client.URL(context.Background(), "media/abc/photo.png")
		require.NoError(t, err)
		assert.Equal(t, 0, client.urls.Len())
	})
}

func TestClient_Ping(t *testing.T) {
	client, fake := newTestClient(t, config.MediaConfig{Bucket: "media-bucket", URLExpiry: time.Hour})
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, http.MethodHead, fake.last().Method)

	fake.setStatus(http.StatusNotFound)
	assert.Error(t, client.Ping(context.Background()))
}

func TestBuildObjectKey(t *testing.T) {
	id := uuid.MustParse("7f9c24e5-2b1a-4c1e-9d7e-3f1a2b3c4d5e")

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"plain", "photo.png", "media/7f9c24e5-2b1a-4c1e-9d7e-3f1a2b3c4d5e/photo.png"},
		{"unix path", "../../etc/passwd", "media/7f9c24e5-2b1a-4c1e-9d7e-3f1a2b3c4d5e/passwd"},
		{"windows path", `C:\Users\me\cv.pdf`, "media/7f9c24e5-2b1a-4c1e-9d7e-3f1a2b3c4d5e/cv.pdf"},
		{"dot dot", "..", "media/7f9c24e5-2b1a-4c1e-9d7e-3f1a2b3c4d5e/file"},
		{"empty", "", "media/7f9c24e5-2b1a-4c1e-9d7e-3f1a2b3c4d5e/file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildObjectKey(id, tt.filename); got != tt.want {
				t.Errorf("BuildObjectKey(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
