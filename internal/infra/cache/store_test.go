package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

func newTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_SetGet(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	var got cachedPost
	hit, err := store.Get(ctx, PostSlugKey("hello"), &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, store.Set(ctx, PostSlugKey("hello"), cachedPost{Slug: "hello", Title: "Hello"}))
	assert.True(t, mr.Exists("portfolio:posts:slug:hello"))

	hit, err = store.Get(ctx, PostSlugKey("hello"), &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Hello", got.Title)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyPostsList, []cachedPost{{Slug: "a"}}))
	assert.Equal(t, time.Minute, mr.TTL("portfolio:"+KeyPostsList))

	mr.FastForward(2 * time.Minute)

	var got []cachedPost
	hit, err := store.Get(ctx, KeyPostsList, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisStore_Invalidate(t *testing.T) {
	store, _ := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyPostsList, []cachedPost{}))
	require.NoError(t, store.Set(ctx, PostSlugKey("a"), cachedPost{Slug: "a"}))
	require.NoError(t, store.Set(ctx, KeySettingsPublic, map[string]string{"site_title": "x"}))

	require.NoError(t, store.Invalidate(ctx, KeyPostsList, PostSlugKey("a")))

	var posts []cachedPost
	hit, _ := store.Get(ctx, KeyPostsList, &posts)
	assert.False(t, hit)

	var settings map[string]string
	hit, _ = store.Get(ctx, KeySettingsPublic, &settings)
	assert.True(t, hit)

	assert.NoError(t, store.Invalidate(ctx))
}

func TestRedisStore_CorruptEntryIsMiss(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	require.NoError(t, mr.Set("portfolio:"+KeySettingsPublic, "{not json"))

	var got map[string]string
	hit, err := store.Get(context.Background(), KeySettingsPublic, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists("portfolio:"+KeySettingsPublic))
}

func TestRedisStore_ErrorsWhenDown(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	mr.Close()

	var got cachedPost
	_, err := store.Get(context.Background(), PostSlugKey("x"), &got)
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	_ = client.Close()

	_, err = NewRedisClient("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestNopStore(t *testing.T) {
	var s Store = NopStore{}
	hit, err := s.Get(context.Background(), KeyPostsList, &[]cachedPost{})
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, s.Set(context.Background(), KeyPostsList, nil))
	assert.NoError(t, s.Invalidate(context.Background(), KeyPostsList))
}

func TestURLCache(t *testing.T) {
	c := NewURLCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("media/a.png", "https://signed/a", now.Add(time.Minute))
	c.Set("media/b.png", "https://signed/b", now.Add(-time.Second))

	url, ok := c.Get("media/a.png")
	assert.True(t, ok)
	assert.Equal(t, "https://signed/a", url)

	_, ok = c.Get("media/b.png")
	assert.False(t, ok)

	c.Prune()
	assert.Equal(t, 1, c.Len())

	c.Delete("media/a.png")
	assert.Equal(t, 0, c.Len())
}
