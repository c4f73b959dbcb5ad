package cache

import (
	"fmt"
	"testing"
	"time"
)

func seedURLCache(c *URLCache, n int) {
	for i := 0; i < n; i++ {
		c.Set(fmt.Sprintf("media/%d.webp", i), fmt.Sprintf("https://cdn.example.com/media/%d.webp?sig=x", i), time.Now().Add(10*time.Minute))
	}
}

func BenchmarkURLCacheGet(b *testing.B) {
	c := NewURLCache()
	seedURLCache(c, 1000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("media/%d.webp", i%1000))
	}
}

// Gallery pages read many signed URLs concurrently.
func BenchmarkURLCacheGetParallel(b *testing.B) {
	c := NewURLCache()
	seedURLCache(c, 1000)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Get(fmt.Sprintf("media/%d.webp", i%1000))
			i++
		}
	})
}

func BenchmarkURLCacheMixedReadWrite(b *testing.B) {
	c := NewURLCache()
	seedURLCache(c, 500)

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("media/%d.webp", i%1000)
			if i%5 == 0 {
				c.Set(key, "https://cdn.example.com/"+key, time.Now().Add(10*time.Minute))
			} else {
				c.Get(key)
			}
			i++
		}
	})
}

func BenchmarkURLCachePrune(b *testing.B) {
	c := NewURLCache()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		for j := 0; j < 100; j++ {
			c.Set(fmt.Sprintf("media/%d.webp", j), "expired", time.Now().Add(-time.Minute))
		}
		c.Prune()
	}
}
