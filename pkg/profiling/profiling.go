// Package profiling exposes runtime diagnostics for operators.
package profiling

import (
	"net/http"
	"net/http/pprof"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

const bytesPerMB = 1024 * 1024

// RegisterPprofRoutes mounts the pprof handlers on g. Callers guard the group.
func RegisterPprofRoutes(g *echo.Group) {
	g.GET("/", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		g.GET("/"+name, echo.WrapHandler(pprof.Handler(name)))
	}
}

// RuntimeStats is a point-in-time view of memory and scheduler state.
type RuntimeStats struct {
	AllocMB      float64 `json:"alloc_mb"`
	TotalAllocMB float64 `json:"total_alloc_mb"`
	SysMB        float64 `json:"sys_mb"`
	HeapInUseMB  float64 `json:"heap_in_use_mb"`
	StackInUseMB float64 `json:"stack_in_use_mb"`
	HeapObjects  uint64  `json:"heap_objects"`
	NumGC        uint32  `json:"num_gc"`
	Goroutines   int     `json:"goroutines"`
	GoVersion    string  `json:"go_version"`
	Uptime       string  `json:"uptime"`
	Timestamp    string  `json:"timestamp"`
}

// Snapshot reads the runtime counters. started is the process start time.
func Snapshot(started time.Time) RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	now := time.Now()
	return RuntimeStats{
		AllocMB:      float64(m.Alloc) / bytesPerMB,
		TotalAllocMB: float64(m.TotalAlloc) / bytesPerMB,
		SysMB:        float64(m.Sys) / bytesPerMB,
		HeapInUseMB:  float64(m.HeapInuse) / bytesPerMB,
		StackInUseMB: float64(m.StackInuse) / bytesPerMB,
		HeapObjects:  m.HeapObjects,
		NumGC:        m.NumGC,
		Goroutines:   runtime.NumGoroutine(),
		GoVersion:    runtime.Version(),
		Uptime:       now.Sub(started).Round(time.Second).String(),
		Timestamp:    now.UTC().Format(time.RFC3339),
	}
}

// RuntimeHandler serves Snapshot as JSON.
func RuntimeHandler(started time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, Snapshot(started))
	}
}
