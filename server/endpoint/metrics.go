package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// RuntimeStats is the body served by /metrics.
type RuntimeStats struct {
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	HeapObjects   uint64  `json:"heap_objects"`
	SysMB         float64 `json:"sys_mb"`
	GCRuns        uint32  `json:"gc_runs"`
	UptimeSeconds int64   `json:"uptime_seconds"`
}

// Metrics returns a handler that reports runtime memory and goroutine counts.
// Recording counters are exported through OpenTelemetry, not here.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, readRuntimeStats())
	}
}

func readRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	const mb = 1 << 20
	return RuntimeStats{
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(m.HeapAlloc) / mb,
		HeapObjects:   m.HeapObjects,
		SysMB:         float64(m.Sys) / mb,
		GCRuns:        m.NumGC,
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
	}
}
