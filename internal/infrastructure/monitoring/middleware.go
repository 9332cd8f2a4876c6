package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(method, path, status, time.Since(start))
	}
}

// Timer measures one extraction strategy run.
type Timer struct {
	start    time.Time
	metrics  *Metrics
	strategy string
}

// NewTimer starts a timer for a strategy run.
func NewTimer(metrics *Metrics, strategy string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, strategy: strategy}
}

// Stop records the run with its status and record count.
func (t *Timer) Stop(status string, records int) {
	t.metrics.RecordExtraction(t.strategy, status, records, time.Since(t.start))
}
