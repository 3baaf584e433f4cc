package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-intel/backend/logging"
)

// Stats tracks visitors and per-request statistics for the engine API.
func Stats(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		stats.TrackVisitor(c.ClientIP())

		c.Next()

		// Only engine endpoints count toward request statistics.
		if !strings.HasPrefix(c.Request.URL.Path, "/api/") ||
			c.Request.URL.Path == "/api/health" ||
			c.Request.URL.Path == "/api/statistics" {
			return
		}

		latency := float64(time.Since(start).Milliseconds())
		keyword, _ := c.Get("keyword")
		kw, _ := keyword.(string)
		stats.TrackRequest(kw, latency, c.Writer.Status() >= 400)

		// Periodically save statistics
		if stats.GetStatistics()["totalRequests"].(int)%100 == 0 {
			go stats.Save()
		}
	}
}
