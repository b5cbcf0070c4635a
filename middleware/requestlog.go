package middleware

import (
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seo-insight/backend/stats"
)

// AnalyzedURLKey is the context key handlers use to expose which URL a
// request analyzed.
const AnalyzedURLKey = "analyzedURL"

// RequestLogger logs every request and feeds the visitor statistics.
func RequestLogger(logger *zap.Logger, statistics *stats.Statistics) gin.HandlerFunc {
	var requests atomic.Int64

	return func(c *gin.Context) {
		start := time.Now()

		// Track unique visitor
		statistics.TrackVisitor(c.ClientIP())

		c.Next()

		elapsed := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("elapsed", elapsed))

		// Only track analysis requests
		if c.Request.URL.Path == "/api/analyze" && c.Request.Method == "POST" {
			target := c.GetString(AnalyzedURLKey)
			statistics.TrackAnalysis(target, float64(elapsed.Milliseconds()), c.Writer.Status() >= 400)
		}

		// Periodically save statistics
		if requests.Add(1)%100 == 0 {
			go statistics.Save()
		}
	}
}
