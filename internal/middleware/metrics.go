package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"carelink/internal/metrics"
)

// Metrics records a duration sample for every handled request.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveRequest(c.Request.Method, strconv.Itoa(c.Writer.Status()), start)
	}
}
