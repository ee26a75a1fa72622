package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger writes one line per request. Server errors get a marker so they
// stand out in plain stdout logs.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		marker := ""
		if status >= 500 {
			marker = "❌ "
		}
		log.Printf("%s%s %s %s %d %s", marker, c.Request.Method, path, c.ClientIP(), status, time.Since(start))
		if len(c.Errors) > 0 {
			log.Printf("⚠️ %s", c.Errors.String())
		}
	}
}
