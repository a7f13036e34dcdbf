package middleware

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request and its outcome when DEBUG=true. It is
// installed once at the boundary; handlers never log requests themselves.
func RequestLogger() gin.HandlerFunc {
	debug := strings.EqualFold(os.Getenv("DEBUG"), "true")
	return func(c *gin.Context) {
		if !debug {
			c.Next()
			return
		}
		start := time.Now()
		log.Printf("--> %s %s", c.Request.Method, c.Request.URL.Path)
		c.Next()
		log.Printf("<-- %s %s %d (%v)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
