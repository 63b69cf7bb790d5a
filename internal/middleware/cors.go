// Package middleware holds gin middleware for the status API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS lets browser dashboards read the status API. allowedOrigins is "*" or a
// comma-separated list; empty sends no CORS headers at all.
func CORS(allowedOrigins string) gin.HandlerFunc {
	origins := parseOrigins(allowedOrigins)
	return func(c *gin.Context) {
		allow := ""
		if origins["*"] {
			allow = "*"
		} else if origin := c.GetHeader("Origin"); origin != "" && origins[origin] {
			allow = origin
			c.Header("Vary", "Origin")
		}
		if allow != "" {
			c.Header("Access-Control-Allow-Origin", allow)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Max-Age", "86400")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AllowsOrigin reports whether origin is listed in allowedOrigins, in the
// format CORS takes.
func AllowsOrigin(allowedOrigins string) func(origin string) bool {
	origins := parseOrigins(allowedOrigins)
	return func(origin string) bool {
		return origins["*"] || origins[origin]
	}
}

func parseOrigins(s string) map[string]bool {
	m := make(map[string]bool)
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			m[o] = true
		}
	}
	return m
}
