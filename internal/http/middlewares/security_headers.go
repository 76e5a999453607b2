package middlewares

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	apiCSP = "default-src 'none'"
	// the server-rendered pages ship their own inline styles and a small
	// bootstrap script, nothing loads from third-party origins
	pageCSP = "default-src 'self'; base-uri 'none'; frame-ancestors 'none'; object-src 'none'; connect-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'"
)

// SecurityHeaders sets the browser hardening headers. HSTS only goes
// out in prod, local plain-http serving has to stay reachable.
func SecurityHeaders(env string) gin.HandlerFunc {
	hsts := env == "prod"

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("X-XSS-Protection", "0")

		if hsts {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/metrics") {
			c.Header("Content-Security-Policy", apiCSP)
		} else {
			c.Header("Content-Security-Policy", pageCSP)
		}
		c.Next()
	}
}
