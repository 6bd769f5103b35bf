package api

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) registerMiddleware() {
	if s == nil || s.router == nil {
		return
	}
	s.router.Use(gin.Logger(), gin.Recovery(), corsMiddleware())
}

// originAllowlist answers whether a request Origin may read this API. The
// zero value allows nothing, which disables CORS headers entirely.
type originAllowlist struct {
	any     bool
	origins map[string]struct{}
}

func parseOriginAllowlist(raw string) originAllowlist {
	var al originAllowlist
	for _, part := range strings.Split(raw, ",") {
		origin := strings.TrimSpace(part)
		switch origin {
		case "":
		case "*":
			return originAllowlist{any: true}
		default:
			if al.origins == nil {
				al.origins = make(map[string]struct{})
			}
			al.origins[origin] = struct{}{}
		}
	}
	return al
}

func (al originAllowlist) empty() bool {
	return !al.any && len(al.origins) == 0
}

func (al originAllowlist) allows(origin string) bool {
	if al.any {
		return true
	}
	_, ok := al.origins[origin]
	return ok
}

// corsMiddleware reads THAI_EVAL_CORS_ORIGINS once at startup. The API is
// read-only, so browsers only ever need GET plus the preflight.
func corsMiddleware() gin.HandlerFunc {
	allowlist := parseOriginAllowlist(os.Getenv("THAI_EVAL_CORS_ORIGINS"))
	if allowlist.empty() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		origin := strings.TrimSpace(c.GetHeader("Origin"))
		if origin == "" {
			c.Next()
			return
		}

		if allowlist.allows(origin) {
			if allowlist.any {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// apiKeyAuthMiddleware requires a matching X-API-Key header on every request
// except the CORS preflight. The comparison is constant-time.
func apiKeyAuthMiddleware(expected string) gin.HandlerFunc {
	want := []byte(strings.TrimSpace(expected))
	if len(want) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		got := []byte(strings.TrimSpace(c.GetHeader("X-API-Key")))
		if len(got) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
