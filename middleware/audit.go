package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// AuditMiddleware resolves the caller IP once for audit records.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, resolveClientIP(c))
		c.Next()
	}
}

// resolveClientIP prefers proxy headers, then the socket address.
func resolveClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	for _, h := range []string{"X-Real-Ip", "CF-Connecting-IP"} {
		if v := strings.TrimSpace(c.GetHeader(h)); net.ParseIP(v) != nil {
			return v
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}

func GetIPFromContext(c *gin.Context) string {
	if v, ok := c.Get(clientIPKey); ok {
		if ip, ok := v.(string); ok {
			return ip
		}
	}
	return resolveClientIP(c)
}
