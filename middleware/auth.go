package middleware

import (
	"strings"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects requests without a valid bearer token for an
// active account, and attaches that account to the context.
func AuthMiddleware(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			utils.Abort(c, auth.ErrMissingToken)
			return
		}

		user, claims, err := authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.Abort(c, err)
			return
		}

		auth.SetCurrent(c, user, claims)
		c.Next()
	}
}

// OptionalAuth attaches the account when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, claims, err := authSvc.Authenticate(c.Request.Context(), token); err == nil {
				auth.SetCurrent(c, user, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
