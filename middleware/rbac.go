package middleware

import (
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

var (
	errAdminOnly = utils.Forbidden("Access denied. Admin privileges required.")
	errUserOnly  = utils.Forbidden("Access denied. User account required.")
)

// RequireRole must run after AuthMiddleware.
func RequireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := auth.CurrentUser(c)
		if !ok {
			utils.Abort(c, auth.ErrMissingToken)
			return
		}

		if user.Role == role {
			c.Next()
			return
		}

		switch role {
		case auth.RoleAdmin:
			utils.Abort(c, errAdminOnly)
		case auth.RoleUser:
			utils.Abort(c, errUserOnly)
		default:
			utils.Abort(c, utils.Forbidden("Access denied"))
		}
	}
}
