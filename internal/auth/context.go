package auth

import "github.com/gin-gonic/gin"

const (
	ctxUserKey   = "user"
	ctxUserIDKey = "user_id"
	ctxClaimsKey = "claims"
)

// SetCurrent attaches the authenticated account to the request.
func SetCurrent(c *gin.Context, user *User, claims *Claims) {
	c.Set(ctxUserKey, user)
	c.Set(ctxUserIDKey, user.ID)
	if claims != nil {
		c.Set(ctxClaimsKey, claims)
	}
}

func CurrentUser(c *gin.Context) (*User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*User)
	return user, ok && user != nil
}

func CurrentClaims(c *gin.Context) *Claims {
	v, ok := c.Get(ctxClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
