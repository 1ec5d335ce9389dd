package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PathID reads a uuid path parameter. A value that is not a uuid cannot
// name a stored row, so it is answered with notFound and ok is false.
func PathID(c *gin.Context, name string, notFound error) (id string, ok bool) {
	id = c.Param(name)
	if err := uuid.Validate(id); err != nil {
		Fail(c, notFound)
		return "", false
	}
	return id, true
}
