package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes err as an error envelope with the status of its kind.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Message: "Internal server error",
			Error:   err.Error(),
		})
		return
	}

	body := Envelope{Success: false, Message: appErr.Message}
	if appErr.Err != nil {
		body.Error = appErr.Err.Error()
	}
	c.JSON(appErr.Kind.HTTPStatus(), body)
}

// Abort is Fail for middleware: it stops the handler chain.
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}

// BindError reports a request-body binding failure as a validation error.
func BindError(c *gin.Context, err error) {
	Fail(c, Wrap(KindValidation, "Invalid request body", err))
}
