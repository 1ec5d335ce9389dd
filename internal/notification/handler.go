package notification

import (
	"net/http"
	"strconv"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// GetMyInApp godoc
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param unread query bool false "Only unread"
// @Success 200 {object} utils.Envelope
// @Router /api/user/notifications [get]
func (h *Handler) GetMyInApp(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	unreadOnly := c.Query("unread") == "true"

	items, unread, err := h.Service.ListInAppByUser(c.Request.Context(), user.ID, unreadOnly, limit)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", gin.H{"notifications": items, "unreadCount": unread})
}

// MarkInAppRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param nid path int true "Notification ID"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/user/notifications/{nid}/read [patch]
func (h *Handler) MarkInAppRead(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("nid"), 10, 64)
	if err != nil {
		utils.Fail(c, utils.Validation("Invalid notification ID"))
		return
	}
	if err := h.Service.MarkInAppAsRead(c.Request.Context(), uint(id), user.ID); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Notification marked as read", nil)
}

// StreamInApp godoc
// @Summary Live notification stream (SSE)
// @Tags Notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Router /api/user/notifications/stream [get]
func (h *Handler) StreamInApp(c *gin.Context) {
	user, _ := auth.CurrentUser(c)

	sub, err := h.Service.Subscribe(c.Request.Context(), user.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent("inapp", msg.Payload)
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
