package auditlog

import (
	"strconv"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAuditLogs godoc
// @Summary Get audit logs
// @Description Audit trail of registrations, event edits and account actions (admin only)
// @Tags AuditLog
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filter by actor ID"
// @Param event_id query string false "Filter by event ID"
// @Param action query string false "Filter by action (partial match)"
// @Param status query string false "success | failure"
// @Param from_date query string false "From date (YYYY-MM-DD)"
// @Param to_date query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Records per page (default: 20)"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /api/admin/audit-logs [get]
func (h *Handler) GetAuditLogs(c *gin.Context) {
	page := utils.ParsePage(c, 20)
	filter := AuditLogFilter{
		Action: c.Query("action"),
		Status: c.Query("status"),
		Page:   page.Number,
		Limit:  page.Limit,
	}
	if v := c.Query("user_id"); v != "" {
		filter.UserID = &v
	}
	if v := c.Query("event_id"); v != "" {
		filter.EventID = &v
	}

	if v := c.Query("from_date"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.Fail(c, utils.Validation("Invalid from_date format. Use YYYY-MM-DD"))
			return
		}
		filter.FromDate = &from
	}
	if v := c.Query("to_date"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.Fail(c, utils.Validation("Invalid to_date format. Use YYYY-MM-DD"))
			return
		}
		endOfDay := to.Add(24*time.Hour - time.Second)
		filter.ToDate = &endOfDay
	}

	result, err := h.service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", result)
}

func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Fail(c, utils.Validation("Invalid audit log ID"))
		return
	}

	entry, err := h.service.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		utils.Fail(c, utils.Wrap(utils.KindNotFound, "Audit log not found", err))
		return
	}
	utils.OK(c, "", entry)
}
