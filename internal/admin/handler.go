package admin

import (
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/middleware"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Dashboard godoc
// @Summary Account overview
// @Tags Admin Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope
// @Router /api/admin/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", d)
}

// GetUsers godoc
// @Summary List accounts
// @Tags Admin Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Param search query string false "Name or email"
// @Param role query string false "user | admin"
// @Param status query string false "true (active) | false (inactive)"
// @Success 200 {object} utils.Envelope
// @Router /api/admin/users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	list, err := h.service.ListUsers(c.Request.Context(), UserQuery{
		Page:   utils.ParsePage(c, 10),
		Search: c.Query("search"),
		Role:   c.Query("role"),
		Status: c.Query("status"),
	})
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", list)
}

func (h *Handler) GetUserByID(c *gin.Context) {
	userID, ok := utils.PathID(c, "id", auth.ErrUserNotFound)
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", gin.H{"user": user})
}

// UpdateUserStatus godoc
// @Summary Activate or deactivate an account
// @Tags Admin Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/admin/users/{id}/status [patch]
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	userID, ok := utils.PathID(c, "id", auth.ErrUserNotFound)
	if !ok {
		return
	}
	var body struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.Fail(c, ErrMissingIsActive)
		return
	}
	admin, _ := auth.CurrentUser(c)

	user, err := h.service.SetUserStatus(c.Request.Context(), admin.ID, userID, *body.IsActive, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	msg := "User deactivated successfully"
	if user.IsActive {
		msg = "User activated successfully"
	}
	utils.OK(c, msg, gin.H{"user": user})
}

// DeleteUser godoc
// @Summary Delete an account
// @Tags Admin Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 403 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := utils.PathID(c, "id", auth.ErrUserNotFound)
	if !ok {
		return
	}
	admin, _ := auth.CurrentUser(c)
	if err := h.service.DeleteUser(c.Request.Context(), admin.ID, userID, middleware.GetIPFromContext(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "User deleted successfully", nil)
}
