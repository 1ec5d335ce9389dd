package userprofile

import (
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// Dashboard godoc
// @Summary Account overview for the signed-in user
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Envelope
// @Router /api/user/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	d, err := h.service.Dashboard(c.Request.Context(), user.ID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", d)
}
