package auth

import (
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct{ service Service }

func NewHandler(s Service) *Handler { return &Handler{s} }

type signupReq struct {
	Name     string `json:"name" binding:"required" example:"Asha Rao"`
	Email    string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
	Phone    string `json:"phone" example:"+919876543210"`
	Address  string `json:"address" example:"Mysuru, Karnataka"`
}

func (r signupReq) input() SignupInput {
	return SignupInput{Name: r.Name, Email: r.Email, Password: r.Password, Phone: r.Phone, Address: r.Address}
}

// ===============================
// Signup
// ===============================

// Signup godoc
// @Summary Register a user account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body signupReq true "Account details"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope
// @Router /api/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	user, tokens, err := h.service.Signup(c.Request.Context(), req.input())
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Created(c, "User registered successfully", gin.H{
		"user":         user,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
	})
}

// AdminSignup creates another admin. Route is admin-only.
func (h *Handler) AdminSignup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	user, err := h.service.CreateAdmin(c.Request.Context(), req.input())
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Admin registered successfully", gin.H{"user": user})
}

// ===============================
// Login
// ===============================

type loginReq struct {
	Email    string `json:"email" binding:"required,email" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginReq true "Credentials"
// @Success 200 {object} utils.Envelope
// @Failure 401 {object} utils.Envelope
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.OK(c, "Login successful", gin.H{
		"user":         user,
		"token":        tokens.AccessToken,
		"refreshToken": tokens.RefreshToken,
		"redirectTo":   user.Role.DashboardPath(),
	})
}

// ===============================
// Refresh Token
// ===============================

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (h *Handler) Refresh(c *gin.Context) {
	var req refreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	token, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", gin.H{"token": token})
}

// ===============================
// Profile
// ===============================

func (h *Handler) GetProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		utils.Fail(c, ErrMissingToken)
		return
	}
	utils.OK(c, "", gin.H{"user": user})
}

type profileReq struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		utils.Fail(c, ErrMissingToken)
		return
	}
	var req profileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	updated, err := h.service.UpdateProfile(c.Request.Context(), user.ID, ProfileInput(req))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Profile updated successfully", gin.H{"user": updated})
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		utils.Fail(c, ErrMissingToken)
		return
	}
	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Password changed successfully", nil)
}

// ===============================
// Logout
// ===============================

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), CurrentClaims(c)); err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Logout successful", nil)
}

// Deactivate lets a user soft-delete their own account.
func (h *Handler) Deactivate(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		utils.Fail(c, ErrMissingToken)
		return
	}
	if err := h.service.Deactivate(c.Request.Context(), user.ID); err != nil {
		utils.Fail(c, err)
		return
	}
	_ = h.service.Logout(c.Request.Context(), CurrentClaims(c))
	utils.OK(c, "Account deactivated successfully", nil)
}
