package payment

import (
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/middleware"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// CreateOrder godoc
// @Summary Start payment for a registration
// @Description Creates a Razorpay order for the registration fee. Free registrations are settled immediately.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param rid path string true "Registration ID"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope
// @Router /api/user/registrations/{rid}/payment/order [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	regID, ok := utils.PathID(c, "rid", registration.ErrRegistrationNotFound)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(c)
	res, err := h.Service.CreateOrder(c.Request.Context(), user, regID, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", res)
}

// Verify godoc
// @Summary Verify a Razorpay payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyRequest true "Checkout result"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /api/user/registrations/payment/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	user, _ := auth.CurrentUser(c)

	reg, err := h.Service.Verify(c.Request.Context(), user, req, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	msg := "Payment verified"
	if reg.PaymentStatus != registration.PaymentPaid {
		msg = "Payment was not captured"
	}
	utils.OK(c, msg, gin.H{"registration": reg})
}
