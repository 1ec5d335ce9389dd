package registration

import (
	"errors"
	"io"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
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

type registerReq struct {
	SpecialRequirements string           `json:"specialRequirements" binding:"max=500"`
	EmergencyContact    EmergencyContact `json:"emergencyContact"`
	PaymentMethod       PaymentMethod    `json:"paymentMethod"`
}

type cancelReq struct {
	Reason string `json:"reason" binding:"max=500"`
}

type adminUpdateReq struct {
	Status *Status `json:"status"`
	Notes  *string `json:"notes" binding:"omitempty,max=1000"`
}

type paymentReq struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" binding:"required"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	RefundAmount  *float64      `json:"refundAmount"`
}

// bindOptional binds a JSON body that may be absent.
func bindOptional(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ===========================
// 🎟 Account-facing
// ===========================

// Register godoc
// @Summary Register for an event
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 201 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope "Event is full, past or closed"
// @Failure 404 {object} utils.Envelope
// @Failure 409 {object} utils.Envelope "Already registered"
// @Router /api/events/{id}/register [post]
func (h *Handler) Register(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	var req registerReq
	if err := bindOptional(c, &req); err != nil {
		utils.BindError(c, err)
		return
	}
	user, _ := auth.CurrentUser(c)

	reg, ev, err := h.Service.Register(c.Request.Context(), user, eventID, Details{
		SpecialRequirements: req.SpecialRequirements,
		EmergencyContact:    req.EmergencyContact,
		PaymentMethod:       req.PaymentMethod,
	}, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Created(c, "Successfully registered for event", gin.H{
		"registration": reg,
		"event":        summarize(ev),
	})
}

// CancelRegistration godoc
// @Summary Cancel my registration for an event
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/events/{id}/register [delete]
func (h *Handler) CancelRegistration(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	var req cancelReq
	if err := bindOptional(c, &req); err != nil {
		utils.BindError(c, err)
		return
	}
	user, _ := auth.CurrentUser(c)

	reg, err := h.Service.Cancel(c.Request.Context(), user, eventID, req.Reason, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Registration cancelled successfully", gin.H{"registration": reg})
}

// ListMine godoc
// @Summary List my registrations
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending | confirmed | cancelled | completed"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10)"
// @Success 200 {object} utils.Envelope
// @Router /api/user/registrations [get]
func (h *Handler) ListMine(c *gin.Context) {
	user, _ := auth.CurrentUser(c)
	result, err := h.Service.ListMine(c.Request.Context(), user.ID, Status(c.Query("status")), utils.ParsePage(c, 10))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", result)
}

func (h *Handler) GetMine(c *gin.Context) {
	regID, ok := utils.PathID(c, "rid", ErrRegistrationNotFound)
	if !ok {
		return
	}
	user, _ := auth.CurrentUser(c)
	reg, err := h.Service.GetMine(c.Request.Context(), user.ID, regID)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", gin.H{"registration": reg})
}

// ===========================
// 🛠 Admin
// ===========================

// ListForEvent godoc
// @Summary List registrations of an owned event
// @Tags Admin Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param status query string false "Status filter"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 20)"
// @Success 200 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/admin/events/{id}/registrations [get]
func (h *Handler) ListForEvent(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	admin, _ := auth.CurrentUser(c)
	result, err := h.Service.ListForEvent(c.Request.Context(), admin.ID, eventID, Status(c.Query("status")), utils.ParsePage(c, 20))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "", result)
}

// UpdateRegistration godoc
// @Summary Override a registration's status or notes
// @Tags Admin Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param rid path string true "Registration ID"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Failure 404 {object} utils.Envelope
// @Router /api/admin/events/{id}/registrations/{rid} [patch]
func (h *Handler) UpdateRegistration(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	regID, ok := utils.PathID(c, "rid", ErrRegistrationNotFound)
	if !ok {
		return
	}
	var req adminUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	admin, _ := auth.CurrentUser(c)

	reg, err := h.Service.AdminUpdate(c.Request.Context(), admin.ID, eventID, regID, AdminInput{
		Status: req.Status,
		Notes:  req.Notes,
	}, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Registration updated successfully", gin.H{"registration": reg})
}

func (h *Handler) ConfirmRegistration(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	regID, ok := utils.PathID(c, "rid", ErrRegistrationNotFound)
	if !ok {
		return
	}
	admin, _ := auth.CurrentUser(c)
	reg, err := h.Service.Confirm(c.Request.Context(), admin.ID, eventID, regID, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Registration confirmed", gin.H{"registration": reg})
}

func (h *Handler) CompleteRegistration(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	regID, ok := utils.PathID(c, "rid", ErrRegistrationNotFound)
	if !ok {
		return
	}
	admin, _ := auth.CurrentUser(c)
	reg, err := h.Service.Complete(c.Request.Context(), admin.ID, eventID, regID, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Registration completed", gin.H{"registration": reg})
}

// UpdatePayment godoc
// @Summary Record a manual payment status change
// @Tags Admin Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param rid path string true "Registration ID"
// @Success 200 {object} utils.Envelope
// @Failure 400 {object} utils.Envelope
// @Router /api/admin/events/{id}/registrations/{rid}/payment [patch]
func (h *Handler) UpdatePayment(c *gin.Context) {
	eventID, ok := utils.PathID(c, "id", event.ErrEventNotFound)
	if !ok {
		return
	}
	regID, ok := utils.PathID(c, "rid", ErrRegistrationNotFound)
	if !ok {
		return
	}
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BindError(c, err)
		return
	}
	admin, _ := auth.CurrentUser(c)

	reg, err := h.Service.UpdatePayment(c.Request.Context(), admin.ID, eventID, regID, PaymentInput{
		Status:       req.PaymentStatus,
		Method:       req.PaymentMethod,
		RefundAmount: req.RefundAmount,
	}, middleware.GetIPFromContext(c))
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.OK(c, "Payment updated successfully", gin.H{"registration": reg})
}
