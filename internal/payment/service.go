package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auditlog"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
)

var (
	ErrPaymentsDisabled = utils.NewError(utils.KindUnexpected, "Online payments are not configured")
	ErrInvalidSignature = utils.Validation("Invalid payment signature")
	ErrAlreadyPaid      = utils.Conflict("Registration is already paid")
	ErrOrderMismatch    = utils.Validation("Payment does not belong to this order")
)

type Service interface {
	CreateOrder(ctx context.Context, user *auth.User, registrationID, ip string) (*OrderResponse, error)
	Verify(ctx context.Context, user *auth.User, req VerifyRequest, ip string) (*registration.Registration, error)
}

type OrderResponse struct {
	OrderID      string                     `json:"orderId,omitempty"`
	Amount       float64                    `json:"amount"`
	Currency     string                     `json:"currency"`
	RazorpayKey  string                     `json:"razorpayKey,omitempty"`
	Registration *registration.Registration `json:"registration,omitempty"`
}

type VerifyRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type service struct {
	regs    registration.Service
	gateway Gateway
	key     string
	secret  string
	audit   auditlog.Service
}

// NewService accepts a nil gateway; paid orders then fail with
// ErrPaymentsDisabled while free registrations still settle.
func NewService(regs registration.Service, gateway Gateway, key, secret string, audit auditlog.Service) Service {
	return &service{regs: regs, gateway: gateway, key: key, secret: secret, audit: audit}
}

func (s *service) CreateOrder(ctx context.Context, user *auth.User, registrationID, ip string) (*OrderResponse, error) {
	reg, err := s.regs.GetMine(ctx, user.ID, registrationID)
	if err != nil {
		return nil, err
	}
	if !reg.HoldsSeat() {
		return nil, registration.ErrNotPayable
	}
	if reg.PaymentStatus == registration.PaymentPaid {
		return nil, ErrAlreadyPaid
	}

	if reg.PaymentAmount == 0 {
		settled, err := s.regs.MarkFree(ctx, user.ID, reg.ID)
		if err != nil {
			return nil, err
		}
		return &OrderResponse{Currency: "INR", Registration: settled}, nil
	}
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	orderID, err := s.gateway.CreateOrder(toPaise(reg.PaymentAmount), reg.ID, map[string]interface{}{
		"user_id":         user.ID,
		"event_id":        reg.EventID,
		"registration_id": reg.ID,
	})
	if err != nil {
		s.log(ctx, user.ID, reg.EventID, "PAYMENT_ORDER_CREATED", map[string]interface{}{
			"registration_id": reg.ID,
			"error":           err.Error(),
		}, ip, "failure")
		return nil, utils.Wrap(utils.KindUnexpected, "Could not create payment order", err)
	}
	if err := s.regs.AttachPaymentOrder(ctx, reg.ID, orderID); err != nil {
		return nil, err
	}

	s.log(ctx, user.ID, reg.EventID, "PAYMENT_ORDER_CREATED", map[string]interface{}{
		"registration_id": reg.ID,
		"order_id":        orderID,
		"amount":          reg.PaymentAmount,
	}, ip, "success")
	return &OrderResponse{
		OrderID:     orderID,
		Amount:      reg.PaymentAmount,
		Currency:    "INR",
		RazorpayKey: s.key,
	}, nil
}

// Verify checks the checkout signature, then asks the gateway for the
// payment's real state: captured marks the registration paid, anything
// else marks it failed.
func (s *service) Verify(ctx context.Context, user *auth.User, req VerifyRequest, ip string) (*registration.Registration, error) {
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}
	if !ValidSignature(s.secret, req.OrderID, req.PaymentID, req.Signature) {
		s.log(ctx, user.ID, "", "PAYMENT_VERIFICATION_FAILED", map[string]interface{}{
			"order_id":   req.OrderID,
			"payment_id": req.PaymentID,
			"reason":     "invalid payment signature",
		}, ip, "failure")
		return nil, ErrInvalidSignature
	}

	info, err := s.gateway.FetchPayment(req.PaymentID)
	if err != nil {
		s.log(ctx, user.ID, "", "PAYMENT_VERIFICATION_FAILED", map[string]interface{}{
			"order_id":   req.OrderID,
			"payment_id": req.PaymentID,
			"error":      err.Error(),
		}, ip, "failure")
		return nil, utils.Wrap(utils.KindUnexpected, "Could not verify payment", err)
	}
	if info.OrderID != "" && info.OrderID != req.OrderID {
		return nil, ErrOrderMismatch
	}

	status := registration.PaymentFailed
	if info.Status == "captured" {
		status = registration.PaymentPaid
	}
	return s.regs.MarkPayment(ctx, user.ID, req.OrderID, req.PaymentID, status)
}

// ValidSignature reports whether sig is the hex HMAC-SHA256 of
// "orderID|paymentID" under secret.
func ValidSignature(secret, orderID, paymentID, sig string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}

func toPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *service) log(ctx context.Context, userID, eventID, action string, details map[string]interface{}, ip, status string) {
	if s.audit == nil {
		return
	}
	var eid *string
	if eventID != "" {
		eid = &eventID
	}
	_ = s.audit.LogAction(ctx, &userID, eid, action, details, ip, status)
}
