package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
)

const secret = "test_secret"

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// stubRegs embeds the interface so only the hooks under test need bodies.
type stubRegs struct {
	registration.Service
	reg      *registration.Registration
	attached string
	marked   registration.PaymentStatus
}

func (s *stubRegs) GetMine(_ context.Context, userID, id string) (*registration.Registration, error) {
	if s.reg == nil || s.reg.ID != id || s.reg.UserID != userID {
		return nil, registration.ErrRegistrationNotFound
	}
	cp := *s.reg
	return &cp, nil
}

func (s *stubRegs) AttachPaymentOrder(_ context.Context, id, orderID string) error {
	s.attached = orderID
	return nil
}

func (s *stubRegs) MarkPayment(_ context.Context, userID, orderID, paymentID string, status registration.PaymentStatus) (*registration.Registration, error) {
	if orderID != s.attached || userID != s.reg.UserID {
		return nil, registration.ErrRegistrationNotFound
	}
	s.marked = status
	cp := *s.reg
	cp.PaymentStatus = status
	return &cp, nil
}

func (s *stubRegs) MarkFree(_ context.Context, userID, id string) (*registration.Registration, error) {
	cp := *s.reg
	cp.PaymentStatus = registration.PaymentPaid
	s.marked = registration.PaymentPaid
	return &cp, nil
}

type fakeGateway struct {
	amount int64
	status string
}

func (g *fakeGateway) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	g.amount = amountPaise
	return "order_abc", nil
}

func (g *fakeGateway) FetchPayment(paymentID string) (*PaymentInfo, error) {
	return &PaymentInfo{Status: g.status, OrderID: "order_abc", AmountPaise: g.amount}, nil
}

func pendingReg(amount float64) *registration.Registration {
	return &registration.Registration{
		ID:            "reg-1",
		UserID:        "u1",
		EventID:       "ev-1",
		Status:        registration.StatusPending,
		PaymentStatus: registration.PaymentPending,
		PaymentAmount: amount,
	}
}

var u1 = &auth.User{ID: "u1"}

func TestCreateOrderAndVerify(t *testing.T) {
	regs := &stubRegs{reg: pendingReg(499.99)}
	gw := &fakeGateway{status: "captured"}
	svc := NewService(regs, gw, "key_1", secret, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, u1, "reg-1", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.OrderID != "order_abc" || order.RazorpayKey != "key_1" || gw.amount != 49999 {
		t.Errorf("order = %+v, paise = %d", order, gw.amount)
	}
	if regs.attached != "order_abc" {
		t.Errorf("order not attached")
	}

	reg, err := svc.Verify(ctx, u1, VerifyRequest{OrderID: "order_abc", PaymentID: "pay_1", Signature: sign("order_abc", "pay_1")}, "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if reg.PaymentStatus != registration.PaymentPaid {
		t.Errorf("PaymentStatus = %s, want paid", reg.PaymentStatus)
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	regs := &stubRegs{reg: pendingReg(100)}
	svc := NewService(regs, &fakeGateway{status: "captured"}, "k", secret, nil)

	_, err := svc.Verify(context.Background(), u1, VerifyRequest{OrderID: "order_abc", PaymentID: "pay_1", Signature: "deadbeef"}, "")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
	if regs.marked != "" {
		t.Errorf("registration marked %s despite bad signature", regs.marked)
	}
}

func TestVerifyUncapturedMarksFailed(t *testing.T) {
	regs := &stubRegs{reg: pendingReg(100), attached: "order_abc"}
	svc := NewService(regs, &fakeGateway{status: "failed"}, "k", secret, nil)

	reg, err := svc.Verify(context.Background(), u1, VerifyRequest{OrderID: "order_abc", PaymentID: "pay_2", Signature: sign("order_abc", "pay_2")}, "")
	if err != nil {
		t.Fatal(err)
	}
	if reg.PaymentStatus != registration.PaymentFailed {
		t.Errorf("PaymentStatus = %s, want failed", reg.PaymentStatus)
	}
}

func TestCreateOrderRules(t *testing.T) {
	ctx := context.Background()

	free := &stubRegs{reg: pendingReg(0)}
	res, err := NewService(free, nil, "", "", nil).CreateOrder(ctx, u1, "reg-1", "")
	if err != nil || res.Registration == nil || res.Registration.PaymentStatus != registration.PaymentPaid {
		t.Fatalf("free registration: %v %+v", err, res)
	}

	if _, err := NewService(&stubRegs{reg: pendingReg(10)}, nil, "", "", nil).CreateOrder(ctx, u1, "reg-1", ""); !errors.Is(err, ErrPaymentsDisabled) {
		t.Errorf("no gateway: err = %v", err)
	}

	paid := pendingReg(10)
	paid.PaymentStatus = registration.PaymentPaid
	if _, err := NewService(&stubRegs{reg: paid}, &fakeGateway{}, "", "", nil).CreateOrder(ctx, u1, "reg-1", ""); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("already paid: err = %v", err)
	}

	cancelled := pendingReg(10)
	cancelled.Status = registration.StatusCancelled
	if _, err := NewService(&stubRegs{reg: cancelled}, &fakeGateway{}, "", "", nil).CreateOrder(ctx, u1, "reg-1", ""); !errors.Is(err, registration.ErrNotPayable) {
		t.Errorf("cancelled: err = %v", err)
	}

	if _, err := NewService(&stubRegs{reg: pendingReg(10)}, &fakeGateway{}, "", "", nil).CreateOrder(ctx, &auth.User{ID: "u2"}, "reg-1", ""); !errors.Is(err, registration.ErrRegistrationNotFound) {
		t.Errorf("foreign registration: err = %v", err)
	}
}

func TestValidSignature(t *testing.T) {
	if !ValidSignature(secret, "o", "p", sign("o", "p")) {
		t.Error("valid signature rejected")
	}
	if ValidSignature(secret, "o", "p2", sign("o", "p")) {
		t.Error("signature for another payment accepted")
	}
}
