package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Gateway is the subset of the Razorpay API the payment flow uses.
type Gateway interface {
	CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error)
	FetchPayment(paymentID string) (*PaymentInfo, error)
}

type PaymentInfo struct {
	Status      string
	Method      string
	AmountPaise int64
	OrderID     string
}

type razorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(key, secret string) Gateway {
	return &razorpayGateway{client: razorpay.NewClient(key, secret)}
}

func (g *razorpayGateway) CreateOrder(amountPaise int64, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         receipt,
		"payment_capture": 1,
		"notes":           notes,
	}
	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order creation failed: %w", err)
	}
	orderID, ok := order["id"].(string)
	if !ok {
		return "", errors.New("unable to extract order_id from Razorpay response")
	}
	return orderID, nil
}

func (g *razorpayGateway) FetchPayment(paymentID string) (*PaymentInfo, error) {
	payment, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch failed: %w", err)
	}

	info := &PaymentInfo{}
	if info.Status, _ = payment["status"].(string); info.Status == "" {
		return nil, errors.New("invalid payment status format")
	}
	info.Method, _ = payment["method"].(string)
	info.OrderID, _ = payment["order_id"].(string)

	switch val := payment["amount"].(type) {
	case float64:
		info.AmountPaise = int64(val)
	case json.Number:
		n, _ := val.Int64()
		info.AmountPaise = n
	default:
		return nil, fmt.Errorf("unsupported amount type: %T", val)
	}
	return info, nil
}
