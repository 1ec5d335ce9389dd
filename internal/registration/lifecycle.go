package registration

import (
	"fmt"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
)

var (
	ErrRegistrationNotFound = utils.NotFound("Registration not found")
	ErrAlreadyRegistered    = utils.Conflict("Already registered for this event")
	ErrCannotCancel         = utils.Validation("Cannot cancel this registration")
	ErrInvalidStatus        = utils.Validation("Invalid registration status")
	ErrInvalidPayment       = utils.Validation("Invalid payment status")
	ErrInvalidMethod        = utils.Validation("Invalid payment method")
	ErrNotPayable           = utils.Validation("Registration cannot be paid")
)

func invalidTransition(from, to Status) error {
	return utils.Validation(fmt.Sprintf("Cannot move registration from %s to %s", from, to))
}

// HoldsSeat reports whether a registration in status s counts against the
// event's capacity.
func HoldsSeat(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

func (r *Registration) HoldsSeat() bool { return HoldsSeat(r.Status) }

// IsTerminal is true once the registration is cancelled or completed.
func (r *Registration) IsTerminal() bool {
	return r.Status == StatusCancelled || r.Status == StatusCompleted
}

func (r *Registration) Confirm() error {
	if r.Status != StatusPending {
		return invalidTransition(r.Status, StatusConfirmed)
	}
	r.Status = StatusConfirmed
	return nil
}

// Complete closes an active registration; the seat is released by the caller.
func (r *Registration) Complete() error {
	if !r.HoldsSeat() {
		return invalidTransition(r.Status, StatusCompleted)
	}
	r.Status = StatusCompleted
	return nil
}

func (r *Registration) Cancel(reason string, at time.Time) error {
	if r.IsTerminal() {
		return ErrCannotCancel
	}
	r.Status = StatusCancelled
	r.CancellationReason = reason
	r.CancellationDate = &at
	return nil
}

// ForceStatus is the admin override. It returns the change in seats held:
// +1 when a terminal registration is reinstated, -1 when an active one is
// closed, 0 otherwise.
func (r *Registration) ForceStatus(to Status, at time.Time) (int, error) {
	if !to.Valid() {
		return 0, ErrInvalidStatus
	}
	before := r.HoldsSeat()
	r.Status = to

	switch to {
	case StatusCancelled:
		if r.CancellationDate == nil {
			r.CancellationDate = &at
		}
	case StatusPending, StatusConfirmed:
		r.CancellationDate = nil
		r.CancellationReason = ""
	}

	after := r.HoldsSeat()
	switch {
	case before && !after:
		return -1, nil
	case !before && after:
		return 1, nil
	}
	return 0, nil
}

func (r *Registration) SetPaymentStatus(p PaymentStatus) error {
	if !p.Valid() {
		return ErrInvalidPayment
	}
	r.PaymentStatus = p
	return nil
}
