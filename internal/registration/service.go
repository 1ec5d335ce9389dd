package registration

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auditlog"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/notification"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"gorm.io/datatypes"
)

type Service interface {
	// account-facing
	Register(ctx context.Context, user *auth.User, eventID string, d Details, ip string) (*Registration, *event.Event, error)
	Cancel(ctx context.Context, user *auth.User, eventID, reason, ip string) (*Registration, error)
	ListMine(ctx context.Context, userID string, status Status, page utils.Page) (*ListResult, error)
	GetMine(ctx context.Context, userID, id string) (*Registration, error)
	Summary(ctx context.Context, userID string) (*Summary, error)
	FindForUserAndEvent(ctx context.Context, userID, eventID string) (any, error)

	// admin, scoped to events the caller created
	ListForEvent(ctx context.Context, adminID, eventID string, status Status, page utils.Page) (*EventRoster, error)
	Roster(ctx context.Context, adminID, eventID string) (*event.Event, []Registration, error)
	Confirm(ctx context.Context, adminID, eventID, id, ip string) (*Registration, error)
	Complete(ctx context.Context, adminID, eventID, id, ip string) (*Registration, error)
	AdminUpdate(ctx context.Context, adminID, eventID, id string, in AdminInput, ip string) (*Registration, error)
	UpdatePayment(ctx context.Context, adminID, eventID, id string, in PaymentInput, ip string) (*Registration, error)

	// payment gateway hooks
	AttachPaymentOrder(ctx context.Context, id, orderID string) error
	MarkPayment(ctx context.Context, userID, orderID, paymentID string, status PaymentStatus) (*Registration, error)
	MarkFree(ctx context.Context, userID, id string) (*Registration, error)
}

type service struct {
	repo     Repository
	events   event.Repository
	audit    auditlog.Service
	notifier notification.Publisher
	now      func() time.Time
}

// NewService accepts a nil audit service and a nil notifier.
func NewService(repo Repository, events event.Repository, audit auditlog.Service, notifier notification.Publisher) Service {
	return &service{repo: repo, events: events, audit: audit, notifier: notifier, now: time.Now}
}

type ListResult struct {
	Registrations []Registration   `json:"registrations"`
	Pagination    utils.Pagination `json:"pagination"`
}

type EventSummary struct {
	ID                  string `json:"id"`
	Title               string `json:"title"`
	CurrentParticipants int    `json:"currentParticipants"`
	MaxParticipants     int    `json:"maxParticipants"`
}

type EventRoster struct {
	Event         EventSummary     `json:"event"`
	Registrations []Registration   `json:"registrations"`
	Pagination    utils.Pagination `json:"pagination"`
}

// AdminInput is a direct override; nil fields are left unchanged.
type AdminInput struct {
	Status *Status
	Notes  *string
}

type PaymentInput struct {
	Status       PaymentStatus
	Method       PaymentMethod
	RefundAmount *float64
}

func summarize(e *event.Event) EventSummary {
	return EventSummary{
		ID:                  e.ID,
		Title:               e.Title,
		CurrentParticipants: e.CurrentParticipants,
		MaxParticipants:     e.MaxParticipants,
	}
}

// ===========================
// Account-facing
// ===========================

// Register books a seat. The event row stays locked from the availability
// check until the registration and the incremented count are committed.
func (s *service) Register(ctx context.Context, user *auth.User, eventID string, d Details, ip string) (*Registration, *event.Event, error) {
	method := d.PaymentMethod
	if method == "" {
		method = MethodOther
	}
	if !method.Valid() {
		return nil, nil, ErrInvalidMethod
	}

	var (
		reg *Registration
		ev  *event.Event
	)
	err := s.repo.WithEventLock(ctx, eventID, func(tx TxRepository, locked *event.Event) error {
		if err := locked.CheckRegistrable(s.now()); err != nil {
			return err
		}
		switch _, err := tx.FindByUserAndEvent(ctx, user.ID, eventID); {
		case err == nil:
			return ErrAlreadyRegistered
		case !errors.Is(err, ErrRegistrationNotFound):
			return err
		}

		reg = &Registration{
			UserID:              user.ID,
			EventID:             eventID,
			Status:              StatusPending,
			RegistrationDate:    s.now().UTC(),
			PaymentStatus:       PaymentPending,
			PaymentAmount:       locked.Price,
			PaymentMethod:       method,
			SpecialRequirements: strings.TrimSpace(d.SpecialRequirements),
		}
		reg.EmergencyContact = datatypes.NewJSONType(d.EmergencyContact)

		if err := tx.Create(ctx, reg); err != nil {
			return err
		}
		if err := tx.IncrementParticipants(ctx, eventID); err != nil {
			return err
		}
		if err := locked.AddParticipant(); err != nil {
			return err
		}
		ev = locked
		return nil
	})
	if err != nil {
		s.log(ctx, user.ID, eventID, "EVENT_REGISTRATION", map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, nil, err
	}

	s.log(ctx, user.ID, eventID, "EVENT_REGISTRATION", map[string]interface{}{
		"registration_id": reg.ID,
		"amount":          reg.PaymentAmount,
	}, ip, "success")
	s.notify(ctx, user.ID, user.Email, ev, notification.CategoryRegistration,
		"Registration received",
		fmt.Sprintf("You are registered for %s on %s. Your booking is pending confirmation.", ev.Title, ev.Date.Format("02 Jan 2006")))
	return reg, ev, nil
}

// Cancel withdraws the caller's registration for an event and releases
// its seat in the same transaction.
func (s *service) Cancel(ctx context.Context, user *auth.User, eventID, reason, ip string) (*Registration, error) {
	var (
		reg *Registration
		ev  *event.Event
	)
	err := s.repo.WithEventLock(ctx, eventID, func(tx TxRepository, locked *event.Event) error {
		found, err := tx.FindByUserAndEvent(ctx, user.ID, eventID)
		if err != nil {
			return err
		}
		if err := found.Cancel(strings.TrimSpace(reason), s.now().UTC()); err != nil {
			return err
		}
		if err := tx.Save(ctx, found); err != nil {
			return err
		}
		if err := tx.DecrementParticipants(ctx, eventID); err != nil {
			return err
		}
		_ = locked.RemoveParticipant()
		reg, ev = found, locked
		return nil
	})
	if err != nil {
		s.log(ctx, user.ID, eventID, "EVENT_REGISTRATION_CANCELLED", map[string]interface{}{"error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.log(ctx, user.ID, eventID, "EVENT_REGISTRATION_CANCELLED", map[string]interface{}{
		"registration_id": reg.ID,
		"reason":          reg.CancellationReason,
	}, ip, "success")
	s.notify(ctx, user.ID, user.Email, ev, notification.CategoryRegistration,
		"Registration cancelled",
		fmt.Sprintf("Your registration for %s has been cancelled.", ev.Title))
	return reg, nil
}

func (s *service) ListMine(ctx context.Context, userID string, status Status, page utils.Page) (*ListResult, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	regs, total, err := s.repo.ListByUser(ctx, userID, Filter{Status: status, Limit: page.Limit, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	return &ListResult{Registrations: regs, Pagination: utils.NewPagination(page, total)}, nil
}

func (s *service) GetMine(ctx context.Context, userID, id string) (*Registration, error) {
	return s.repo.FindForUser(ctx, id, userID)
}

func (s *service) Summary(ctx context.Context, userID string) (*Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.Total, err = s.repo.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	if sum.Active, err = s.repo.CountByUserAndStatus(ctx, userID, StatusPending, StatusConfirmed); err != nil {
		return nil, err
	}
	if sum.Completed, err = s.repo.CountByUserAndStatus(ctx, userID, StatusCompleted); err != nil {
		return nil, err
	}
	return &sum, nil
}

// FindForUserAndEvent returns the caller's registration for the event
// detail view, or nil when there is none.
func (s *service) FindForUserAndEvent(ctx context.Context, userID, eventID string) (any, error) {
	reg, err := s.repo.FindByUserAndEvent(ctx, userID, eventID)
	if errors.Is(err, ErrRegistrationNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"id":               reg.ID,
		"status":           reg.Status,
		"paymentStatus":    reg.PaymentStatus,
		"registrationDate": reg.RegistrationDate,
	}, nil
}

// ===========================
// Admin
// ===========================

func (s *service) ownedEvent(ctx context.Context, adminID, eventID string) (*event.Event, error) {
	ev, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.CreatedBy != adminID {
		return nil, event.ErrEventNotFound
	}
	return ev, nil
}

func (s *service) ListForEvent(ctx context.Context, adminID, eventID string, status Status, page utils.Page) (*EventRoster, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	ev, err := s.ownedEvent(ctx, adminID, eventID)
	if err != nil {
		return nil, err
	}
	regs, total, err := s.repo.ListByEvent(ctx, eventID, Filter{Status: status, Limit: page.Limit, Offset: page.Offset()})
	if err != nil {
		return nil, err
	}
	return &EventRoster{
		Event:         summarize(ev),
		Registrations: regs,
		Pagination:    utils.NewPagination(page, total),
	}, nil
}

func (s *service) Roster(ctx context.Context, adminID, eventID string) (*event.Event, []Registration, error) {
	ev, err := s.ownedEvent(ctx, adminID, eventID)
	if err != nil {
		return nil, nil, err
	}
	regs, err := s.repo.ListAllByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return ev, regs, nil
}

// mutate runs change against one registration of an owned event under the
// event lock and applies the returned seat delta before committing.
func (s *service) mutate(ctx context.Context, adminID, eventID, id string, change func(r *Registration) (int, error)) (*Registration, *event.Event, error) {
	var (
		reg *Registration
		ev  *event.Event
	)
	err := s.repo.WithEventLock(ctx, eventID, func(tx TxRepository, locked *event.Event) error {
		if locked.CreatedBy != adminID {
			return event.ErrEventNotFound
		}
		found, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found.EventID != eventID {
			return ErrRegistrationNotFound
		}

		delta, err := change(found)
		if err != nil {
			return err
		}
		if err := tx.Save(ctx, found); err != nil {
			return err
		}
		switch {
		case delta > 0:
			if err := tx.IncrementParticipants(ctx, eventID); err != nil {
				return err
			}
			_ = locked.AddParticipant()
		case delta < 0:
			if err := tx.DecrementParticipants(ctx, eventID); err != nil {
				return err
			}
			_ = locked.RemoveParticipant()
		}
		reg, ev = found, locked
		return nil
	})
	return reg, ev, err
}

func (s *service) Confirm(ctx context.Context, adminID, eventID, id, ip string) (*Registration, error) {
	reg, ev, err := s.mutate(ctx, adminID, eventID, id, func(r *Registration) (int, error) {
		return 0, r.Confirm()
	})
	if err != nil {
		s.log(ctx, adminID, eventID, "REGISTRATION_CONFIRMED", map[string]interface{}{"registration_id": id, "error": err.Error()}, ip, "failure")
		return nil, err
	}
	s.log(ctx, adminID, eventID, "REGISTRATION_CONFIRMED", map[string]interface{}{"registration_id": id}, ip, "success")
	s.notifyRegistrant(ctx, reg, ev, "Registration confirmed",
		fmt.Sprintf("Your place on %s is confirmed.", ev.Title))
	return reg, nil
}

func (s *service) Complete(ctx context.Context, adminID, eventID, id, ip string) (*Registration, error) {
	reg, ev, err := s.mutate(ctx, adminID, eventID, id, func(r *Registration) (int, error) {
		if err := r.Complete(); err != nil {
			return 0, err
		}
		return -1, nil
	})
	if err != nil {
		s.log(ctx, adminID, eventID, "REGISTRATION_COMPLETED", map[string]interface{}{"registration_id": id, "error": err.Error()}, ip, "failure")
		return nil, err
	}
	s.log(ctx, adminID, eventID, "REGISTRATION_COMPLETED", map[string]interface{}{"registration_id": id}, ip, "success")
	s.notifyRegistrant(ctx, reg, ev, "Event completed",
		fmt.Sprintf("Thanks for joining %s.", ev.Title))
	return reg, nil
}

func (s *service) AdminUpdate(ctx context.Context, adminID, eventID, id string, in AdminInput, ip string) (*Registration, error) {
	if in.Status == nil && in.Notes == nil {
		return nil, utils.Validation("Nothing to update")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var from Status
	reg, ev, err := s.mutate(ctx, adminID, eventID, id, func(r *Registration) (int, error) {
		from = r.Status
		if in.Notes != nil {
			r.Notes = strings.TrimSpace(*in.Notes)
		}
		if in.Status == nil {
			return 0, nil
		}
		return r.ForceStatus(*in.Status, s.now().UTC())
	})
	if err != nil {
		s.log(ctx, adminID, eventID, "REGISTRATION_UPDATED", map[string]interface{}{"registration_id": id, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.log(ctx, adminID, eventID, "REGISTRATION_UPDATED", map[string]interface{}{
		"registration_id": id,
		"from":            from,
		"to":              reg.Status,
	}, ip, "success")
	if reg.Status != from {
		s.notifyRegistrant(ctx, reg, ev, "Registration updated",
			fmt.Sprintf("Your registration for %s is now %s.", ev.Title, reg.Status))
	}
	return reg, nil
}

func (s *service) UpdatePayment(ctx context.Context, adminID, eventID, id string, in PaymentInput, ip string) (*Registration, error) {
	if in.Method != "" && !in.Method.Valid() {
		return nil, ErrInvalidMethod
	}
	if in.RefundAmount != nil && *in.RefundAmount < 0 {
		return nil, utils.Validation("Refund amount cannot be negative")
	}

	reg, ev, err := s.mutate(ctx, adminID, eventID, id, func(r *Registration) (int, error) {
		if err := r.SetPaymentStatus(in.Status); err != nil {
			return 0, err
		}
		if in.Method != "" {
			r.PaymentMethod = in.Method
		}
		if in.RefundAmount != nil {
			if *in.RefundAmount > r.PaymentAmount {
				return 0, utils.Validation("Refund amount cannot exceed the amount paid")
			}
			r.RefundAmount = in.RefundAmount
		}
		return 0, nil
	})
	if err != nil {
		s.log(ctx, adminID, eventID, "REGISTRATION_PAYMENT_UPDATED", map[string]interface{}{"registration_id": id, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	s.log(ctx, adminID, eventID, "REGISTRATION_PAYMENT_UPDATED", map[string]interface{}{
		"registration_id": id,
		"payment_status":  reg.PaymentStatus,
	}, ip, "success")
	s.notifyRegistrant(ctx, reg, ev, "Payment updated",
		fmt.Sprintf("Payment for %s is now %s.", ev.Title, reg.PaymentStatus))
	return reg, nil
}

// ===========================
// Payment hooks
// ===========================

func (s *service) AttachPaymentOrder(ctx context.Context, id, orderID string) error {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	reg.PaymentOrderID = &orderID
	return s.repo.Save(ctx, reg)
}

// MarkPayment records the gateway outcome for the registration holding
// orderID. The registration must belong to userID.
func (s *service) MarkPayment(ctx context.Context, userID, orderID, paymentID string, status PaymentStatus) (*Registration, error) {
	reg, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if reg.UserID != userID {
		return nil, ErrRegistrationNotFound
	}
	if !reg.HoldsSeat() {
		// the gateway may still have captured funds; the audit entry is
		// what an admin refunds from
		s.log(ctx, reg.UserID, reg.EventID, "REGISTRATION_PAYMENT", map[string]interface{}{
			"order_id":   orderID,
			"payment_id": paymentID,
			"status":     status,
			"error":      ErrNotPayable.Error(),
		}, "", "failure")
		return nil, ErrNotPayable
	}
	if err := reg.SetPaymentStatus(status); err != nil {
		return nil, err
	}
	if paymentID != "" {
		reg.PaymentID = &paymentID
	}
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}

	s.log(ctx, reg.UserID, reg.EventID, "REGISTRATION_PAYMENT", map[string]interface{}{
		"order_id":   orderID,
		"payment_id": paymentID,
		"status":     status,
	}, "", "success")
	if reg.Event != nil {
		email := ""
		if reg.User != nil {
			email = reg.User.Email
		}
		s.notify(ctx, reg.UserID, email, reg.Event, notification.CategoryPayment,
			"Payment received", fmt.Sprintf("We received your payment for %s.", reg.Event.Title))
	}
	return reg, nil
}

// MarkFree settles a zero-priced registration without a gateway order.
func (s *service) MarkFree(ctx context.Context, userID, id string) (*Registration, error) {
	reg, err := s.repo.FindForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if reg.PaymentAmount > 0 || !reg.HoldsSeat() {
		return nil, ErrNotPayable
	}
	if reg.PaymentStatus == PaymentPaid {
		return reg, nil
	}
	reg.PaymentStatus = PaymentPaid
	if err := s.repo.Save(ctx, reg); err != nil {
		return nil, err
	}
	s.log(ctx, userID, reg.EventID, "REGISTRATION_PAYMENT", map[string]interface{}{"amount": 0, "status": PaymentPaid}, "", "success")
	return reg, nil
}

// ===========================
// helpers
// ===========================

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

func (s *service) notifyRegistrant(ctx context.Context, reg *Registration, ev *event.Event, title, body string) {
	email := ""
	if reg.User != nil {
		email = reg.User.Email
	}
	s.notify(ctx, reg.UserID, email, ev, notification.CategoryRegistration, title, body)
}

// notify never fails the caller: the state change is already committed.
func (s *service) notify(ctx context.Context, userID, email string, ev *event.Event, cat notification.Category, title, body string) {
	if s.notifier == nil {
		return
	}
	msg := notification.Message{
		UserID:   userID,
		Email:    email,
		EventID:  ev.ID,
		Category: cat,
		Title:    title,
		Body:     body,
		SentAt:   s.now().UTC(),
	}
	if err := s.notifier.Publish(ctx, msg); err != nil {
		log.Printf("⚠️ notification for user %s not published: %v", userID, err)
	}
}
