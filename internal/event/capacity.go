package event

import (
	"strings"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
)

var (
	ErrEventNotFound          = utils.NotFound("Event not found")
	ErrEventUnavailable       = utils.NotFound("Event not found or inactive")
	ErrCapacityExceeded       = utils.Validation("Event is full")
	ErrNoParticipantsToRemove = utils.Validation("No participants to remove")
	ErrEventInPast            = utils.Validation("Cannot register for past events")
	ErrEventClosed            = utils.Validation("Event is not open for registration")
	ErrDateNotInFuture        = utils.Validation("Event date must be in the future")
	ErrHasRegistrations       = utils.Validation("Cannot delete event with existing registrations")
	ErrInvalidProgress        = utils.Validation("Progress must be a number between 0 and 100")
	ErrInvalidStatus          = utils.Validation("Invalid status")
	ErrCapacityBelowBooked    = utils.Validation("Max participants cannot be lower than current participants")
)

// ===========================
// Capacity Controller
//
// These methods only touch the in-memory value; persistence goes through
// the repository's conditional updates.

func (e *Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

func (e *Event) AvailableSpots() int {
	if n := e.MaxParticipants - e.CurrentParticipants; n > 0 {
		return n
	}
	return 0
}

func (e *Event) AddParticipant() error {
	if e.IsFull() {
		return ErrCapacityExceeded
	}
	e.CurrentParticipants++
	return nil
}

func (e *Event) RemoveParticipant() error {
	if e.CurrentParticipants <= 0 {
		return ErrNoParticipantsToRemove
	}
	e.CurrentParticipants--
	return nil
}

// SetProgress clamps p to [0,100].
func (e *Event) SetProgress(p int) {
	switch {
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	e.Progress = p
}

func (e *Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}

// CheckRegistrable reports why a new registration would be refused.
// Date is checked before capacity so past events never report full.
func (e *Event) CheckRegistrable(now time.Time) error {
	if !e.IsActive {
		return ErrEventUnavailable
	}
	if !e.IsUpcoming(now) {
		return ErrEventInPast
	}
	if e.Status == StatusCancelled || e.Status == StatusCompleted {
		return ErrEventClosed
	}
	if e.IsFull() {
		return ErrCapacityExceeded
	}
	return nil
}

// Validate checks the field invariants of a new or edited event.
func (e *Event) Validate() error {
	switch {
	case strings.TrimSpace(e.Title) == "", strings.TrimSpace(e.Description) == "", strings.TrimSpace(e.Location) == "":
		return utils.Validation("Title, description, and location are required")
	case !e.Category.Valid():
		return utils.Validation("Invalid category")
	case !e.Difficulty.Valid():
		return utils.Validation("Invalid difficulty")
	case !e.Status.Valid():
		return ErrInvalidStatus
	case e.MaxParticipants < 1:
		return utils.Validation("Max participants must be at least 1")
	case e.CurrentParticipants < 0:
		return ErrNoParticipantsToRemove
	case e.CurrentParticipants > e.MaxParticipants:
		return ErrCapacityBelowBooked
	case e.Price < 0:
		return utils.Validation("Price cannot be negative")
	case e.Duration < 0.5:
		return utils.Validation("Duration must be at least 0.5 hours")
	case e.Progress < 0 || e.Progress > 100:
		return ErrInvalidProgress
	}
	return nil
}
