package registration

import (
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

func (p PaymentStatus) Valid() bool {
	switch p {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodDebitCard    PaymentMethod = "debit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCash         PaymentMethod = "cash"
	MethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCreditCard, MethodDebitCard, MethodBankTransfer, MethodCash, MethodOther:
		return true
	}
	return false
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Registration binds one account to one event. The (user_id, event_id)
// pair is unique.
type Registration struct {
	ID      string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID  string `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_user_event,priority:1;index:idx_registrations_user_status,priority:1" json:"userId"`
	EventID string `gorm:"type:uuid;not null;uniqueIndex:idx_registrations_user_event,priority:2;index:idx_registrations_event_status,priority:1" json:"eventId"`

	Status           Status    `gorm:"size:16;not null;default:'pending';index:idx_registrations_user_status,priority:2;index:idx_registrations_event_status,priority:2;index:idx_registrations_status_date,priority:1" json:"status"`
	RegistrationDate time.Time `gorm:"not null;index:idx_registrations_status_date,priority:2" json:"registrationDate"`

	PaymentStatus  PaymentStatus `gorm:"size:16;not null;default:'pending'" json:"paymentStatus"`
	PaymentAmount  float64       `gorm:"not null;default:0" json:"paymentAmount"`
	PaymentMethod  PaymentMethod `gorm:"size:16;not null;default:'other'" json:"paymentMethod"`
	PaymentOrderID *string       `gorm:"size:64;uniqueIndex" json:"paymentOrderId,omitempty"`
	PaymentID      *string       `gorm:"size:64" json:"paymentId,omitempty"`

	SpecialRequirements string                               `gorm:"type:text" json:"specialRequirements,omitempty"`
	EmergencyContact    datatypes.JSONType[EmergencyContact] `gorm:"type:jsonb" json:"emergencyContact"`

	CancellationReason string     `gorm:"type:text" json:"cancellationReason,omitempty"`
	CancellationDate   *time.Time `json:"cancellationDate,omitempty"`
	RefundAmount       *float64   `json:"refundAmount,omitempty"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`

	User  *auth.User   `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	Event *event.Event `gorm:"foreignKey:EventID;references:ID;constraint:OnDelete:RESTRICT" json:"event,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.RegistrationDate.IsZero() {
		r.RegistrationDate = tx.NowFunc()
	}
	return nil
}

// Details is what a registrant supplies when booking.
type Details struct {
	SpecialRequirements string
	EmergencyContact    EmergencyContact
	PaymentMethod       PaymentMethod
}

// Summary is a per-user count used by the user dashboard.
type Summary struct {
	Total     int64 `json:"totalRegistrations"`
	Active    int64 `json:"activeRegistrations"`
	Completed int64 `json:"completedEvents"`
}
