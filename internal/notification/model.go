package notification

import (
	"time"
)

type Category string

const (
	CategoryRegistration Category = "registration"
	CategoryPayment      Category = "payment"
	CategoryEvent        Category = "event"
	CategorySystem       Category = "system"
)

// Message is one notification travelling from a domain action to delivery.
// It is the Kafka record value when the pipeline is enabled.
type Message struct {
	UserID   string    `json:"userId"`
	Email    string    `json:"email,omitempty"`
	EventID  string    `json:"eventId,omitempty"`
	Category Category  `json:"category"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sentAt"`
}

// InAppNotification is a per-user bell notification.
type InAppNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_inapp_user_created,priority:1" json:"userId"`
	EventID   *string   `gorm:"type:uuid" json:"eventId,omitempty"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Category  Category  `gorm:"size:30;not null" json:"category"`
	IsRead    bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_inapp_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (InAppNotification) TableName() string {
	return "in_app_notifications"
}
