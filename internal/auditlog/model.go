package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *string        `gorm:"type:uuid;index" json:"userId"`  // nullable (e.g. failed login)
	EventID   *string        `gorm:"type:uuid;index" json:"eventId"` // nullable (account actions)
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ipAddress"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogResponse joins the actor and event names for display.
type AuditLogResponse struct {
	ID         uint           `json:"id"`
	UserID     *string        `json:"userId"`
	EventID    *string        `json:"eventId"`
	Action     string         `json:"action"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `json:"ipAddress"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	UserName   *string        `json:"userName,omitempty"`
	EventTitle *string        `json:"eventTitle,omitempty"`
}

type AuditLogFilter struct {
	UserID   *string
	EventID  *string
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

type PaginatedAuditLogs struct {
	Data       []AuditLogResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}
