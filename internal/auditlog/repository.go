package auditlog

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, log *AuditLog) error
	GetByFilter(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
	GetByID(ctx context.Context, id uint) (*AuditLogResponse, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

const selectWithNames = `
	al.id, al.user_id, al.event_id, al.action,
	al.details, al.ip_address, al.status, al.created_at,
	u.name as user_name,
	e.title as event_title`

func (r *repository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("audit_logs al").
		Select(selectWithNames).
		Joins("LEFT JOIN users u ON al.user_id = u.id").
		Joins("LEFT JOIN events e ON al.event_id = e.id")
}

func (r *repository) Create(ctx context.Context, log *AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// matching narrows the joined query to f. Action is a substring match.
func matching(f AuditLogFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != nil {
			db = db.Where("al.user_id = ?", *f.UserID)
		}
		if f.EventID != nil {
			db = db.Where("al.event_id = ?", *f.EventID)
		}
		if f.Action != "" {
			db = db.Where("al.action ILIKE ?", "%"+f.Action+"%")
		}
		if f.Status != "" {
			db = db.Where("al.status = ?", f.Status)
		}
		if f.FromDate != nil {
			db = db.Where("al.created_at >= ?", *f.FromDate)
		}
		if f.ToDate != nil {
			db = db.Where("al.created_at <= ?", *f.ToDate)
		}
		return db
	}
}

func (r *repository) GetByFilter(ctx context.Context, f AuditLogFilter) ([]AuditLogResponse, int64, error) {
	var total int64
	if err := r.joined(ctx).Scopes(matching(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []AuditLogResponse
	err := r.joined(ctx).Scopes(matching(f)).
		Order("al.created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *repository) GetByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	var log AuditLogResponse
	if err := r.joined(ctx).Where("al.id = ?", id).First(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}
