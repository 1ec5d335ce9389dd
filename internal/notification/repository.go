package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateInApp(ctx context.Context, n *InAppNotification) error
	ListInAppByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID string) (bool, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateInApp(ctx context.Context, n *InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListInAppByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]InAppNotification, error) {
	var items []InAppNotification
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit <= 0 {
		limit = 20
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}

// MarkInAppAsRead reports false when no notification with that id belongs
// to the user.
func (r *repository) MarkInAppAsRead(ctx context.Context, id uint, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}
