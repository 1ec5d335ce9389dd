package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
	"gorm.io/gorm"
)

// TxRepository is the view of the ledger inside WithEventLock. Every call
// runs in the same transaction that holds the event row lock.
type TxRepository interface {
	FindByID(ctx context.Context, id string) (*Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID string) (*Registration, error)
	Create(ctx context.Context, r *Registration) error
	Save(ctx context.Context, r *Registration) error
	IncrementParticipants(ctx context.Context, eventID string) error
	DecrementParticipants(ctx context.Context, eventID string) error
}

type Repository interface {
	// WithEventLock runs fn in one transaction holding SELECT ... FOR UPDATE
	// on the event row. fn's error rolls back every write it made.
	WithEventLock(ctx context.Context, eventID string, fn func(tx TxRepository, ev *event.Event) error) error

	FindByID(ctx context.Context, id string) (*Registration, error)
	FindForUser(ctx context.Context, id, userID string) (*Registration, error)
	FindByUserAndEvent(ctx context.Context, userID, eventID string) (*Registration, error)
	FindByOrderID(ctx context.Context, orderID string) (*Registration, error)
	ListByUser(ctx context.Context, userID string, f Filter) ([]Registration, int64, error)
	ListByEvent(ctx context.Context, eventID string, f Filter) ([]Registration, int64, error)
	ListAllByEvent(ctx context.Context, eventID string) ([]Registration, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	CountByUserAndStatus(ctx context.Context, userID string, statuses ...Status) (int64, error)
	Save(ctx context.Context, r *Registration) error
}

type Filter struct {
	Status Status
	Limit  int
	Offset int
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithEventLock(ctx context.Context, eventID string, fn func(tx TxRepository, ev *event.Event) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := event.NewRepository(tx).LockByID(ctx, eventID)
		if err != nil {
			return err
		}
		return fn(&txRepository{db: tx, events: event.NewRepository(tx)}, ev)
	})
}

func withUser(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email", "phone", "role")
	})
}

func found(r *Registration, err error) (*Registration, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load registration: %w", err)
	}
	return r, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Registration, error) {
	var reg Registration
	err := withUser(r.db.WithContext(ctx)).Preload("Event").Where("id = ?", id).First(&reg).Error
	return found(&reg, err)
}

func (r *repository) FindForUser(ctx context.Context, id, userID string) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).Preload("Event").
		Where("id = ? AND user_id = ?", id, userID).
		First(&reg).Error
	return found(&reg, err)
}

func (r *repository) FindByUserAndEvent(ctx context.Context, userID, eventID string) (*Registration, error) {
	var reg Registration
	err := r.db.WithContext(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&reg).Error
	return found(&reg, err)
}

func (r *repository) FindByOrderID(ctx context.Context, orderID string) (*Registration, error) {
	var reg Registration
	err := withUser(r.db.WithContext(ctx)).Preload("Event").Where("payment_order_id = ?", orderID).First(&reg).Error
	return found(&reg, err)
}

func (r *repository) list(query *gorm.DB, f Filter) ([]Registration, int64, error) {
	var (
		regs  []Registration
		total int64
	)
	if f.Status != "" {
		query = query.Where("registrations.status = ?", f.Status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit).Offset(f.Offset)
	}
	if err := query.Order("registration_date DESC").Find(&regs).Error; err != nil {
		return nil, 0, err
	}
	if regs == nil {
		regs = []Registration{}
	}
	return regs, total, nil
}

func (r *repository) ListByUser(ctx context.Context, userID string, f Filter) ([]Registration, int64, error) {
	query := r.db.WithContext(ctx).Model(&Registration{}).
		Preload("Event").
		Where("user_id = ?", userID)
	return r.list(query, f)
}

func (r *repository) ListByEvent(ctx context.Context, eventID string, f Filter) ([]Registration, int64, error) {
	query := withUser(r.db.WithContext(ctx).Model(&Registration{})).Where("event_id = ?", eventID)
	return r.list(query, f)
}

func (r *repository) ListAllByEvent(ctx context.Context, eventID string) ([]Registration, error) {
	regs, _, err := r.ListByEvent(ctx, eventID, Filter{})
	return regs, err
}

func (r *repository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Registration{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *repository) CountByUserAndStatus(ctx context.Context, userID string, statuses ...Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Registration{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Count(&n).Error
	return n, err
}

func (r *repository) Save(ctx context.Context, reg *Registration) error {
	return r.db.WithContext(ctx).Omit("User", "Event").Save(reg).Error
}

// ===========================
// transactional view

type txRepository struct {
	db     *gorm.DB
	events event.Repository
}

func (t *txRepository) FindByID(ctx context.Context, id string) (*Registration, error) {
	var reg Registration
	err := withUser(t.db.WithContext(ctx)).Where("id = ?", id).First(&reg).Error
	return found(&reg, err)
}

func (t *txRepository) FindByUserAndEvent(ctx context.Context, userID, eventID string) (*Registration, error) {
	var reg Registration
	err := t.db.WithContext(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).First(&reg).Error
	return found(&reg, err)
}

func (t *txRepository) Create(ctx context.Context, reg *Registration) error {
	err := t.db.WithContext(ctx).Omit("User", "Event").Create(reg).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyRegistered
	}
	return err
}

func (t *txRepository) Save(ctx context.Context, reg *Registration) error {
	return t.db.WithContext(ctx).Omit("User", "Event").Save(reg).Error
}

func (t *txRepository) IncrementParticipants(ctx context.Context, eventID string) error {
	return t.events.IncrementParticipants(ctx, eventID)
}

func (t *txRepository) DecrementParticipants(ctx context.Context, eventID string) error {
	return t.events.DecrementParticipants(ctx, eventID)
}
