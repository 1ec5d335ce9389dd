package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	// LockByID loads the event with SELECT ... FOR UPDATE; only meaningful
	// on a repository bound to a transaction.
	LockByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, f Filter) ([]Event, int64, error)
	DistinctCategories(ctx context.Context, f Filter) ([]Category, error)
	Update(ctx context.Context, e *Event) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	CountRegistrations(ctx context.Context, eventID string) (int64, error)
	Stats(ctx context.Context, createdBy string, now time.Time) (*Stats, error)

	// Atomic conditional updates of current_participants.
	IncrementParticipants(ctx context.Context, id string) error
	DecrementParticipants(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// columns an admin edit may write; current_participants is owned by the
// registration flow and never written from here.
var editableColumns = []string{
	"title", "description", "category", "date", "location", "coordinates", "images",
	"max_participants", "price", "duration", "difficulty", "status", "progress",
	"requirements", "highlights", "organizer", "is_active", "updated_at",
}

var sortColumns = map[string]string{
	"date":      "date",
	"price":     "price",
	"title":     "title",
	"createdAt": "created_at",
	"progress":  "progress",
}

func withCreator(db *gorm.DB) *gorm.DB {
	return db.Preload("Creator", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email", "role")
	})
}

// ===========================
// 🎯 Create Event
func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Omit("Creator").Create(e).Error
}

// ===========================
// 🔍 Get Event By ID
func (r *repository) FindByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := withCreator(r.db.WithContext(ctx)).Where("id = ?", id).First(&e).Error
	return r.found(&e, err)
}

func (r *repository) LockByID(ctx context.Context, id string) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&e).Error
	return r.found(&e, err)
}

func (r *repository) found(e *Event, err error) (*Event, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	return e, nil
}

func (r *repository) scoped(ctx context.Context, f Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&Event{})
	if f.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if f.CreatedBy != "" {
		query = query.Where("created_by = ?", f.CreatedBy)
	}
	return query
}

// ===========================
// 📄 List Events With Pagination & Search
func (r *repository) List(ctx context.Context, f Filter) ([]Event, int64, error) {
	var (
		events []Event
		total  int64
	)

	query := r.scoped(ctx, f)
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("(title ILIKE ? OR description ILIKE ? OR location ILIKE ?)", like, like, like)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "date"
	}

	err := withCreator(query).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: f.SortDesc}).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *repository) DistinctCategories(ctx context.Context, f Filter) ([]Category, error) {
	var cats []Category
	err := r.scoped(ctx, f).Distinct("category").Order("category").Pluck("category", &cats).Error
	return cats, err
}

// ===========================
// 🛠 Update Event
func (r *repository) Update(ctx context.Context, e *Event) error {
	res := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND current_participants <= ?", e.ID, e.MaxParticipants).
		Select(editableColumns).
		Updates(e)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCapacityBelowBooked
	}
	return nil
}

func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ===========================
// ❌ Delete Event
func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Event{})
	if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
		// a registration landed after the service counted none
		return ErrHasRegistrations
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ===========================
// 🔢 Count registrations of any status for an event
func (r *repository) CountRegistrations(ctx context.Context, eventID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("registrations").Where("event_id = ?", eventID).Count(&n).Error
	return n, err
}

func (r *repository) Stats(ctx context.Context, createdBy string, now time.Time) (*Stats, error) {
	var s Stats
	owned := Filter{CreatedBy: createdBy}

	if err := r.scoped(ctx, owned).Count(&s.TotalEvents).Error; err != nil {
		return nil, err
	}
	if err := r.scoped(ctx, owned).Where("is_active = ?", true).Count(&s.ActiveEvents).Error; err != nil {
		return nil, err
	}
	if err := r.scoped(ctx, owned).Where("date > ? AND is_active = ?", now, true).Count(&s.UpcomingEvents).Error; err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).
		Table("registrations").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("events.created_by = ?", createdBy).
		Count(&s.TotalRegistrations).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// IncrementParticipants takes a seat only while one is free. Zero rows
// affected means the event was full at write time.
func (r *repository) IncrementParticipants(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND current_participants < max_participants", id).
		UpdateColumn("current_participants", gorm.Expr("current_participants + 1"))
	if res.Error != nil {
		return fmt.Errorf("increment participants: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCapacityExceeded
	}
	return nil
}

func (r *repository) DecrementParticipants(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ? AND current_participants > 0", id).
		UpdateColumn("current_participants", gorm.Expr("current_participants - 1"))
	if res.Error != nil {
		return fmt.Errorf("decrement participants: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoParticipantsToRemove
	}
	return nil
}
