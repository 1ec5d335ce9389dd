package registration_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/dbtest"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/event"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/notification"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
	"gorm.io/gorm"
)

type discard struct{}

func (discard) Publish(context.Context, notification.Message) error { return nil }

type ledger struct {
	db     *gorm.DB
	repo   registration.Repository
	events event.Repository
	admin  *auth.User
}

func newLedger(t *testing.T) *ledger {
	t.Helper()
	db := dbtest.Open(t, &auth.User{}, &event.Event{}, &registration.Registration{})
	l := &ledger{db: db, repo: registration.NewRepository(db), events: event.NewRepository(db)}
	l.admin = l.account(t, "admin", auth.RoleAdmin)
	return l
}

func (l *ledger) account(t *testing.T, name string, role auth.Role) *auth.User {
	t.Helper()
	u := &auth.User{Name: name, Email: name + "@eco.test", PasswordHash: "x", Role: role, IsActive: true}
	if err := l.db.Create(u).Error; err != nil {
		t.Fatalf("create account %s: %v", name, err)
	}
	return u
}

func (l *ledger) trip(t *testing.T, max int) *event.Event {
	t.Helper()
	e := &event.Event{
		Title:           "Sundarbans Boat Safari",
		Description:     "Mangrove creeks at dawn",
		Category:        event.CategoryWildlifeSafari,
		Date:            time.Now().Add(10 * 24 * time.Hour).UTC(),
		Location:        "Gosaba",
		MaxParticipants: max,
		Price:           2000,
		Duration:        8,
		Difficulty:      event.DifficultyEasy,
		Status:          event.StatusUpcoming,
		CreatedBy:       l.admin.ID,
		IsActive:        true,
	}
	if err := l.events.Create(context.Background(), e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func (l *ledger) counts(t *testing.T, eventID string) (seats int, rows int64) {
	t.Helper()
	e, err := l.events.FindByID(context.Background(), eventID)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.db.Model(&registration.Registration{}).
		Where("event_id = ? AND status IN ?", eventID, []registration.Status{registration.StatusPending, registration.StatusConfirmed}).
		Count(&rows).Error; err != nil {
		t.Fatal(err)
	}
	return e.CurrentParticipants, rows
}

func pending(userID, eventID string) *registration.Registration {
	return &registration.Registration{
		UserID:        userID,
		EventID:       eventID,
		Status:        registration.StatusPending,
		PaymentStatus: registration.PaymentPending,
		PaymentMethod: registration.MethodOther,
	}
}

func TestRepositoryDuplicateInsert(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	ev := l.trip(t, 5)
	guest := l.account(t, "meera", auth.RoleUser)

	book := func() error {
		return l.repo.WithEventLock(ctx, ev.ID, func(tx registration.TxRepository, _ *event.Event) error {
			if err := tx.Create(ctx, pending(guest.ID, ev.ID)); err != nil {
				return err
			}
			return tx.IncrementParticipants(ctx, ev.ID)
		})
	}

	if err := book(); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := book(); !errors.Is(err, registration.ErrAlreadyRegistered) {
		t.Fatalf("second insert: err = %v, want ErrAlreadyRegistered", err)
	}
	if seats, rows := l.counts(t, ev.ID); seats != 1 || rows != 1 {
		t.Errorf("seats = %d, rows = %d, want 1 and 1", seats, rows)
	}
}

func TestRepositoryWithEventLockRollsBack(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	ev := l.trip(t, 5)
	guest := l.account(t, "karan", auth.RoleUser)

	boom := errors.New("payment provider down")
	err := l.repo.WithEventLock(ctx, ev.ID, func(tx registration.TxRepository, locked *event.Event) error {
		if locked.ID != ev.ID {
			t.Errorf("locked event = %s", locked.ID)
		}
		if err := tx.Create(ctx, pending(guest.ID, ev.ID)); err != nil {
			return err
		}
		if err := tx.IncrementParticipants(ctx, ev.ID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if seats, rows := l.counts(t, ev.ID); seats != 0 || rows != 0 {
		t.Errorf("seats = %d, rows = %d after rollback, want 0 and 0", seats, rows)
	}

	err = l.repo.WithEventLock(ctx, "0b6f7a4e-3c1d-4f0e-9a51-2d7c8e6b1aff", func(registration.TxRepository, *event.Event) error {
		t.Error("fn ran for an unknown event")
		return nil
	})
	if !errors.Is(err, event.ErrEventNotFound) {
		t.Errorf("unknown event: err = %v", err)
	}
}

func TestConcurrentRegistrationAgainstDatabase(t *testing.T) {
	l := newLedger(t)
	ctx := context.Background()
	ev := l.trip(t, 1)
	svc := registration.NewService(l.repo, l.events, nil, discard{})

	const contenders = 8
	guests := make([]*auth.User, contenders)
	for i := range guests {
		guests[i] = l.account(t, fmt.Sprintf("guest%d", i), auth.RoleUser)
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []*auth.User
		full    int
	)
	for _, g := range guests {
		wg.Add(1)
		go func(g *auth.User) {
			defer wg.Done()
			_, _, err := svc.Register(ctx, g, ev.ID, registration.Details{}, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, g)
			case errors.Is(err, event.ErrCapacityExceeded):
				full++
			default:
				t.Errorf("register %s: %v", g.Name, err)
			}
		}(g)
	}
	wg.Wait()

	if len(winners) != 1 || full != contenders-1 {
		t.Fatalf("winners = %d, full = %d", len(winners), full)
	}
	if seats, rows := l.counts(t, ev.ID); seats != 1 || rows != 1 {
		t.Fatalf("seats = %d, rows = %d, want 1 and 1", seats, rows)
	}

	winner := winners[0]
	if _, err := svc.Cancel(ctx, winner, ev.ID, "", ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := svc.Cancel(ctx, winner, ev.ID, "", ""); !errors.Is(err, registration.ErrCannotCancel) {
		t.Fatalf("second cancel: err = %v, want ErrCannotCancel", err)
	}
	if seats, rows := l.counts(t, ev.ID); seats != 0 || rows != 0 {
		t.Fatalf("seats = %d, rows = %d after cancel, want 0 and 0", seats, rows)
	}

	var next *auth.User
	for _, g := range guests {
		if g.ID != winner.ID {
			next = g
			break
		}
	}
	if _, _, err := svc.Register(ctx, next, ev.ID, registration.Details{}, ""); err != nil {
		t.Fatalf("register after cancel: %v", err)
	}
	if seats, _ := l.counts(t, ev.ID); seats != 1 {
		t.Errorf("seats = %d, want 1", seats)
	}
}
