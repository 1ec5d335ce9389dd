package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/segmentio/kafka-go"
)

type memRepo struct {
	mu    sync.Mutex
	items []InAppNotification
}

func (m *memRepo) CreateInApp(_ context.Context, n *InAppNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = uint(len(m.items) + 1)
	m.items = append(m.items, *n)
	return nil
}

func (m *memRepo) ListInAppByUser(_ context.Context, userID string, unreadOnly bool, limit int) ([]InAppNotification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []InAppNotification
	for _, n := range m.items {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memRepo) MarkInAppAsRead(_ context.Context, id uint, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			m.items[i].IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, it := range m.items {
		if it.UserID == userID && !it.IsRead {
			n++
		}
	}
	return n, nil
}

type memMailer struct {
	sent []string
}

func (m *memMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

func TestDeliverStoresAndEmails(t *testing.T) {
	repo := &memRepo{}
	mailer := &memMailer{}
	svc := NewService(repo, nil, mailer)

	err := svc.Deliver(context.Background(), Message{
		UserID:   "u1",
		Email:    "u1@example.com",
		EventID:  "e1",
		Category: CategoryRegistration,
		Title:    "Registered",
		Body:     "You are in",
	})
	if err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	items, unread, err := svc.ListInAppByUser(context.Background(), "u1", false, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || unread != 1 {
		t.Fatalf("items=%d unread=%d, want 1/1", len(items), unread)
	}
	if items[0].EventID == nil || *items[0].EventID != "e1" {
		t.Errorf("EventID = %v, want e1", items[0].EventID)
	}
	if len(mailer.sent) != 1 || mailer.sent[0] != "u1@example.com|Registered" {
		t.Errorf("mail sent = %v", mailer.sent)
	}
}

func TestMarkInAppAsReadOwnership(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, nil, nil)
	ctx := context.Background()

	if err := svc.Deliver(ctx, Message{UserID: "u1", Category: CategorySystem, Title: "t", Body: "b"}); err != nil {
		t.Fatal(err)
	}

	err := svc.MarkInAppAsRead(ctx, 1, "someone-else")
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("err = %v, want ErrNotificationNotFound", err)
	}
	if err := svc.MarkInAppAsRead(ctx, 1, "u1"); err != nil {
		t.Fatalf("MarkInAppAsRead: %v", err)
	}
	_, unread, _ := svc.ListInAppByUser(ctx, "u1", false, 10)
	if unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestSubscribeWithoutRedis(t *testing.T) {
	svc := NewService(&memRepo{}, nil, nil)
	_, err := svc.Subscribe(context.Background(), "u1")
	if utils.KindOf(err) != utils.KindUnexpected || !errors.Is(err, ErrStreamUnavailable) {
		t.Fatalf("err = %v, want ErrStreamUnavailable", err)
	}
}

func TestDirectPublisherDelivers(t *testing.T) {
	repo := &memRepo{}
	pub := NewPublisher(nil, NewService(repo, nil, nil))

	if err := pub.Publish(context.Background(), Message{UserID: "u2", Category: CategoryEvent, Title: "t", Body: "b"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(repo.items) != 1 || repo.items[0].UserID != "u2" {
		t.Fatalf("items = %+v", repo.items)
	}
}

// fakeReader replays a fixed set of records, then blocks until cancelled.
type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	closed    bool
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestStartConsumer(t *testing.T) {
	good, _ := json.Marshal(Message{UserID: "u3", Category: CategoryPayment, Title: "Paid", Body: "ok"})

	ctx, cancel := context.WithCancel(context.Background())
	r := &fakeReader{
		msgs: []kafka.Message{
			{Offset: 1, Value: []byte("{not json")},
			{Offset: 2, Value: good},
		},
		cancel: cancel,
	}
	repo := &memRepo{}

	StartConsumer(ctx, r, NewService(repo, nil, nil))

	if len(repo.items) != 1 || repo.items[0].Title != "Paid" {
		t.Fatalf("delivered = %+v", repo.items)
	}
	if len(r.committed) != 2 {
		t.Errorf("committed = %v, want both offsets", r.committed)
	}
	if !r.closed {
		t.Error("reader was not closed")
	}
}

// flakyRepo fails the first failures inserts.
type flakyRepo struct {
	memRepo
	failures int
	attempts int
	onFail   func()
}

func (f *flakyRepo) CreateInApp(ctx context.Context, n *InAppNotification) error {
	f.attempts++
	if f.attempts <= f.failures {
		if f.onFail != nil {
			f.onFail()
		}
		return errors.New("connection reset")
	}
	return f.memRepo.CreateInApp(ctx, n)
}

func fastBackoff(t *testing.T) {
	saved := deliveryBackoff
	deliveryBackoff = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	t.Cleanup(func() { deliveryBackoff = saved })
}

func TestStartConsumerRetriesDelivery(t *testing.T) {
	fastBackoff(t)
	first, _ := json.Marshal(Message{UserID: "u1", Title: "Registered", Body: "see you"})
	second, _ := json.Marshal(Message{UserID: "u2", Title: "Confirmed", Body: "ok"})

	t.Run("recovers on the same message", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := &fakeReader{msgs: []kafka.Message{{Offset: 7, Value: first}, {Offset: 8, Value: second}}, cancel: cancel}
		repo := &flakyRepo{failures: 2}

		StartConsumer(ctx, r, NewService(repo, nil, nil))

		if len(repo.items) != 2 || repo.items[0].Title != "Registered" || repo.items[1].Title != "Confirmed" {
			t.Fatalf("delivered = %+v", repo.items)
		}
		if repo.attempts != 4 {
			t.Errorf("attempts = %d, want 4", repo.attempts)
		}
		if len(r.committed) != 2 || r.committed[0] != 7 {
			t.Errorf("committed = %v", r.committed)
		}
	})

	t.Run("drops after the last attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := &fakeReader{msgs: []kafka.Message{{Offset: 7, Value: first}, {Offset: 8, Value: second}}, cancel: cancel}
		repo := &flakyRepo{failures: len(deliveryBackoff) + 1}

		StartConsumer(ctx, r, NewService(repo, nil, nil))

		if len(repo.items) != 1 || repo.items[0].Title != "Confirmed" {
			t.Fatalf("delivered = %+v", repo.items)
		}
		if len(r.committed) != 2 {
			t.Errorf("committed = %v, want both offsets", r.committed)
		}
	})

	t.Run("shutdown leaves the message uncommitted", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		r := &fakeReader{msgs: []kafka.Message{{Offset: 7, Value: first}}, cancel: cancel}
		repo := &flakyRepo{failures: 100, onFail: cancel}

		StartConsumer(ctx, r, NewService(repo, nil, nil))

		if len(r.committed) != 0 {
			t.Errorf("committed = %v, want none", r.committed)
		}
		if !r.closed {
			t.Error("reader was not closed")
		}
	})
}
