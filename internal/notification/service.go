package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/redis/go-redis/v9"
)

var (
	ErrNotificationNotFound = utils.NotFound("Notification not found")
	ErrStreamUnavailable    = utils.NewError(utils.KindUnexpected, "Live notifications are not enabled")
)

// Mailer is satisfied by *utils.Mailer.
type Mailer interface {
	Send(to, subject, body string) error
}

type Service interface {
	// Deliver stores the in-app record, fans it out to live streams and
	// emails the recipient when an address is set.
	Deliver(ctx context.Context, msg Message) error
	ListInAppByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]InAppNotification, int64, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID string) error
	// Subscribe opens the live feed for userID. Callers must Close it.
	Subscribe(ctx context.Context, userID string) (*redis.PubSub, error)
}

type service struct {
	repo   Repository
	redis  *redis.Client
	mailer Mailer
}

// NewService accepts a nil redis client and a nil mailer; the matching
// channel is skipped.
func NewService(repo Repository, rdb *redis.Client, mailer Mailer) Service {
	return &service{repo: repo, redis: rdb, mailer: mailer}
}

func userChannel(userID string) string {
	return "notifications:user:" + userID
}

func (s *service) Deliver(ctx context.Context, msg Message) error {
	item := &InAppNotification{
		UserID:   msg.UserID,
		Title:    msg.Title,
		Message:  msg.Body,
		Category: msg.Category,
	}
	if msg.EventID != "" {
		eventID := msg.EventID
		item.EventID = &eventID
	}
	if err := s.repo.CreateInApp(ctx, item); err != nil {
		return fmt.Errorf("store in-app notification: %w", err)
	}

	if s.redis != nil {
		payload, _ := json.Marshal(item)
		if err := s.redis.Publish(ctx, userChannel(item.UserID), payload).Err(); err != nil {
			log.Printf("⚠️ redis publish for user %s failed: %v", item.UserID, err)
		}
	}

	if s.mailer != nil && msg.Email != "" {
		if err := s.mailer.Send(msg.Email, msg.Title, msg.Body); err != nil {
			log.Printf("❌ email to %s failed: %v", msg.Email, err)
		}
	}
	return nil
}

func (s *service) ListInAppByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]InAppNotification, int64, error) {
	items, err := s.repo.ListInAppByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []InAppNotification{}
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return items, unread, nil
}

func (s *service) MarkInAppAsRead(ctx context.Context, id uint, userID string) error {
	ok, err := s.repo.MarkInAppAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *service) Subscribe(ctx context.Context, userID string) (*redis.PubSub, error) {
	if s.redis == nil {
		return nil, ErrStreamUnavailable
	}
	sub := s.redis.Subscribe(ctx, userChannel(userID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return sub, nil
}
