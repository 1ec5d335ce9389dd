package userprofile

import (
	"context"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/registration"
)

// ========== INTERFACES ==========

type Accounts interface {
	GetUserByID(ctx context.Context, id string) (*auth.User, error)
}

type Bookings interface {
	Summary(ctx context.Context, userID string) (*registration.Summary, error)
}

type Service interface {
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}

type service struct {
	accounts Accounts
	bookings Bookings
}

func NewService(accounts Accounts, bookings Bookings) Service {
	return &service{accounts: accounts, bookings: bookings}
}

// ========== DTO ==========

type Stats struct {
	TotalRegistrations  int64     `json:"totalRegistrations"`
	ActiveRegistrations int64     `json:"activeRegistrations"`
	CompletedEvents     int64     `json:"completedEvents"`
	MemberSince         time.Time `json:"memberSince"`
}

type Dashboard struct {
	User  *auth.User `json:"user"`
	Stats Stats      `json:"stats"`
}

func (s *service) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.accounts.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sum, err := s.bookings.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		User: user,
		Stats: Stats{
			TotalRegistrations:  sum.Total,
			ActiveRegistrations: sum.Active,
			CompletedEvents:     sum.Completed,
			MemberSince:         user.CreatedAt,
		},
	}, nil
}
