package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/config"
)

type Service interface {
	Signup(ctx context.Context, in SignupInput) (*User, *TokenPair, error)
	CreateAdmin(ctx context.Context, in SignupInput) (*User, error)
	Login(ctx context.Context, in LoginInput) (*User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, claims *Claims) error

	// Authenticate resolves an access token to an active account.
	Authenticate(ctx context.Context, token string) (*User, *Claims, error)

	GetUserByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error)
	ChangePassword(ctx context.Context, id, current, next string) error
	Deactivate(ctx context.Context, id string) error
}

type service struct {
	repo     Repository
	tokens   *TokenManager
	denylist Denylist
	now      func() time.Time
}

// NewService wires the account service. denylist may be nil, in which
// case logout is client-side only.
func NewService(r Repository, cfg *config.Config, denylist Denylist) Service {
	return newService(r, NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL), denylist)
}

func newService(r Repository, tokens *TokenManager, denylist Denylist) *service {
	return &service{repo: r, tokens: tokens, denylist: denylist, now: time.Now}
}

// =============================
// Signup
// =============================

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

func (in SignupInput) validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return ErrMissingFields
	}
	if len(in.Password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func (s *service) Signup(ctx context.Context, in SignupInput) (*User, *TokenPair, error) {
	user, err := s.create(ctx, in, RoleUser)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *service) CreateAdmin(ctx context.Context, in SignupInput) (*User, error) {
	return s.create(ctx, in, RoleAdmin)
}

func (s *service) create(ctx context.Context, in SignupInput, role Role) (*User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.FindByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := &User{
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Role:     role,
		Phone:    strings.TrimSpace(in.Phone),
		Address:  strings.TrimSpace(in.Address),
		IsActive: true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}
	// unique index is the backstop for concurrent signups
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(ctx context.Context, in LoginInput) (*User, *TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, in.Email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if !user.ComparePassword(in.Password) {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountDeactivated
	}

	now := s.now()
	user.LastLoginAt = &now
	if err := s.repo.UpdateFields(ctx, user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		return nil, nil, err
	}

	tokens, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// =============================
// Refresh / Logout
// =============================

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return "", err
	}
	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueAccess(user)
}

func (s *service) Logout(ctx context.Context, claims *Claims) error {
	if s.denylist == nil || claims == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, s.tokens.Remaining(claims))
}

// =============================
// Access Gate core
// =============================

func (s *service) Authenticate(ctx context.Context, token string) (*User, *Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil, ErrMissingToken
	}
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, nil, err
	}
	user, err := s.activeUser(ctx, claims.Subject)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *service) checkRevoked(ctx context.Context, claims *Claims) error {
	if s.denylist == nil {
		return nil
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

// activeUser maps a missing subject to an auth failure, not a 404.
func (s *service) activeUser(ctx context.Context, id string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return user, nil
}

// =============================
// Profile
// =============================

type ProfileInput struct {
	Name    string
	Phone   string
	Address string
}

func (s *service) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id string, in ProfileInput) (*User, error) {
	fields := map[string]interface{}{}
	if v := strings.TrimSpace(in.Name); v != "" {
		fields["name"] = v
	}
	if v := strings.TrimSpace(in.Phone); v != "" {
		fields["phone"] = v
	}
	if v := strings.TrimSpace(in.Address); v != "" {
		fields["address"] = v
	}
	if len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ChangePassword(ctx context.Context, id, current, next string) error {
	if current == "" || next == "" {
		return ErrMissingPasswords
	}
	if len(next) < MinPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.ComparePassword(current) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(next); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"password_hash": user.PasswordHash})
}

// Deactivate is the self-service soft delete.
func (s *service) Deactivate(ctx context.Context, id string) error {
	return s.repo.UpdateFields(ctx, id, map[string]interface{}{"is_active": false})
}
