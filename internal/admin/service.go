package admin

import (
	"context"
	"strings"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auditlog"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
)

var (
	ErrSelfStatus      = utils.Validation("Cannot deactivate your own account")
	ErrSelfDelete      = utils.Validation("Cannot delete your own account")
	ErrDeleteAdmin     = utils.Forbidden("Cannot delete admin accounts")
	ErrHasBookings     = utils.Validation("User has event registrations; deactivate the account instead")
	ErrInvalidRole     = utils.Validation("Invalid role filter")
	ErrInvalidStatus   = utils.Validation("Invalid status filter. Use 'true' or 'false'")
	ErrMissingIsActive = utils.Validation("isActive must be a boolean value")
)

// RegistrationCounter reports how many registrations an account holds.
type RegistrationCounter interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	ListUsers(ctx context.Context, q UserQuery) (*UserList, error)
	GetUser(ctx context.Context, id string) (*auth.User, error)
	SetUserStatus(ctx context.Context, adminID, id string, isActive bool, ip string) (*auth.User, error)
	DeleteUser(ctx context.Context, adminID, id, ip string) error
}

type service struct {
	users         auth.Repository
	registrations RegistrationCounter
	audit         auditlog.Service
}

func NewService(users auth.Repository, registrations RegistrationCounter, audit auditlog.Service) Service {
	return &service{users: users, registrations: registrations, audit: audit}
}

type Stats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalAdmins   int64 `json:"totalAdmins"`
	ActiveUsers   int64 `json:"activeUsers"`
	InactiveUsers int64 `json:"inactiveUsers"`
}

type Dashboard struct {
	Stats       Stats       `json:"stats"`
	RecentUsers []auth.User `json:"recentUsers"`
}

type UserQuery struct {
	Page   utils.Page
	Search string
	Role   string
	Status string // "", "true" or "false"
}

type UserList struct {
	Users      []auth.User      `json:"users"`
	Pagination utils.Pagination `json:"pagination"`
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
		yes = true
		no  = false
	)
	if d.Stats.TotalUsers, err = s.users.Count(ctx, auth.RoleUser, nil); err != nil {
		return nil, err
	}
	if d.Stats.TotalAdmins, err = s.users.Count(ctx, auth.RoleAdmin, nil); err != nil {
		return nil, err
	}
	if d.Stats.ActiveUsers, err = s.users.Count(ctx, auth.RoleUser, &yes); err != nil {
		return nil, err
	}
	if d.Stats.InactiveUsers, err = s.users.Count(ctx, auth.RoleUser, &no); err != nil {
		return nil, err
	}
	if d.RecentUsers, err = s.users.Recent(ctx, auth.RoleUser, 10); err != nil {
		return nil, err
	}
	if d.RecentUsers == nil {
		d.RecentUsers = []auth.User{}
	}
	return &d, nil
}

func (s *service) ListUsers(ctx context.Context, q UserQuery) (*UserList, error) {
	f := auth.UserFilter{
		Search: strings.TrimSpace(q.Search),
		Limit:  q.Page.Limit,
		Offset: q.Page.Offset(),
	}
	if q.Role != "" {
		role, err := auth.ParseRole(q.Role)
		if err != nil {
			return nil, ErrInvalidRole
		}
		f.Role = role
	}
	switch q.Status {
	case "":
	case "true", "false":
		active := q.Status == "true"
		f.IsActive = &active
	default:
		return nil, ErrInvalidStatus
	}

	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []auth.User{}
	}
	return &UserList{Users: users, Pagination: utils.NewPagination(q.Page, total)}, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*auth.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *service) SetUserStatus(ctx context.Context, adminID, id string, isActive bool, ip string) (*auth.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == adminID {
		s.log(ctx, adminID, "USER_STATUS_UPDATE_FAILED", map[string]interface{}{
			"target_user_id": id,
			"reason":         "cannot change own status",
		}, ip, "failure")
		return nil, ErrSelfStatus
	}

	if err := s.users.UpdateFields(ctx, id, map[string]interface{}{"is_active": isActive}); err != nil {
		return nil, err
	}
	user.IsActive = isActive

	s.log(ctx, adminID, "USER_STATUS_UPDATED", map[string]interface{}{
		"target_user_id": id,
		"target_email":   user.Email,
		"is_active":      isActive,
	}, ip, "success")
	return user, nil
}

func (s *service) DeleteUser(ctx context.Context, adminID, id, ip string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	reason := ""
	switch {
	case user.ID == adminID:
		err, reason = ErrSelfDelete, "cannot delete own account"
	case user.IsAdmin():
		err, reason = ErrDeleteAdmin, "cannot delete admin account"
	default:
		n, cerr := s.registrations.CountByUser(ctx, id)
		if cerr != nil {
			return cerr
		}
		if n > 0 {
			err, reason = ErrHasBookings, "user has registrations"
		}
	}
	if err != nil {
		s.log(ctx, adminID, "USER_DELETE_FAILED", map[string]interface{}{
			"target_user_id": id,
			"target_email":   user.Email,
			"reason":         reason,
		}, ip, "failure")
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log(ctx, adminID, "USER_DELETED", map[string]interface{}{
		"target_user_id": id,
		"target_email":   user.Email,
	}, ip, "success")
	return nil
}

func (s *service) log(ctx context.Context, adminID, action string, details map[string]interface{}, ip, status string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.LogAction(ctx, &adminID, nil, action, details, ip, status)
}
