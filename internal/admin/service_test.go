package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

type memUsers struct {
	mu    sync.Mutex
	users map[string]*auth.User
	order []string
}

func newMemUsers(users ...auth.User) *memUsers {
	m := &memUsers{users: map[string]*auth.User{}}
	for i := range users {
		u := users[i]
		m.users[u.ID] = &u
		m.order = append(m.order, u.ID)
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	m.order = append(m.order, u.ID)
	return nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Update(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) UpdateFields(_ context.Context, id string, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	if v, ok := fields["is_active"]; ok {
		u.IsActive = v.(bool)
	}
	return nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return auth.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) matching(role auth.Role, isActive *bool) []auth.User {
	var out []auth.User
	for _, id := range m.order {
		u, ok := m.users[id]
		if !ok {
			continue
		}
		if role != "" && u.Role != role {
			continue
		}
		if isActive != nil && u.IsActive != *isActive {
			continue
		}
		out = append(out, *u)
	}
	return out
}

func (m *memUsers) List(_ context.Context, f auth.UserFilter) ([]auth.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []auth.User
	for _, u := range m.matching(f.Role, f.IsActive) {
		if f.Search != "" && !strings.Contains(u.Name, f.Search) && !strings.Contains(u.Email, f.Search) {
			continue
		}
		out = append(out, u)
	}
	total := int64(len(out))
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *memUsers) Count(_ context.Context, role auth.Role, isActive *bool) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.matching(role, isActive))), nil
}

func (m *memUsers) Recent(_ context.Context, role auth.Role, limit int) ([]auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.matching(role, nil)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memUsers) AdminExists(ctx context.Context) (bool, error) {
	n, err := m.Count(ctx, auth.RoleAdmin, nil)
	return n > 0, err
}

type regCounts map[string]int64

func (r regCounts) CountByUser(_ context.Context, userID string) (int64, error) {
	return r[userID], nil
}

func fixture() (*memUsers, regCounts) {
	users := newMemUsers(
		auth.User{ID: "admin-1", Name: "Asha", Email: "asha@eco.test", Role: auth.RoleAdmin, IsActive: true},
		auth.User{ID: "admin-2", Name: "Ravi", Email: "ravi@eco.test", Role: auth.RoleAdmin, IsActive: true},
		auth.User{ID: "user-1", Name: "Meera", Email: "meera@mail.test", Role: auth.RoleUser, IsActive: true},
		auth.User{ID: "user-2", Name: "Karan", Email: "karan@mail.test", Role: auth.RoleUser, IsActive: false},
		auth.User{ID: "user-3", Name: "Divya", Email: "divya@mail.test", Role: auth.RoleUser, IsActive: true},
	)
	return users, regCounts{"user-3": 2}
}

func TestDashboardCounts(t *testing.T) {
	users, regs := fixture()
	svc := NewService(users, regs, nil)

	d, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	want := Stats{TotalUsers: 3, TotalAdmins: 2, ActiveUsers: 2, InactiveUsers: 1}
	if d.Stats != want {
		t.Errorf("stats = %+v, want %+v", d.Stats, want)
	}
	if len(d.RecentUsers) != 3 {
		t.Errorf("recent users = %d", len(d.RecentUsers))
	}
}

func TestListUsersFilters(t *testing.T) {
	users, regs := fixture()
	svc := NewService(users, regs, nil)
	ctx := context.Background()
	page := utils.Page{Number: 1, Limit: 10}

	list, err := svc.ListUsers(ctx, UserQuery{Page: page, Role: "user", Status: "true"})
	if err != nil {
		t.Fatal(err)
	}
	if list.Pagination.TotalItems != 2 {
		t.Errorf("active users = %d", list.Pagination.TotalItems)
	}

	list, err = svc.ListUsers(ctx, UserQuery{Page: page, Search: "Karan"})
	if err != nil || len(list.Users) != 1 || list.Users[0].ID != "user-2" {
		t.Errorf("search: %+v, %v", list, err)
	}

	if _, err := svc.ListUsers(ctx, UserQuery{Page: page, Status: "maybe"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("bad status: %v", err)
	}
	if _, err := svc.ListUsers(ctx, UserQuery{Page: page, Role: "superuser"}); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role: %v", err)
	}
}

func TestSetUserStatus(t *testing.T) {
	users, regs := fixture()
	svc := NewService(users, regs, nil)
	ctx := context.Background()

	if _, err := svc.SetUserStatus(ctx, "admin-1", "admin-1", false, ""); !errors.Is(err, ErrSelfStatus) {
		t.Errorf("self deactivate: %v", err)
	}
	if _, err := svc.SetUserStatus(ctx, "admin-1", "missing", false, ""); !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("missing user: %v", err)
	}

	u, err := svc.SetUserStatus(ctx, "admin-1", "user-1", false, "")
	if err != nil || u.IsActive {
		t.Fatalf("deactivate: %+v, %v", u, err)
	}
	stored, _ := users.FindByID(ctx, "user-1")
	if stored.IsActive {
		t.Error("deactivation not persisted")
	}
}

func TestDeleteUserGuards(t *testing.T) {
	users, regs := fixture()
	svc := NewService(users, regs, nil)
	ctx := context.Background()

	cases := []struct {
		name   string
		target string
		kind   utils.Kind
	}{
		{"self", "admin-1", utils.KindValidation},
		{"other admin", "admin-2", utils.KindForbidden},
		{"has registrations", "user-3", utils.KindValidation},
		{"missing", "nobody", utils.KindNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.DeleteUser(ctx, "admin-1", tc.target, "")
			if utils.KindOf(err) != tc.kind {
				t.Errorf("err = %v, want kind %v", err, tc.kind)
			}
		})
	}

	if err := svc.DeleteUser(ctx, "admin-1", "user-2", ""); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := users.FindByID(ctx, "user-2"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Errorf("user still present: %v", err)
	}
}

func TestUpdateUserStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const (
		adminID  = "0b6f7a4e-3c1d-4f0e-9a51-2d7c8e6b1a01"
		activeID = "0b6f7a4e-3c1d-4f0e-9a51-2d7c8e6b1a02"
		dormant  = "0b6f7a4e-3c1d-4f0e-9a51-2d7c8e6b1a03"
	)
	users := newMemUsers(
		auth.User{ID: adminID, Name: "Asha", Email: "asha@eco.test", Role: auth.RoleAdmin, IsActive: true},
		auth.User{ID: activeID, Name: "Meera", Email: "meera@mail.test", Role: auth.RoleUser, IsActive: true},
		auth.User{ID: dormant, Name: "Karan", Email: "karan@mail.test", Role: auth.RoleUser, IsActive: false},
	)
	h := NewHandler(NewService(users, regCounts{}, nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		admin, _ := users.FindByID(c.Request.Context(), adminID)
		auth.SetCurrent(c, admin, nil)
		c.Next()
	})
	r.PATCH("/users/:id/status", h.UpdateUserStatus)
	r.GET("/users/:id", h.GetUserByID)
	r.DELETE("/users/:id", h.DeleteUser)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	if w := do(http.MethodPatch, "/users/"+activeID+"/status", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing isActive: %d", w.Code)
	}
	if w := do(http.MethodPatch, "/users/"+adminID+"/status", `{"isActive":false}`); w.Code != http.StatusBadRequest {
		t.Errorf("self: %d", w.Code)
	}
	w := do(http.MethodPatch, "/users/"+dormant+"/status", `{"isActive":true}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "User activated successfully") {
		t.Errorf("activate: %d %s", w.Code, w.Body.String())
	}

	// ids that are not uuids never reach the store
	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/users/user-1", ""},
		{http.MethodPatch, "/users/user-1/status", `{"isActive":false}`},
		{http.MethodDelete, "/users/1%27%20OR%201=1", ""},
	} {
		w := do(tc.method, tc.path, tc.body)
		if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "User not found") {
			t.Errorf("%s %s: %d %s", tc.method, tc.path, w.Code, w.Body.String())
		}
	}
	if u, _ := users.FindByID(context.Background(), activeID); !u.IsActive {
		t.Error("malformed id changed an account")
	}
}
