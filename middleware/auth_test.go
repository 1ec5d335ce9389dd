package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/utils"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubAuth resolves fixed tokens to fixed accounts.
type stubAuth struct {
	auth.Service
	accounts map[string]*auth.User
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*auth.User, *auth.Claims, error) {
	if token == "" {
		return nil, nil, auth.ErrMissingToken
	}
	u, ok := s.accounts[token]
	if !ok {
		return nil, nil, auth.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, nil, auth.ErrAccountDeactivated
	}
	return u, &auth.Claims{}, nil
}

func newTestRouter() *gin.Engine {
	svc := &stubAuth{accounts: map[string]*auth.User{
		"user-token":     {ID: "u1", Role: auth.RoleUser, IsActive: true},
		"admin-token":    {ID: "a1", Role: auth.RoleAdmin, IsActive: true},
		"disabled-token": {ID: "u2", Role: auth.RoleUser, IsActive: false},
	}}

	r := gin.New()
	ok := func(c *gin.Context) {
		u, _ := auth.CurrentUser(c)
		id := ""
		if u != nil {
			id = u.ID
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	}
	r.GET("/me", AuthMiddleware(svc), ok)
	r.GET("/admin", AuthMiddleware(svc), RequireRole(auth.RoleAdmin), ok)
	r.GET("/user", AuthMiddleware(svc), RequireRole(auth.RoleUser), ok)
	r.GET("/public", OptionalAuth(svc), ok)
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"missing token", "/me", "", http.StatusUnauthorized},
		{"unknown token", "/me", "garbage", http.StatusUnauthorized},
		{"deactivated account", "/me", "disabled-token", http.StatusUnauthorized},
		{"valid user", "/me", "user-token", http.StatusOK},
		{"user on admin route", "/admin", "user-token", http.StatusForbidden},
		{"admin on admin route", "/admin", "admin-token", http.StatusOK},
		{"admin on user route", "/user", "admin-token", http.StatusForbidden},
		{"anonymous on public route", "/public", "", http.StatusOK},
		{"bad token on public route", "/public", "garbage", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, tc.path, tc.token)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tc.status, w.Body.String())
			}
			if tc.status != http.StatusOK {
				var env utils.Envelope
				if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil || env.Success {
					t.Errorf("expected error envelope, got %s", w.Body.String())
				}
			}
		})
	}
}

func TestOptionalAuthAttachesUser(t *testing.T) {
	w := do(newTestRouter(), "/public", "user-token")
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "u1" {
		t.Errorf("id = %q, want u1", body["id"])
	}
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token user-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestGetIPFromContext(t *testing.T) {
	r := gin.New()
	var got string
	r.GET("/", AuditMiddleware(), func(c *gin.Context) { got = GetIPFromContext(c) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	if got != "203.0.113.7" {
		t.Errorf("ip = %q", got)
	}
}
