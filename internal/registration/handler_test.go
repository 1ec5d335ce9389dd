package registration

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SHYAMSUNDAR2396/Eco-Tourism-Backend/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestHandlerPathIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	eventID := uuid.NewString()
	svc, store, _ := newTestService(newEvent(eventID, 2))
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/admin") {
			auth.SetCurrent(c, &auth.User{ID: adminID, Role: auth.RoleAdmin}, nil)
		} else {
			auth.SetCurrent(c, user("a"), nil)
		}
		c.Next()
	})
	r.POST("/events/:id/register", h.Register)
	r.DELETE("/events/:id/register", h.CancelRegistration)
	r.GET("/registrations/:rid", h.GetMine)
	r.POST("/admin/events/:id/registrations/:rid/confirm", h.ConfirmRegistration)

	do := func(method, path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
		return w
	}

	cases := []struct {
		name, method, path, msg string
	}{
		{"register malformed event", http.MethodPost, "/events/not-an-id/register", "Event not found"},
		{"cancel malformed event", http.MethodDelete, "/events/42/register", "Event not found"},
		{"register unknown event", http.MethodPost, "/events/" + uuid.NewString() + "/register", "Event not found"},
		{"get malformed registration", http.MethodGet, "/registrations/abc", "Registration not found"},
		{"confirm malformed event", http.MethodPost, "/admin/events/x/registrations/" + uuid.NewString() + "/confirm", "Event not found"},
		{"confirm malformed registration", http.MethodPost, "/admin/events/" + eventID + "/registrations/x/confirm", "Registration not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(tc.method, tc.path)
			if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), tc.msg) {
				t.Errorf("got %d %s, want 404 %q", w.Code, w.Body.String(), tc.msg)
			}
		})
	}
	if got := store.participants(eventID); got != 0 {
		t.Fatalf("participants = %d after rejected requests, want 0", got)
	}

	if w := do(http.MethodPost, "/events/"+eventID+"/register"); w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}
	if got := store.participants(eventID); got != 1 {
		t.Errorf("participants = %d, want 1", got)
	}
}
