package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPathID(t *testing.T) {
	notFound := NotFound("Event not found")
	cases := []struct {
		name string
		path string
		ok   bool
	}{
		{"uuid", "/events/3f2b8c1e-9d4a-4e7b-8f60-1a2b3c4d5e6f", true},
		{"plain word", "/events/latest", false},
		{"object id", "/events/64b7f0c2a1e4d2f3b9c8a7e6", false},
		{"truncated", "/events/3f2b8c1e-9d4a-4e7b-8f60", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var (
				got    string
				called bool
			)
			r := gin.New()
			r.GET("/events/:id", func(c *gin.Context) {
				id, ok := PathID(c, "id", notFound)
				if !ok {
					return
				}
				called, got = true, id
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if called != tc.ok {
				t.Fatalf("handler continued = %v, want %v", called, tc.ok)
			}
			if tc.ok {
				if w.Code != http.StatusNoContent || got != tc.path[len("/events/"):] {
					t.Errorf("status %d, id %q", w.Code, got)
				}
				return
			}
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
		})
	}
}
