package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestTokens() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestTokens()
	u := &User{ID: "u-1", Role: RoleAdmin}

	pair, err := m.IssuePair(u)
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}

	claims, err := m.ParseAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != RoleAdmin || claims.Type != AccessToken {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := m.ParseRefresh(pair.RefreshToken); err != nil {
		t.Fatalf("ParseRefresh: %v", err)
	}
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := newTestTokens()
	pair, err := m.IssuePair(&User{ID: "u-1", Role: RoleUser})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseAccess(pair.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token: %v", err)
	}
	if _, err := m.ParseRefresh(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token: %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newTestTokens()
	issued := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	tok, err := m.IssueAccess(&User{ID: "u-1", Role: RoleUser})
	if err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := m.ParseAccess(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted: %v", err)
	}
}

func TestWrongSigningMethodRejected(t *testing.T) {
	m := newTestTokens()
	claims := Claims{
		Role: RoleAdmin,
		Type: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "j",
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ParseAccess(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("unsigned token accepted: %v", err)
	}
}

func TestMalformedToken(t *testing.T) {
	if _, err := newTestTokens().ParseAccess("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("malformed token accepted: %v", err)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole(" Admin "); err != nil || r != RoleAdmin {
		t.Errorf("ParseRole(Admin) = %q, %v", r, err)
	}
	if _, err := ParseRole("superadmin"); err == nil {
		t.Error("unknown role accepted")
	}
	if RoleAdmin.DashboardPath() != "/admin/dashboard" || RoleUser.DashboardPath() != "/user/dashboard" {
		t.Error("unexpected dashboard paths")
	}
}
