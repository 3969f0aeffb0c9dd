package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndValidate(t *testing.T) {
	m, err := NewTokenManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	for _, role := range []Role{RoleViewer, RoleAdmin} {
		s, err := m.Issue(role)
		if err != nil {
			t.Fatalf("Issue(%s): %v", role, err)
		}

		claims, err := m.Validate(s.Token)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if claims.Role != role || claims.SessionID != s.SessionID {
			t.Errorf("claims = %+v, want role %s session %s", claims, role, s.SessionID)
		}
	}
}

func TestSessionsAreDistinct(t *testing.T) {
	m, _ := NewTokenManager(testSecret, time.Hour)
	a, _ := m.Issue(RoleViewer)
	b, _ := m.Issue(RoleViewer)
	if a.SessionID == b.SessionID {
		t.Fatal("two sessions share an ID")
	}
}

func TestValidateRejects(t *testing.T) {
	m, _ := NewTokenManager(testSecret, time.Hour)
	other, _ := NewTokenManager(strings.Repeat("x", 32), time.Hour)
	foreign, _ := other.Issue(RoleAdmin)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: "s",
		Role:      RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte(testSecret))

	badRole := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID:        "s",
		Role:             "root",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer},
	})
	badRoleToken, _ := badRole.SignedString([]byte(testSecret))

	tests := map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": foreign.Token,
		"expired":      expiredToken,
		"unknown role": badRoleToken,
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Validate(token); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNewTokenManagerShortSecret(t *testing.T) {
	if _, err := NewTokenManager("short", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}
