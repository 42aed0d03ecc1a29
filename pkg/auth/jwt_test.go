package auth_test

import (
	"testing"
	"time"

	"github.com/PAUBookIt/book-it-backend/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.NewAccessToken(42, "ada.obi@pau.edu.ng", "admin", "facility", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	claims, err := auth.Parse(token, "secret")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Sub != 42 || claims.Role != "admin" || claims.SubType != "facility" {
		t.Errorf("claims = %+v, want sub=42 role=admin sub_type=facility", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := auth.NewAccessToken(1, "x@pau.edu.ng", "normal", "student", "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	if _, err := auth.Parse(token, "other-secret"); err == nil {
		t.Error("Parse() with wrong secret should fail")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := auth.NewAccessToken(1, "x@pau.edu.ng", "normal", "student", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}

	if _, err := auth.Parse(token, "secret"); err == nil {
		t.Error("Parse() of expired token should fail")
	}
}
