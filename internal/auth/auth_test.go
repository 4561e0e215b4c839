package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute)

	token, err := issuer.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := issuer.TokenClaims("Bearer " + token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims["sub"] != "admin" || claims["role"] != RoleAdmin {
		t.Errorf("unexpected claims %v", claims)
	}
}

func TestIssuer_Rejects(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute)
	other := NewIssuer("other-secret", time.Minute)
	foreign, _ := other.GenerateToken("admin", RoleAdmin)

	expiredIssuer := NewIssuer("test-secret", time.Minute)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, _ := expiredIssuer.GenerateToken("admin", RoleAdmin)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "admin", "role": RoleAdmin})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{"no bearer prefix", foreign, ErrMissingToken},
		{"empty", "", ErrMissingToken},
		{"wrong secret", "Bearer " + foreign, ErrInvalidToken},
		{"expired", "Bearer " + expired, ErrInvalidToken},
		{"alg none", "Bearer " + unsigned, ErrInvalidToken},
		{"garbage", "Bearer not.a.token", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.TokenClaims(tt.header); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCredentials_Check(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	creds := Credentials{Username: "admin", PasswordHash: string(hash)}

	if err := creds.Check("admin", "secret"); err != nil {
		t.Errorf("expected valid credentials, got %v", err)
	}
	if err := creds.Check("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := creds.Check("root", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := (Credentials{Username: "admin"}).Check("admin", "secret"); !errors.Is(err, ErrLoginDisabled) {
		t.Errorf("expected ErrLoginDisabled, got %v", err)
	}
}
