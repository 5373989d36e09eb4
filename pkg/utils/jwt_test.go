package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(TokenConfig{
		Secret:       "test-secret",
		Issuer:       "travel-journal",
		Audience:     "travel-journal-clients",
		AccessExpiry: 15 * time.Minute,
	})
}

func TestGenerateAccessTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.GenerateAccessToken(42, "ann@example.com")
	if err != nil {
		t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
	}

	claims, err := issuer.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken() unexpected error: %v", err)
	}
	id, ok := claims.SubjectID()
	if !ok || id != 42 {
		t.Errorf("SubjectID() = %d, %v, want 42, true", id, ok)
	}
	if claims.Email != "ann@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "ann@example.com")
	}
}

func TestValidateAccessTokenInvalid(t *testing.T) {
	if _, err := newTestIssuer().ValidateAccessToken("not-a-valid-token"); err != ErrInvalidToken {
		t.Errorf("ValidateAccessToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessTokenWrongSecret(t *testing.T) {
	other := NewTokenIssuer(TokenConfig{Secret: "other", Issuer: "travel-journal", Audience: "travel-journal-clients", AccessExpiry: time.Hour})
	token, err := other.GenerateAccessToken(1, "a@b.c")
	if err != nil {
		t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
	}

	if _, err := newTestIssuer().ValidateAccessToken(token); err != ErrInvalidToken {
		t.Errorf("ValidateAccessToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessTokenExpired(t *testing.T) {
	issuer := newTestIssuer()
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := issuer.GenerateAccessToken(1, "a@b.c")
	if err != nil {
		t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
	}

	issuer.now = time.Now
	if _, err := issuer.ValidateAccessToken(token); err != ErrInvalidToken {
		t.Errorf("ValidateAccessToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccessTokenWrongIssuerAndAudience(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		audience string
	}{
		{name: "issuer", issuer: "someone-else", audience: "travel-journal-clients"},
		{name: "audience", issuer: "travel-journal", audience: "someone-else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forged := NewTokenIssuer(TokenConfig{Secret: "test-secret", Issuer: tt.issuer, Audience: tt.audience, AccessExpiry: time.Hour})
			token, err := forged.GenerateAccessToken(1, "a@b.c")
			if err != nil {
				t.Fatalf("GenerateAccessToken() unexpected error: %v", err)
			}
			if _, err := newTestIssuer().ValidateAccessToken(token); err != ErrInvalidToken {
				t.Errorf("ValidateAccessToken() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestValidateAccessTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "travel-journal",
		Audience:  jwt.ClaimStrings{"travel-journal-clients"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := newTestIssuer().ValidateAccessToken(token); err != ErrInvalidToken {
		t.Errorf("ValidateAccessToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestSubjectIDMissing(t *testing.T) {
	c := &Claims{}
	if _, ok := c.SubjectID(); ok {
		t.Error("SubjectID() ok = true for empty subject")
	}
	c.Subject = "abc"
	if _, ok := c.SubjectID(); ok {
		t.Error("SubjectID() ok = true for non-numeric subject")
	}
}

func TestGenerateRefreshTokenUnique(t *testing.T) {
	issuer := newTestIssuer()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := issuer.GenerateRefreshToken()
		if err != nil {
			t.Fatalf("GenerateRefreshToken() unexpected error: %v", err)
		}
		if len(token) != 43 {
			t.Errorf("GenerateRefreshToken() length = %d, want 43", len(token))
		}
		if seen[token] {
			t.Fatalf("GenerateRefreshToken() returned duplicate %q", token)
		}
		seen[token] = true
	}
}
