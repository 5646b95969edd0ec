package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/llamacto/llama-gin/internal/errors"
)

func newTestJWT(t *testing.T, secret string) *JWTService {
	t.Helper()
	svc, err := NewJWTService(secret, "HS256")
	if err != nil {
		t.Fatalf("new jwt service: %v", err)
	}
	return svc
}

func TestIssueAndValidate(t *testing.T) {
	svc := newTestJWT(t, "test-secret")

	token, err := svc.Issue("alice@example.com", 30*time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token is not a compact JWS: %q", token)
	}

	subject, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if subject != "alice@example.com" {
		t.Errorf("subject = %q", subject)
	}
}

func TestValidateExpired(t *testing.T) {
	svc := newTestJWT(t, "test-secret")

	token, err := svc.Issue("alice@example.com", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("ttl=0 token: expected ErrTokenExpired, got %v", err)
	}

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return issuedAt })
	token, err = svc.Issue("alice@example.com", time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.WithClock(func() time.Time { return issuedAt.Add(59 * time.Second) })
	if _, err := svc.Validate(token); err != nil {
		t.Errorf("token should still be valid: %v", err)
	}

	svc.WithClock(func() time.Time { return issuedAt.Add(time.Minute) })
	if _, err := svc.Validate(token); !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired at exp, got %v", err)
	}
}

func flipByte(token string, i int) string {
	b := []byte(token)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	return string(b)
}

func TestValidateTamperedSignature(t *testing.T) {
	svc := newTestJWT(t, "test-secret")

	token, err := svc.Issue("alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sigStart := strings.LastIndex(token, ".") + 1
	if _, err := svc.Validate(flipByte(token, sigStart)); !errors.Is(err, apperrors.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateAnyAlteredByte(t *testing.T) {
	svc := newTestJWT(t, "test-secret")

	token, err := svc.Issue("alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	headerEnd := strings.Index(token, ".")
	payloadEnd := strings.LastIndex(token, ".")
	for i := range token {
		if token[i] == '.' {
			continue
		}
		segment := "signature"
		switch {
		case i < headerEnd:
			segment = "header"
		case i < payloadEnd:
			segment = "payload"
		}
		if _, err := svc.Validate(flipByte(token, i)); !errors.Is(err, apperrors.ErrInvalidSignature) {
			t.Errorf("byte %d (%s): expected ErrInvalidSignature, got %v", i, segment, err)
		}
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := newTestJWT(t, "secret-a").Issue("alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newTestJWT(t, "secret-b").Validate(token); !errors.Is(err, apperrors.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateWrongAlgorithm(t *testing.T) {
	other, err := NewJWTService("test-secret", "HS512")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	token, err := other.Issue("alice@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := newTestJWT(t, "test-secret").Validate(token); !errors.Is(err, apperrors.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidateMalformed(t *testing.T) {
	svc := newTestJWT(t, "test-secret")
	for _, token := range []string{"", "garbage", "a.b.c", "only.two", "a.b.c.d"} {
		if _, err := svc.Validate(token); !errors.Is(err, apperrors.ErrMalformedToken) {
			t.Errorf("Validate(%q): expected ErrMalformedToken, got %v", token, err)
		}
	}
}

func TestValidateMissingSubject(t *testing.T) {
	svc := newTestJWT(t, "test-secret")
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Validate(token); !errors.Is(err, apperrors.ErrMalformedToken) {
		t.Errorf("expected ErrMalformedToken, got %v", err)
	}
}

func TestNewJWTServiceRejectsNonHMAC(t *testing.T) {
	if _, err := NewJWTService("secret", "RS256"); err == nil {
		t.Error("RS256 should be rejected")
	}
	if _, err := NewJWTService("secret", "none"); err == nil {
		t.Error("none should be rejected")
	}
	if _, err := NewJWTService("", "HS256"); err == nil {
		t.Error("empty secret should be rejected")
	}
}
