package auth

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/shelfline/shelfline-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password should verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password should not verify")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("malformed hash should not verify")
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key := hex.EncodeToString(make([]byte, 32))
	svc, err := NewTokenService(key, 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "user-1", Username: "alice"}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID: got %q", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username: got %q", claims.Username)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject: got %q", claims.Subject)
	}
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t)
	if _, err := svc.VerifyAccessToken("v4.local.garbage"); err == nil {
		t.Error("garbage token should not verify")
	}
}

func TestNewTokenService_BadKey(t *testing.T) {
	if _, err := NewTokenService("short", time.Minute, time.Hour); err == nil {
		t.Error("short key should be rejected")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	other, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if token == other {
		t.Error("refresh tokens should be unique")
	}

	if HashRefreshToken(token) == token {
		t.Error("stored hash must differ from the raw token")
	}
	if HashRefreshToken(token) != HashRefreshToken(token) {
		t.Error("hashing must be deterministic")
	}
}
