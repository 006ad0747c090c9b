package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-backend/internal/config"
	"github.com/quizdeck/quizdeck-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newAuthFixture(t *testing.T) (*service.AuthService, *config.Config, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4,
	}
	auth := service.NewAuthService(cfg, client, nil, nil, zerolog.Nop())
	return auth, cfg, mr, client
}

func signTestToken(t *testing.T, cfg *config.Config, jti string, userID int) string {
	t.Helper()
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.JWTExpiry)),
		},
		UserID:   userID,
		Username: "alice",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateTokenRoundTrip(t *testing.T) {
	auth, cfg, _, _ := newAuthFixture(t)

	jti := uuid.New().String()
	token := signTestToken(t, cfg, jti, 7)

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.ID != jti || claims.UserID != 7 || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	auth, _, _, _ := newAuthFixture(t)

	other := &config.Config{JWTSecret: "other-secret", JWTExpiry: time.Hour}
	token := signTestToken(t, other, uuid.New().String(), 7)

	if _, err := auth.ValidateToken(token); err == nil {
		t.Fatalf("expected signature validation to fail")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	auth, cfg, _, _ := newAuthFixture(t)

	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: 7,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := auth.ValidateToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestSessionRegistryAndLogout(t *testing.T) {
	ctx := context.Background()
	auth, _, _, client := newAuthFixture(t)

	jti := uuid.New().String()

	// Unregistered JTI means the session was never issued or already cleared.
	if err := auth.ValidateSession(ctx, jti); !errors.Is(err, service.ErrSessionInvalid) {
		t.Fatalf("expected ErrSessionInvalid, got %v", err)
	}

	if err := client.Set(ctx, config.CacheKey.SessionKey(jti), 7, time.Hour).Err(); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := auth.ValidateSession(ctx, jti); err != nil {
		t.Fatalf("expected live session, got %v", err)
	}

	if err := auth.Logout(ctx, jti); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := auth.ValidateSession(ctx, jti); !errors.Is(err, service.ErrSessionInvalid) {
		t.Fatalf("expected session to be invalidated after logout, got %v", err)
	}
}
