package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/vivimart/storefront-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "vivimart",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	now := time.Now()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{Phone: "9876543210"})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.Phone != "9876543210" {
		t.Fatalf("expected phone claim, got %q", claims.Phone)
	}
	if claims.Subject != "9876543210" {
		t.Fatalf("expected subject to mirror phone, got %q", claims.Subject)
	}
	if claims.Issuer != "vivimart" {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestMintAccessTokenValidation(t *testing.T) {
	t.Parallel()

	now := time.Now()

	if _, err := MintAccessToken(config.JWTConfig{Issuer: "vivimart", ExpirationMinutes: 60}, now, AccessTokenPayload{Phone: "9876543210"}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := MintAccessToken(testJWTConfig(), now, AccessTokenPayload{Phone: "  "}); err == nil {
		t.Fatal("expected error for missing phone")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{Phone: "9876543210"})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signed, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{Phone: "9876543210"})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := testJWTConfig()
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, signed); err == nil || !strings.Contains(err.Error(), "iss") {
		t.Fatalf("expected issuer validation failure, got %v", err)
	}
}
