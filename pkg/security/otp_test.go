package security

import (
	"strings"
	"testing"

	"github.com/vivimart/storefront-backend/pkg/config"
)

func testOTPConfig() config.OTPConfig {
	return config.OTPConfig{
		CodeLength:       6,
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	code, err := GenerateCode(6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6 digits, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Fatalf("expected numeric code, got %q", code)
		}
	}

	if _, err := GenerateCode(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}

func TestHashAndVerifyCode(t *testing.T) {
	t.Parallel()

	cfg := testOTPConfig()
	encoded, err := HashCode("482916", cfg)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format %q", encoded)
	}

	ok, err := VerifyCode("482916", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected matching code to verify")
	}

	ok, err = VerifyCode("000000", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched code to fail")
	}
}

func TestVerifyCodeRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := VerifyCode("482916", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
	if _, err := VerifyCode("482916", "$argon2i$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash for wrong variant, got %v", err)
	}
}
