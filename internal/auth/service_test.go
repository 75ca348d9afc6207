package auth

import (
	"context"
	"testing"
	"time"

	"github.com/vivimart/storefront-backend/pkg/config"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

const testPhone = "9876543210"

func testOTPConfig() config.OTPConfig {
	return config.OTPConfig{
		TTL:         5 * time.Minute,
		MaxAttempts: 3,
		CodeLength:  6,
		// Small parameters keep hashing fast under test.
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret",
		Issuer:            "vivimart-test",
		ExpirationMinutes: 60,
	}
}

func testLimits() config.AuthRateLimitConfig {
	return config.AuthRateLimitConfig{
		OTPWindow:     time.Minute,
		OTPPhoneLimit: 3,
		OTPIPLimit:    20,
	}
}

func newTestService(t *testing.T) (Service, *captureSender, *stubStore) {
	t.Helper()
	store := newStubStore()
	sender := &captureSender{}
	svc, err := NewService(store, sender, testOTPConfig(), testJWTConfig(), testLimits(), logger.New(logger.Options{ServiceName: "auth-test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, sender, store
}

func TestRequestAndVerifyCode(t *testing.T) {
	t.Parallel()

	svc, sender, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, testPhone, "10.0.0.1"); err != nil {
		t.Fatalf("request code: %v", err)
	}
	if len(sender.codes) != 1 || len(sender.codes[0]) != 6 {
		t.Fatalf("expected one 6-digit code sent, got %v", sender.codes)
	}

	session, err := svc.VerifyCode(ctx, testPhone, sender.codes[0])
	if err != nil {
		t.Fatalf("verify code: %v", err)
	}
	if session.Phone != testPhone || session.AccessToken == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	// The challenge is single-use.
	_, err = svc.VerifyCode(ctx, testPhone, sender.codes[0])
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized on reuse, got %v", err)
	}
}

func TestVerifyCodeMismatch(t *testing.T) {
	t.Parallel()

	svc, sender, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, testPhone, ""); err != nil {
		t.Fatalf("request code: %v", err)
	}

	_, err := svc.VerifyCode(ctx, testPhone, "000000")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized on mismatch, got %v", err)
	}

	// The right code still works after a single miss.
	if _, err := svc.VerifyCode(ctx, testPhone, sender.codes[0]); err != nil {
		t.Fatalf("verify after one miss: %v", err)
	}
}

func TestVerifyCodeAttemptCap(t *testing.T) {
	t.Parallel()

	svc, sender, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.RequestCode(ctx, testPhone, ""); err != nil {
		t.Fatalf("request code: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.VerifyCode(ctx, testPhone, "000000"); err == nil {
			t.Fatal("expected mismatch error")
		}
	}

	// Attempts are exhausted, even the right code is refused now.
	_, err := svc.VerifyCode(ctx, testPhone, sender.codes[0])
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after attempt cap, got %v", err)
	}
}

func TestVerifyCodeWithoutChallenge(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	_, err := svc.VerifyCode(context.Background(), testPhone, "123456")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized without challenge, got %v", err)
	}
}

func TestRequestCodeRateLimited(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.RequestCode(ctx, testPhone, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	err := svc.RequestCode(ctx, testPhone, "10.0.0.1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestRequestCodeValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, phone := range []string{"", "12345", "98765432101", "98765abcde"} {
		err := svc.RequestCode(ctx, phone, "")
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %q, got %v", phone, err)
		}
	}
}

type captureSender struct {
	codes []string
}

func (c *captureSender) SendCode(ctx context.Context, phone, code string) error {
	c.codes = append(c.codes, code)
	return nil
}

type stubStore struct {
	data     map[string]string
	counters map[string]int64
}

func newStubStore() *stubStore {
	return &stubStore{data: map[string]string{}, counters: map[string]int64{}}
}

func (s *stubStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = value.(string)
	return nil
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", errMissing
	}
	return v, nil
}

func (s *stubStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubStore) UpdateString(ctx context.Context, key string, fn func(current string, exists bool) (string, bool, error)) error {
	current, exists := s.data[key]
	next, del, err := fn(current, exists)
	if err != nil {
		return err
	}
	if del {
		delete(s.data, key)
		return nil
	}
	s.data[key] = next
	return nil
}

func (s *stubStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	s.counters[scope]++
	count := s.counters[scope]
	return count <= limit, count, nil
}

func (s *stubStore) OTPKey(phone string) string {
	return "vm:otp:" + phone
}

var errMissing = pkgerrors.New(pkgerrors.CodeNotFound, "missing key")
