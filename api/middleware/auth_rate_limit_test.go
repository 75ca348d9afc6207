package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeCounterStore struct {
	counts map[string]int64
}

func (f *fakeCounterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRateLimitBlocksIPAfterLimit(t *testing.T) {
	t.Parallel()

	store := &fakeCounterStore{}
	policy := NewAuthRateLimitPolicy("otp", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, nil)(okHandler(t))

	for i := 0; i < 2; i++ {
		r := httptest.NewRequest(http.MethodPost, "/auth/otp/request", strings.NewReader(`{"phone":"9876543210"}`))
		r.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, w.Code)
		}
	}

	r := httptest.NewRequest(http.MethodPost, "/auth/otp/request", strings.NewReader(`{"phone":"9876543210"}`))
	r.RemoteAddr = "10.0.0.1:5555"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", w.Code)
	}
}

func TestAuthRateLimitBlocksPhoneAcrossIPs(t *testing.T) {
	t.Parallel()

	store := &fakeCounterStore{}
	policy := NewAuthRateLimitPolicy("otp", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, store, nil)(okHandler(t))

	first := httptest.NewRequest(http.MethodPost, "/auth/otp/request", strings.NewReader(`{"phone":"9876543210"}`))
	first.RemoteAddr = "10.0.0.1:5555"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}

	second := httptest.NewRequest(http.MethodPost, "/auth/otp/request", strings.NewReader(`{"phone":"9876543210"}`))
	second.RemoteAddr = "10.0.0.2:5555"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, second)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same phone from other IP, got %d", w.Code)
	}
}

func TestAuthRateLimitPreservesRequestBody(t *testing.T) {
	t.Parallel()

	store := &fakeCounterStore{}
	policy := NewAuthRateLimitPolicy("otp", time.Minute, 0, 5)

	var seenBody string
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		seenBody = string(buf[:n])
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "/auth/otp/request", strings.NewReader(`{"phone":"9876543210"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	if !strings.Contains(seenBody, "9876543210") {
		t.Fatalf("expected downstream handler to see the original body, got %q", seenBody)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	t.Parallel()

	policy := NewAuthRateLimitPolicy("otp", 0, 0, 0)
	handler := AuthRateLimit(policy, &fakeCounterStore{}, nil)(okHandler(t))

	for i := 0; i < 10; i++ {
		r := httptest.NewRequest(http.MethodPost, "/auth/otp/request", strings.NewReader(`{"phone":"9876543210"}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", w.Code)
		}
	}
}
