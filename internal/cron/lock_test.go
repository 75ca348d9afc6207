package cron

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type fakeRedisStore struct {
	data map[string]string
}

func (f *fakeRedisStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeRedisStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeRedisStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestRedisLockAcquireRelease(t *testing.T) {
	t.Parallel()

	store := &fakeRedisStore{data: map[string]string{}}
	lock, err := NewRedisLock(store, "vm:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("construct lock: %v", err)
	}
	ctx := context.Background()

	ok, err := lock.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected first acquire to win: ok=%v err=%v", ok, err)
	}

	second, err := NewRedisLock(store, "vm:lock:cron", time.Minute)
	if err != nil {
		t.Fatalf("construct second lock: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || ok {
		t.Fatalf("expected second acquire to lose: ok=%v err=%v", ok, err)
	}

	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	ok, err = second.Acquire(ctx)
	if err != nil || !ok {
		t.Fatalf("expected acquire after release to win: ok=%v err=%v", ok, err)
	}
}

func TestRedisLockReleaseOnlyOwn(t *testing.T) {
	t.Parallel()

	store := &fakeRedisStore{data: map[string]string{}}
	ctx := context.Background()

	holder, _ := NewRedisLock(store, "vm:lock:cron", time.Minute)
	if ok, _ := holder.Acquire(ctx); !ok {
		t.Fatal("expected acquire to win")
	}

	// A lock that never acquired must not free the holder's lock.
	bystander, _ := NewRedisLock(store, "vm:lock:cron", time.Minute)
	if err := bystander.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, exists := store.data["vm:lock:cron"]; !exists {
		t.Fatal("expected holder's lock to survive a bystander release")
	}
}
