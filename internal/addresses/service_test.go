package addresses

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
)

const testPhone = "9876543210"

func newTestService(t *testing.T) (Service, *stubStore) {
	t.Helper()
	store := &stubStore{data: map[string]string{}}
	svc, err := NewService(store, logger.New(logger.Options{ServiceName: "addresses-test"}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func entry(house, area string) Entry {
	return Entry{
		House:         house,
		Area:          area,
		RecipientName: "Ravi",
		Phone:         testPhone,
	}
}

func TestAddAppendsAndComposesDisplay(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	e := entry("Flat 4B", "MVP Colony")
	e.Landmark = "opposite park"
	entries, err := svc.Add(ctx, testPhone, e)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].Display != "Flat 4B, MVP Colony, opposite park" {
		t.Fatalf("unexpected display %q", entries[0].Display)
	}

	entries, err = svc.Add(ctx, testPhone, entry("Plot 12", "Seethammadhara"))
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if len(entries) != 2 || entries[1].House != "Plot 12" {
		t.Fatalf("expected append at the end, got %+v", entries)
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, testPhone, entry("Flat 4B", "MVP Colony")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Add(ctx, testPhone, entry("Plot 12", "Seethammadhara")); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := svc.Update(ctx, testPhone, 0, entry("Flat 9C", "MVP Colony"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if entries[0].House != "Flat 9C" || entries[1].House != "Plot 12" {
		t.Fatalf("unexpected entries after update %+v", entries)
	}

	_, err = svc.Update(ctx, testPhone, 5, entry("Flat 1A", "MVP Colony"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for out-of-range index, got %v", err)
	}
}

func TestDeleteReindexes(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, e := range []Entry{
		entry("A", "first"),
		entry("B", "second"),
		entry("C", "third"),
	} {
		if _, err := svc.Add(ctx, testPhone, e); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	entries, err := svc.Delete(ctx, testPhone, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(entries) != 2 || entries[0].House != "A" || entries[1].House != "C" {
		t.Fatalf("expected [A C] after delete, got %+v", entries)
	}

	// The entry behind the deleted one is now addressable at its new index.
	entries, err = svc.Update(ctx, testPhone, 1, entry("C2", "third"))
	if err != nil {
		t.Fatalf("update reindexed entry: %v", err)
	}
	if entries[1].House != "C2" {
		t.Fatalf("expected reindexed update to land on C, got %+v", entries)
	}
}

func TestDeleteLastEntryRemovesKey(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, testPhone, entry("A", "first")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Delete(ctx, testPhone, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, exists := store.data[store.AddressesKey(testPhone)]; exists {
		t.Fatal("expected key deleted when the book empties")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, testPhone, entry("A", "first")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Clear(ctx, testPhone); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, exists := store.data[store.AddressesKey(testPhone)]; exists {
		t.Fatal("expected key deleted on clear")
	}

	entries, err := svc.List(ctx, testPhone)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty book, got %+v", entries)
	}
}

func TestValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, "", entry("A", "first")); err == nil {
		t.Fatal("expected error for blank phone")
	}

	missingHouse := entry("", "first")
	if _, err := svc.Add(ctx, testPhone, missingHouse); err == nil {
		t.Fatal("expected error for blank house")
	}

	missingRecipient := entry("A", "first")
	missingRecipient.RecipientName = " "
	if _, err := svc.Add(ctx, testPhone, missingRecipient); err == nil {
		t.Fatal("expected error for blank recipient")
	}
}

type stubStore struct {
	data map[string]string
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
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

func (s *stubStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubStore) AddressesKey(phone string) string {
	return "vm:addresses:" + phone
}
