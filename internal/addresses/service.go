package addresses

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
	"github.com/vivimart/storefront-backend/pkg/redis"
)

const maxEntries = 100

// Store is the key-value surface the address book needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	UpdateString(ctx context.Context, key string, fn func(current string, exists bool) (next string, del bool, err error)) error
	Del(ctx context.Context, keys ...string) error
	AddressesKey(phone string) string
}

// Service owns the per-customer address book. Indexes are positions in the
// stored array, deleting an entry shifts everything after it down by one.
type Service interface {
	List(ctx context.Context, phone string) ([]Entry, error)
	Add(ctx context.Context, phone string, entry Entry) ([]Entry, error)
	Update(ctx context.Context, phone string, index int, entry Entry) ([]Entry, error)
	Delete(ctx context.Context, phone string, index int) ([]Entry, error)
	Clear(ctx context.Context, phone string) error
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, errors.New("address store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{store: store, logg: logg}, nil
}

func (s *service) List(ctx context.Context, phone string) ([]Entry, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	blob, err := s.store.Get(ctx, s.store.AddressesKey(phone))
	if err != nil {
		if redis.IsNil(err) {
			return []Entry{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read addresses")
	}
	entries, err := decodeEntries(blob)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt address book")
	}
	return entries, nil
}

func (s *service) Add(ctx context.Context, phone string, entry Entry) ([]Entry, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if err := validateEntry(entry); err != nil {
		return nil, err
	}
	entry.Display = composeDisplay(entry)

	return s.mutate(ctx, phone, func(entries []Entry) ([]Entry, error) {
		if len(entries) >= maxEntries {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "address book is full")
		}
		return append(entries, entry), nil
	})
}

func (s *service) Update(ctx context.Context, phone string, index int, entry Entry) ([]Entry, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if err := validateEntry(entry); err != nil {
		return nil, err
	}
	entry.Display = composeDisplay(entry)

	return s.mutate(ctx, phone, func(entries []Entry) ([]Entry, error) {
		if index < 0 || index >= len(entries) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		entries[index] = entry
		return entries, nil
	})
}

func (s *service) Delete(ctx context.Context, phone string, index int) ([]Entry, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	return s.mutate(ctx, phone, func(entries []Entry) ([]Entry, error) {
		if index < 0 || index >= len(entries) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return append(entries[:index], entries[index+1:]...), nil
	})
}

func (s *service) Clear(ctx context.Context, phone string) error {
	if err := validatePhone(phone); err != nil {
		return err
	}
	if err := s.store.Del(ctx, s.store.AddressesKey(phone)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear addresses")
	}
	return nil
}

func (s *service) mutate(ctx context.Context, phone string, fn func(entries []Entry) ([]Entry, error)) ([]Entry, error) {
	var result []Entry
	key := s.store.AddressesKey(phone)
	err := s.store.UpdateString(ctx, key, func(current string, exists bool) (string, bool, error) {
		entries, err := decodeEntries(current)
		if err != nil {
			return "", false, err
		}
		next, err := fn(entries)
		if err != nil {
			return "", false, err
		}
		result = next
		if len(next) == 0 {
			return "", true, nil
		}
		blob, err := encodeEntries(next)
		if err != nil {
			return "", false, err
		}
		return blob, false, nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update addresses")
	}
	return result, nil
}

func validatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	return nil
}

func validateEntry(entry Entry) error {
	if strings.TrimSpace(entry.House) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "house or flat detail is required")
	}
	if strings.TrimSpace(entry.Area) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "area is required")
	}
	if strings.TrimSpace(entry.RecipientName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient name is required")
	}
	if strings.TrimSpace(entry.Phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient phone is required")
	}
	return nil
}
