package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/pkg/enums"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
	"github.com/vivimart/storefront-backend/pkg/redis"
)

// Store is the key-value surface the cart needs. UpdateString must apply the
// callback atomically with respect to concurrent writers on the same key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	UpdateString(ctx context.Context, key string, fn func(current string, exists bool) (next string, del bool, err error)) error
	Del(ctx context.Context, keys ...string) error
	CartKey(phone string) string
}

// Service is the single writer for per-customer carts.
type Service interface {
	AddOrUpdate(ctx context.Context, phone string, line Line) ([]Line, error)
	SetQuantity(ctx context.Context, phone string, productID int64, quantity int) ([]Line, error)
	Remove(ctx context.Context, phone string, productID int64) ([]Line, error)
	GetAll(ctx context.Context, phone string) ([]Line, error)
	GetByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) ([]Line, error)
	ClearByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) error
	ClearAll(ctx context.Context, phone string) error
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, errors.New("cart store is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{store: store, logg: logg}, nil
}

func (s *service) AddOrUpdate(ctx context.Context, phone string, line Line) ([]Line, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if line.ProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if !line.DeliveryOption.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized delivery option")
	}
	if line.UnitPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if line.Quantity < 0 {
		line.Quantity = 0
	}
	if line.Weight.LessThanOrEqual(decimal.Zero) {
		line.Weight = decimal.NewFromInt(1)
	}

	return s.mutate(ctx, phone, func(lines []Line) []Line {
		if line.Quantity == 0 {
			return removeLine(lines, line.ProductID)
		}
		for i := range lines {
			if lines[i].ProductID == line.ProductID {
				lines[i] = line
				return lines
			}
		}
		return append(lines, line)
	})
}

func (s *service) SetQuantity(ctx context.Context, phone string, productID int64, quantity int) ([]Line, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 0 {
		quantity = 0
	}

	return s.mutate(ctx, phone, func(lines []Line) []Line {
		if quantity == 0 {
			return removeLine(lines, productID)
		}
		for i := range lines {
			if lines[i].ProductID == productID {
				lines[i].Quantity = quantity
				break
			}
		}
		return lines
	})
}

func (s *service) Remove(ctx context.Context, phone string, productID int64) ([]Line, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	return s.mutate(ctx, phone, func(lines []Line) []Line {
		return removeLine(lines, productID)
	})
}

func (s *service) GetAll(ctx context.Context, phone string) ([]Line, error) {
	if err := validatePhone(phone); err != nil {
		return nil, err
	}
	blob, err := s.store.Get(ctx, s.store.CartKey(phone))
	if err != nil {
		if redis.IsNil(err) {
			return []Line{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
	}
	lines, err := decodeLines(blob)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt cart blob")
	}
	return lines, nil
}

func (s *service) GetByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) ([]Line, error) {
	if !opt.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized delivery option")
	}
	lines, err := s.GetAll(ctx, phone)
	if err != nil {
		return nil, err
	}
	filtered := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.DeliveryOption == opt {
			filtered = append(filtered, line)
		}
	}
	return filtered, nil
}

func (s *service) ClearByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) error {
	if err := validatePhone(phone); err != nil {
		return err
	}
	if !opt.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unrecognized delivery option")
	}
	_, err := s.mutate(ctx, phone, func(lines []Line) []Line {
		kept := make([]Line, 0, len(lines))
		for _, line := range lines {
			if line.DeliveryOption != opt {
				kept = append(kept, line)
			}
		}
		return kept
	})
	return err
}

func (s *service) ClearAll(ctx context.Context, phone string) error {
	if err := validatePhone(phone); err != nil {
		return err
	}
	if err := s.store.Del(ctx, s.store.CartKey(phone)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// mutate rewrites the cart blob through the store's optimistic update loop so
// concurrent mutations never clobber each other's lines.
func (s *service) mutate(ctx context.Context, phone string, fn func(lines []Line) []Line) ([]Line, error) {
	var result []Line
	key := s.store.CartKey(phone)
	err := s.store.UpdateString(ctx, key, func(current string, exists bool) (string, bool, error) {
		lines, err := decodeLines(current)
		if err != nil {
			return "", false, err
		}
		next := fn(lines)
		result = next
		if len(next) == 0 {
			return "", true, nil
		}
		blob, err := encodeLines(next)
		if err != nil {
			return "", false, err
		}
		return blob, false, nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart")
	}
	return result, nil
}

func removeLine(lines []Line, productID int64) []Line {
	kept := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	return kept
}

func validatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	return nil
}
