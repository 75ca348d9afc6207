package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/vivimart/storefront-backend/internal/cart"
	"github.com/vivimart/storefront-backend/internal/locations"
	"github.com/vivimart/storefront-backend/pkg/db/models"
	"github.com/vivimart/storefront-backend/pkg/enums"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
	"github.com/vivimart/storefront-backend/pkg/outbox"
	"github.com/vivimart/storefront-backend/pkg/outbox/payloads"
	"github.com/vivimart/storefront-backend/pkg/razorpay"
)

const enrichConcurrency = 4

// PlaceInput is what the customer submits at checkout.
type PlaceInput struct {
	RecipientName  string
	Address        string
	DeliveryNotes  *string
	DeliveryOption enums.DeliveryOption
	PaymentMethod  enums.PaymentMethod
}

// ConfirmPaymentInput carries the gateway callback fields.
type ConfirmPaymentInput struct {
	OrderID   uuid.UUID
	PaymentID string
	Signature string
}

// Receipt is the placement outcome. GatewayOrderID is set only for online
// payments, where the client hands it to the hosted checkout.
type Receipt struct {
	Order          *models.Order
	GatewayOrderID string
}

// EnrichedItem pairs an order item snapshot with the product's current
// catalog row, when it still exists.
type EnrichedItem struct {
	Item    models.OrderItem
	Product *models.Product
}

// CartReader is the slice of the cart service checkout needs.
type CartReader interface {
	GetByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) ([]cart.Line, error)
	ClearByDeliveryOption(ctx context.Context, phone string, opt enums.DeliveryOption) error
}

// ContextReader resolves the customer's delivery location context.
type ContextReader interface {
	GetContext(ctx context.Context, phone string) (*locations.LocationContext, error)
}

// Gateway is the payment gateway surface.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*razorpay.GatewayOrder, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool
}

// Emitter appends domain events to the transactional outbox.
type Emitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// TxRunner runs a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Repo is the repository surface the service consumes.
type Repo interface {
	CreateTx(tx *gorm.DB, order *models.Order) error
	GetForCustomer(ctx context.Context, id uuid.UUID, phone string) (*models.Order, error)
	ListByCustomer(ctx context.Context, phone string) ([]models.Order, error)
	MarkPaidTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	MarkExpiredTx(tx *gorm.DB, id uuid.UUID) (bool, error)
	ListStalePaymentPending(ctx context.Context, before time.Time, limit int) ([]models.Order, error)
}

// ProductReader looks up catalog rows for item enrichment.
type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type Service interface {
	Place(ctx context.Context, phone string, input PlaceInput) (*Receipt, error)
	ConfirmPayment(ctx context.Context, phone string, input ConfirmPaymentInput) (*models.Order, error)
	ListByCustomer(ctx context.Context, phone string) ([]models.Order, error)
	EnrichItems(ctx context.Context, items []models.OrderItem) ([]EnrichedItem, error)
	ExpireStalePaymentPending(ctx context.Context, olderThan time.Duration, batchSize int) (int, error)
}

type service struct {
	repo     Repo
	txRunner TxRunner
	carts    CartReader
	contexts ContextReader
	gateway  Gateway
	emitter  Emitter
	products ProductReader
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires order placement. The gateway may be nil, which disables
// online payment but keeps COD working.
func NewService(repo Repo, txRunner TxRunner, carts CartReader, contexts ContextReader, gateway Gateway, emitter Emitter, products ProductReader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("orders repository is required")
	}
	if txRunner == nil {
		return nil, errors.New("transaction runner is required")
	}
	if carts == nil {
		return nil, errors.New("cart reader is required")
	}
	if contexts == nil {
		return nil, errors.New("location context reader is required")
	}
	if emitter == nil {
		return nil, errors.New("outbox emitter is required")
	}
	if products == nil {
		return nil, errors.New("product reader is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{
		repo:     repo,
		txRunner: txRunner,
		carts:    carts,
		contexts: contexts,
		gateway:  gateway,
		emitter:  emitter,
		products: products,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Place(ctx context.Context, phone string, input PlaceInput) (*Receipt, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if strings.TrimSpace(input.RecipientName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if !input.DeliveryOption.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized delivery option")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unrecognized payment method")
	}

	loc, err := s.contexts.GetContext(ctx, phone)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery location is not set")
		}
		return nil, err
	}

	lines, err := s.carts.GetByDeliveryOption(ctx, phone, input.DeliveryOption)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty for this delivery option")
	}

	now := s.now()
	order := &models.Order{
		ID:             uuid.New(),
		CustomerPhone:  phone,
		RecipientName:  strings.TrimSpace(input.RecipientName),
		Address:        strings.TrimSpace(input.Address),
		LocationID:     loc.LocationID,
		DeliveryOption: input.DeliveryOption,
		DeliveryNotes:  input.DeliveryNotes,
		PaymentMethod:  input.PaymentMethod,
		PaymentStatus:  enums.PaymentStatusPending,
		Status:         initialStatus(input.PaymentMethod),
		Total:          cart.Subtotal(lines),
	}
	for _, line := range lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ImageURL:    line.ImageURL,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Weight:      line.Weight,
		})
	}

	receipt := &Receipt{Order: order}
	if input.PaymentMethod == enums.PaymentMethodOnline {
		if s.gateway == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "online payment is not configured")
		}
		gatewayOrder, err := s.gateway.CreateOrder(ctx, order.Total, order.ID.String())
		if err != nil {
			return nil, err
		}
		order.GatewayOrderID = &gatewayOrder.ID
		receipt.GatewayOrderID = gatewayOrder.ID
	}

	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, order); err != nil {
			return err
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Phone:         phone,
			Data: payloads.OrderCreatedEvent{
				OrderID:        order.ID,
				CustomerPhone:  phone,
				DeliveryOption: order.DeliveryOption,
				PaymentMethod:  order.PaymentMethod,
				Total:          order.Total,
				ItemCount:      len(order.Items),
				CreatedAt:      now,
			},
			OccurredAt: now,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	// Only a placed order prunes its cart subset. A pending online order
	// keeps the cart intact until the payment confirms.
	if order.Status == enums.OrderStatusPlaced {
		s.clearCartSubset(ctx, phone, order.DeliveryOption)
	}

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "order placed")
	return receipt, nil
}

func (s *service) ConfirmPayment(ctx context.Context, phone string, input ConfirmPaymentInput) (*models.Order, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if strings.TrimSpace(input.PaymentID) == "" || strings.TrimSpace(input.Signature) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id and signature are required")
	}
	if s.gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "online payment is not configured")
	}

	order, err := s.repo.GetForCustomer(ctx, input.OrderID, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.PaymentMethod != enums.PaymentMethodOnline || order.GatewayOrderID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order does not await an online payment")
	}
	if order.Status != enums.OrderStatusPaymentPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	// A failed verification leaves the order payment_pending and the cart
	// untouched, the client may retry.
	if !s.gateway.VerifyPaymentSignature(*order.GatewayOrderID, input.PaymentID, input.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "payment signature mismatch")
	}

	now := s.now()
	err = s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
		updated, err := s.repo.MarkPaidTx(tx, order.ID)
		if err != nil {
			return err
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
		}
		return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPaid,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Phone:         phone,
			Data: payloads.OrderPaidEvent{
				OrderID:          order.ID,
				CustomerPhone:    phone,
				GatewayOrderID:   *order.GatewayOrderID,
				GatewayPaymentID: input.PaymentID,
				Total:            order.Total,
				PaidAt:           now,
			},
			OccurredAt: now,
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm payment")
	}

	order.Status = enums.OrderStatusPlaced
	order.PaymentStatus = enums.PaymentStatusPaid
	s.clearCartSubset(ctx, phone, order.DeliveryOption)

	s.logg.Info(s.logg.WithOrderID(ctx, order.ID.String()), "payment confirmed")
	return order, nil
}

func (s *service) ListByCustomer(ctx context.Context, phone string) ([]models.Order, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone is required")
	}
	rows, err := s.repo.ListByCustomer(ctx, phone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}

// EnrichItems fans out catalog lookups for each item. Lookups that fail or
// hit deleted products are skipped rather than failing the whole read.
func (s *service) EnrichItems(ctx context.Context, items []models.OrderItem) ([]EnrichedItem, error) {
	enriched := make([]EnrichedItem, len(items))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(enrichConcurrency)

	for i, item := range items {
		group.Go(func() error {
			product, err := s.products.GetProduct(groupCtx, item.ProductID)
			if err != nil {
				s.logg.Warn(s.logg.WithField(groupCtx, "product_id", item.ProductID), "enrich lookup failed")
				product = nil
			}
			enriched[i] = EnrichedItem{Item: item, Product: product}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enrich items")
	}
	return enriched, nil
}

// ExpireStalePaymentPending expires orders stuck in payment_pending longer
// than the TTL and emits an expiry event per order. The cart stays intact,
// only placed orders ever prune it.
func (s *service) ExpireStalePaymentPending(ctx context.Context, olderThan time.Duration, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	cutoff := s.now().Add(-olderThan)
	stale, err := s.repo.ListStalePaymentPending(ctx, cutoff, batchSize)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stale orders")
	}

	expired := 0
	for _, order := range stale {
		now := s.now()
		err := s.txRunner.WithTx(ctx, func(tx *gorm.DB) error {
			updated, err := s.repo.MarkExpiredTx(tx, order.ID)
			if err != nil {
				return err
			}
			if !updated {
				// Paid between the list and the update, leave it be.
				return nil
			}
			expired++
			return s.emitter.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderExpired,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Phone:         order.CustomerPhone,
				Data: payloads.OrderExpiredEvent{
					OrderID:       order.ID,
					CustomerPhone: order.CustomerPhone,
					PendingSince:  order.CreatedAt,
					ExpiredAt:     now,
				},
				OccurredAt: now,
			})
		})
		if err != nil {
			return expired, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire order")
		}
	}
	return expired, nil
}

func (s *service) clearCartSubset(ctx context.Context, phone string, opt enums.DeliveryOption) {
	if err := s.carts.ClearByDeliveryOption(ctx, phone, opt); err != nil {
		// The order is already committed, a stale cart is recoverable.
		s.logg.Warn(s.logg.WithPhone(ctx, phone), "clear cart subset failed after placement")
	}
}
