package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/pkg/enums"
)

// OrderCreatedEvent is emitted when an order row is first persisted, for both
// COD and online payment flows.
type OrderCreatedEvent struct {
	OrderID        uuid.UUID            `json:"orderId"`
	CustomerPhone  string               `json:"customerPhone"`
	DeliveryOption enums.DeliveryOption `json:"deliveryOption"`
	PaymentMethod  enums.PaymentMethod  `json:"paymentMethod"`
	Total          decimal.Decimal      `json:"total"`
	ItemCount      int                  `json:"itemCount"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// OrderPaidEvent is emitted when a gateway payment signature verifies.
type OrderPaidEvent struct {
	OrderID          uuid.UUID       `json:"orderId"`
	CustomerPhone    string          `json:"customerPhone"`
	GatewayOrderID   string          `json:"gatewayOrderId"`
	GatewayPaymentID string          `json:"gatewayPaymentId"`
	Total            decimal.Decimal `json:"total"`
	PaidAt           time.Time       `json:"paidAt"`
}

// OrderExpiredEvent is emitted when the payment TTL job expires a stale
// payment_pending order.
type OrderExpiredEvent struct {
	OrderID       uuid.UUID `json:"orderId"`
	CustomerPhone string    `json:"customerPhone"`
	PendingSince  time.Time `json:"pendingSince"`
	ExpiredAt     time.Time `json:"expiredAt"`
}
