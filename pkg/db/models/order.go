package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/pkg/enums"
)

// Order is a placed storefront order. Online orders start in payment_pending
// and move to placed only after the gateway signature is verified.
type Order struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerPhone  string               `gorm:"column:customer_phone;not null;index"`
	RecipientName  string               `gorm:"column:recipient_name;not null"`
	Address        string               `gorm:"column:address;not null"`
	LocationID     int64                `gorm:"column:location_id;not null"`
	DeliveryOption enums.DeliveryOption `gorm:"column:delivery_option;type:delivery_option;not null"`
	DeliveryNotes  *string              `gorm:"column:delivery_notes"`
	PaymentMethod  enums.PaymentMethod  `gorm:"column:payment_method;type:payment_method;not null"`
	PaymentStatus  enums.PaymentStatus  `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	Status         enums.OrderStatus    `gorm:"column:status;type:order_status;not null"`
	GatewayOrderID *string              `gorm:"column:gateway_order_id;uniqueIndex"`
	Total          decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	Items          []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures the snapshot of a cart line at placement time.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   int64           `gorm:"column:product_id;not null"`
	ProductName string          `gorm:"column:product_name;not null"`
	ImageURL    string          `gorm:"column:image_url;not null;default:''"`
	Quantity    int             `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Weight      decimal.Decimal `gorm:"column:weight;type:numeric(10,3);not null;default:1"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}
