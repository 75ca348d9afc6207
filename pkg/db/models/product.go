package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/pkg/enums"
)

// Product is the canonical storefront listing.
type Product struct {
	ID               int64                `gorm:"column:id;primaryKey;autoIncrement"`
	Name             string               `gorm:"column:name;not null"`
	Description      *string              `gorm:"column:description"`
	SubSubCategoryID int64                `gorm:"column:sub_sub_category_id;not null;index"`
	SubSubCategory   *SubSubCategory      `gorm:"foreignKey:SubSubCategoryID"`
	SellPrice        decimal.Decimal      `gorm:"column:sell_price;type:numeric(10,2);not null"`
	MRP              decimal.Decimal      `gorm:"column:mrp;type:numeric(10,2);not null"`
	Weight           decimal.Decimal      `gorm:"column:weight;type:numeric(10,3);not null;default:1"`
	Unit             string               `gorm:"column:unit;not null;default:''"`
	DeliveryOption   enums.DeliveryOption `gorm:"column:delivery_option;type:delivery_option;not null"`
	ImageURLs        pq.StringArray       `gorm:"column:image_urls;type:text[];not null;default:ARRAY[]::text[]"`
	LocationID       *int64               `gorm:"column:location_id;index"`
	IsActive         bool                 `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
