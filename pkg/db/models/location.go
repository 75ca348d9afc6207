package models

import "time"

// Location is a serviceable delivery area keyed by postal code.
type Location struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	PostalCode string    `gorm:"column:postal_code;not null;uniqueIndex"`
	City       string    `gorm:"column:city;not null"`
	StoreID    int64     `gorm:"column:store_id;not null"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
