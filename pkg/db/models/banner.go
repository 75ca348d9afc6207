package models

import "time"

// Banner is a promotional carousel entry on the storefront home page.
type Banner struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;not null;default:''"`
	ImageURL  string    `gorm:"column:image_url;not null"`
	TargetURL *string   `gorm:"column:target_url"`
	Position  int       `gorm:"column:position;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
