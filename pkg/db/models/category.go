package models

import "time"

// Category is a top-level catalog grouping shown on the storefront home page.
type Category struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	ImageURL  string    `gorm:"column:image_url;not null;default:''"`
	Position  int       `gorm:"column:position;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SubCategory sits under a Category.
type SubCategory struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID int64     `gorm:"column:category_id;not null;index"`
	Name       string    `gorm:"column:name;not null"`
	ImageURL   string    `gorm:"column:image_url;not null;default:''"`
	Position   int       `gorm:"column:position;not null;default:0"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SubSubCategory is the leaf grouping products are listed under.
type SubSubCategory struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SubCategoryID int64     `gorm:"column:sub_category_id;not null;index"`
	Name          string    `gorm:"column:name;not null"`
	ImageURL      string    `gorm:"column:image_url;not null;default:''"`
	Position      int       `gorm:"column:position;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
