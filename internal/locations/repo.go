package locations

import (
	"context"

	"gorm.io/gorm"

	"github.com/vivimart/storefront-backend/pkg/db/models"
)

// Repository reads the serviceable locations table.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByPostalCode(ctx context.Context, pincode string) (*models.Location, error) {
	var row models.Location
	if err := r.db.WithContext(ctx).First(&row, "postal_code = ?", pincode).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
