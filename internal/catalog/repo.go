package catalog

import (
	"context"

	"gorm.io/gorm"

	"github.com/vivimart/storefront-backend/pkg/db/models"
	"github.com/vivimart/storefront-backend/pkg/pagination"
)

// Repository reads the storefront catalog tables.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("position ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	var rows []models.SubCategory
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("position ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListSubSubCategoriesByParentName resolves the parent by its display name,
// matching the upstream API which keys these lookups by name.
func (r *Repository) ListSubSubCategoriesByParentName(ctx context.Context, subCategory string) ([]models.SubSubCategory, error) {
	var rows []models.SubSubCategory
	err := r.db.WithContext(ctx).
		Joins("JOIN sub_categories ON sub_categories.id = sub_sub_categories.sub_category_id").
		Where("sub_categories.name = ? AND sub_sub_categories.is_active", subCategory).
		Order("sub_sub_categories.position ASC").
		Order("sub_sub_categories.id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListBanners(ctx context.Context) ([]models.Banner, error) {
	var rows []models.Banner
	err := r.db.WithContext(ctx).
		Where("is_active").
		Order("position ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListProducts pages active products by ascending id.
func (r *Repository) ListProducts(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("is_active")
	if cursor != nil {
		query = query.Where("id > ?", cursor.ID)
	}
	var rows []models.Product
	err := query.Order("id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

func (r *Repository) ListProductsBySubSubCategory(ctx context.Context, name string) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN sub_sub_categories ON sub_sub_categories.id = products.sub_sub_category_id").
		Where("sub_sub_categories.name = ? AND products.is_active", name).
		Order("products.id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
