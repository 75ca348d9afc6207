package catalog

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vivimart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/vivimart/storefront-backend/pkg/errors"
	"github.com/vivimart/storefront-backend/pkg/logger"
	"github.com/vivimart/storefront-backend/pkg/pagination"
)

// Reader is the repository surface the catalog service consumes.
type Reader interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubCategories(ctx context.Context) ([]models.SubCategory, error)
	ListSubSubCategoriesByParentName(ctx context.Context, subCategory string) ([]models.SubSubCategory, error)
	ListBanners(ctx context.Context) ([]models.Banner, error)
	ListProducts(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	ListProductsBySubSubCategory(ctx context.Context, name string) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

// ProductPage is one page of the product listing plus the resume cursor.
type ProductPage struct {
	Products   []models.Product
	NextCursor string
}

type Service interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListSubCategories(ctx context.Context) ([]models.SubCategory, error)
	ListSubSubCategories(ctx context.Context, subCategory string) ([]models.SubSubCategory, error)
	ListBanners(ctx context.Context) ([]models.Banner, error)
	ListProducts(ctx context.Context, params pagination.Params) (*ProductPage, error)
	ListProductsBySubSubCategory(ctx context.Context, name string) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type service struct {
	repo Reader
	logg *logger.Logger
}

func NewService(repo Reader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("catalog repository is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) ListSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	rows, err := s.repo.ListSubCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sub-categories")
	}
	return rows, nil
}

func (s *service) ListSubSubCategories(ctx context.Context, subCategory string) ([]models.SubSubCategory, error) {
	if strings.TrimSpace(subCategory) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sub-category name is required")
	}
	rows, err := s.repo.ListSubSubCategoriesByParentName(ctx, subCategory)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sub-sub-categories")
	}
	return rows, nil
}

func (s *service) ListBanners(ctx context.Context) ([]models.Banner, error) {
	rows, err := s.repo.ListBanners(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return rows, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params) (*ProductPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListProducts(ctx, cursor, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	page := &ProductPage{Products: rows}
	if len(rows) > limit {
		page.Products = rows[:limit]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{ID: rows[limit-1].ID})
	}
	return page, nil
}

func (s *service) ListProductsBySubSubCategory(ctx context.Context, name string) ([]models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sub-sub-category name is required")
	}
	rows, err := s.repo.ListProductsBySubSubCategory(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by sub-sub-category")
	}
	return rows, nil
}

func (s *service) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	row, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get product")
	}
	return row, nil
}
