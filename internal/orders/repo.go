package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vivimart/storefront-backend/pkg/db/models"
	"github.com/vivimart/storefront-backend/pkg/enums"
)

// Repository owns reads and writes on the orders tables.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTx(tx *gorm.DB, order *models.Order) error {
	return tx.Create(order).Error
}

func (r *Repository) GetForCustomer(ctx context.Context, id uuid.UUID, phone string) (*models.Order, error) {
	var row models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ? AND customer_phone = ?", id, phone).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListByCustomer(ctx context.Context, phone string) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// MarkPaidTx flips a payment_pending order to placed and paid. The status
// guard in the WHERE clause makes the confirmation idempotent under races.
func (r *Repository) MarkPaidTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPaymentPending).
		Updates(map[string]any{
			"status":         enums.OrderStatusPlaced,
			"payment_status": enums.PaymentStatusPaid,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// MarkExpiredTx expires a stale payment_pending order.
func (r *Repository) MarkExpiredTx(tx *gorm.DB, id uuid.UUID) (bool, error) {
	result := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, enums.OrderStatusPaymentPending).
		Updates(map[string]any{
			"status":         enums.OrderStatusExpired,
			"payment_status": enums.PaymentStatusExpired,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListStalePaymentPending returns payment_pending orders created before the
// cutoff, oldest first.
func (r *Repository) ListStalePaymentPending(ctx context.Context, before time.Time, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.OrderStatusPaymentPending, before).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
