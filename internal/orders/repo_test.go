package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vivimart/storefront-backend/pkg/db/models"
	"github.com/vivimart/storefront-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_phone TEXT NOT NULL,
  recipient_name TEXT NOT NULL,
  address TEXT NOT NULL,
  location_id INTEGER NOT NULL,
  delivery_option TEXT NOT NULL,
  delivery_notes TEXT,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  status TEXT NOT NULL,
  gateway_order_id TEXT,
  total TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  product_name TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  quantity INTEGER NOT NULL,
  unit_price TEXT NOT NULL,
  weight TEXT NOT NULL DEFAULT '1',
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, phone string, status enums.OrderStatus, createdAt time.Time) models.Order {
	t.Helper()

	order := models.Order{
		ID:             uuid.New(),
		CustomerPhone:  phone,
		RecipientName:  "Asha",
		Address:        "Flat 4B, MVP Colony",
		LocationID:     1,
		DeliveryOption: enums.DeliveryStandard,
		PaymentMethod:  enums.PaymentMethodOnline,
		PaymentStatus:  enums.PaymentStatusPending,
		Status:         status,
		Total:          decimal.RequireFromString("810.00"),
		Items: []models.OrderItem{
			{
				ID:          uuid.New(),
				ProductID:   1,
				ProductName: "Rice",
				Quantity:    2,
				UnitPrice:   decimal.RequireFromString("345.00"),
				Weight:      decimal.NewFromInt(1),
			},
		},
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestRepositoryGetForCustomerScopesByPhone(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	order := seedOrder(t, db, "9876543210", enums.OrderStatusPlaced, time.Now())

	got, err := repo.GetForCustomer(context.Background(), order.ID, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	assert.Len(t, got.Items, 1)

	_, err = repo.GetForCustomer(context.Background(), order.ID, "9999999999")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryMarkPaidTxGuardsStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	order := seedOrder(t, db, "9876543210", enums.OrderStatusPaymentPending, time.Now())

	updated, err := repo.MarkPaidTx(db, order.ID)
	require.NoError(t, err)
	assert.True(t, updated)

	// Second confirmation is a no-op because the status guard no longer matches.
	updated, err = repo.MarkPaidTx(db, order.ID)
	require.NoError(t, err)
	assert.False(t, updated)

	got, err := repo.GetForCustomer(context.Background(), order.ID, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPlaced, got.Status)
	assert.Equal(t, enums.PaymentStatusPaid, got.PaymentStatus)
}

func TestRepositoryMarkExpiredTxRejectsPlacedOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	order := seedOrder(t, db, "9876543210", enums.OrderStatusPlaced, time.Now())

	updated, err := repo.MarkExpiredTx(db, order.ID)
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestRepositoryListStalePaymentPending(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	now := time.Now()
	stale := seedOrder(t, db, "9876543210", enums.OrderStatusPaymentPending, now.Add(-48*time.Hour))
	seedOrder(t, db, "9876543210", enums.OrderStatusPaymentPending, now)
	seedOrder(t, db, "9876543210", enums.OrderStatusPlaced, now.Add(-48*time.Hour))

	rows, err := repo.ListStalePaymentPending(context.Background(), now.Add(-24*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, stale.ID, rows[0].ID)
}

func TestRepositoryListByCustomerNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	older := seedOrder(t, db, "9876543210", enums.OrderStatusPlaced, time.Now().Add(-time.Hour))
	newer := seedOrder(t, db, "9876543210", enums.OrderStatusPlaced, time.Now())
	seedOrder(t, db, "1111111111", enums.OrderStatusPlaced, time.Now())

	rows, err := repo.ListByCustomer(context.Background(), "9876543210")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}
