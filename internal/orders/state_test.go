package orders

import (
	"testing"

	"github.com/vivimart/storefront-backend/pkg/enums"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	allowed := [][2]enums.OrderStatus{
		{enums.OrderStatusPaymentPending, enums.OrderStatusPlaced},
		{enums.OrderStatusPaymentPending, enums.OrderStatusExpired},
	}
	for _, pair := range allowed {
		if !CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s allowed", pair[0], pair[1])
		}
	}

	denied := [][2]enums.OrderStatus{
		{enums.OrderStatusPlaced, enums.OrderStatusExpired},
		{enums.OrderStatusExpired, enums.OrderStatusPlaced},
		{enums.OrderStatusPlaced, enums.OrderStatusPaymentPending},
	}
	for _, pair := range denied {
		if CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s denied", pair[0], pair[1])
		}
	}
}

func TestInitialStatus(t *testing.T) {
	t.Parallel()

	if got := initialStatus(enums.PaymentMethodCOD); got != enums.OrderStatusPlaced {
		t.Fatalf("expected COD orders born placed, got %s", got)
	}
	if got := initialStatus(enums.PaymentMethodOnline); got != enums.OrderStatusPaymentPending {
		t.Fatalf("expected online orders born payment_pending, got %s", got)
	}
}
