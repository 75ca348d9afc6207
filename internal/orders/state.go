package orders

import "github.com/vivimart/storefront-backend/pkg/enums"

// Orders have a small lifecycle. COD orders are born placed; online orders
// are born payment_pending and either get paid or expire.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPaymentPending: {
		enums.OrderStatusPlaced,
		enums.OrderStatusExpired,
	},
}

// CanTransition reports whether an order may move between the two statuses.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// initialStatus is where a fresh order starts, based on how it pays.
func initialStatus(method enums.PaymentMethod) enums.OrderStatus {
	if method == enums.PaymentMethodOnline {
		return enums.OrderStatusPaymentPending
	}
	return enums.OrderStatusPlaced
}
