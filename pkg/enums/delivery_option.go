package enums

import "fmt"

// DeliveryOption partitions cart lines into independently orderable groups.
type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "Standard Delivery"
	DeliveryFast     DeliveryOption = "Fast Delivery"
)

var validDeliveryOptions = []DeliveryOption{
	DeliveryStandard,
	DeliveryFast,
}

// String implements fmt.Stringer.
func (d DeliveryOption) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryOption.
func (d DeliveryOption) IsValid() bool {
	for _, candidate := range validDeliveryOptions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryOption converts raw input into a DeliveryOption.
func ParseDeliveryOption(value string) (DeliveryOption, error) {
	for _, candidate := range validDeliveryOptions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery option %q", value)
}

// DeliveryOptions returns the recognized options in stable order.
func DeliveryOptions() []DeliveryOption {
	out := make([]DeliveryOption, len(validDeliveryOptions))
	copy(out, validDeliveryOptions)
	return out
}
