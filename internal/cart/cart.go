package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vivimart/storefront-backend/pkg/enums"
)

// Line is one product entry in a customer's cart. A cart holds at most one
// line per product; quantity is always positive for retained lines.
type Line struct {
	ProductID      int64                `json:"productId"`
	ProductName    string               `json:"productName"`
	ImageURL       string               `json:"imageUrl"`
	Quantity       int                  `json:"quantity"`
	UnitPrice      decimal.Decimal      `json:"unitPrice"`
	Weight         decimal.Decimal      `json:"weight"`
	DeliveryOption enums.DeliveryOption `json:"deliveryOption"`
}

// Subtotal computes the sum of quantity times unit price across lines,
// rounded to two decimal places.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}

func encodeLines(lines []Line) (string, error) {
	blob, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(blob), nil
}

func decodeLines(blob string) ([]Line, error) {
	if blob == "" {
		return []Line{}, nil
	}
	var lines []Line
	if err := json.Unmarshal([]byte(blob), &lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return lines, nil
}
