package inventory

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Shortage describes one item that could not be reserved in full
type Shortage struct {
	Item      ItemRef
	Requested decimal.Decimal
	Available decimal.Decimal
}

// InsufficientStockError reports every item in a reservation request that
// lacked availability. The whole request fails as a unit, so the caller sees
// all shortages at once instead of fixing them one by one.
type InsufficientStockError struct {
	Shortages []Shortage
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortages))
	for idx, s := range e.Shortages {
		parts[idx] = fmt.Sprintf("%s: requested %s, available %s", s.Item.Key(), s.Requested, s.Available)
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}
