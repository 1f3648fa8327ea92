package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// AvailableQuantity derives the sellable quantity of an item at the given
// instant: on-hand stock minus every reservation that still holds stock.
// Expired or confirmed reservations do not count. The result is floored at
// zero so oversold items never report a negative availability.
func AvailableQuantity(onHand decimal.Decimal, reservations []Reservation, now time.Time) decimal.Decimal {
	reserved := decimal.Zero
	for idx := range reservations {
		if reservations[idx].HoldsStock(now) {
			reserved = reserved.Add(reservations[idx].Quantity)
		}
	}
	available := onHand.Sub(reserved)
	if available.IsNegative() {
		return decimal.Zero
	}
	return available
}
