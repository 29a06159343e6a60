package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/lunchdesk/api/internal/upstream"
)

// FromMoney converts the upstream {amount, scale} pair into a decimal:
// amount / 10^scale.
func FromMoney(m upstream.Money) decimal.Decimal {
	return decimal.New(m.Amount, -m.Scale)
}

// Format renders a price with two decimal places, the minor-unit convention
// of the currency this domain operates in.
func Format(m upstream.Money) string {
	return FromMoney(m).StringFixed(2)
}
