// Package core holds the domain model shared by storage, services and the
// analysis engine. Amounts are exact decimals end to end; float64 never
// touches money.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is the canonical zero amount at currency precision.
var Zero = decimal.New(0, -2)

// ParseAmount converts a user-supplied amount string to a decimal at cent
// precision. Thousands separators ("1,234.56") are tolerated and stripped.
// Negative and zero amounts are rejected; sign is carried by the transaction
// type, not the amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Decimal{}, ErrInvalidAmount
	}
	return d.Round(2), nil
}
