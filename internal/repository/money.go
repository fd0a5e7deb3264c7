package repository

import "github.com/shopspring/decimal"

// parseMoney converts a DECIMAL column value scanned as a string into a
// decimal.Decimal.  NULL-ish empty strings become zero.
func parseMoney(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
