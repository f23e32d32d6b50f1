package domain

import "github.com/shopspring/decimal"

// MenuItem is a catalog entry. The console core only reads the catalog,
// to resolve sold items to their category for analytics.
type MenuItem struct {
	ID        string
	Name      string
	Category  string
	Price     decimal.Decimal
	Available bool
}
