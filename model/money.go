package model

import "github.com/shopspring/decimal"

// FormatMoney renders an amount as dollars with two decimals, e.g. "$0.00".
func FormatMoney(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// LineTotal multiplies a unit price by a quantity without float drift.
func LineTotal(price float64, qty int) float64 {
	total, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Round(2).Float64()
	return total
}
