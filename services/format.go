package services

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatUSD formats an amount as US dollars with thousands separators and
// exactly two decimals, e.g. $1,234.50 or -$80.00.
func FormatUSD(amount float64) string {
	amount = math.Round(amount*100) / 100
	if amount == 0 {
		amount = 0 // drop negative zero
	}
	if amount < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -amount)
	}
	return "$" + humanize.FormatFloat("#,###.##", amount)
}

// FormatAdjustment formats a contractor adjustment with an explicit sign for
// increases, e.g. +$120.00.
func FormatAdjustment(amount float64) string {
	s := FormatUSD(amount)
	if s[0] == '$' && s != "$0.00" {
		return "+" + s
	}
	return s
}

// FormatQuantity returns whole quantities without decimals and fractional ones
// with two.
func FormatQuantity(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
