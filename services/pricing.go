// Package services implements the RAP pricing pipeline: line item cleanup,
// category grouping, contractor pricing, price distribution and export.
package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryPricing is the contractor bid for one category. ContractorPrice is
// the raw entry; an empty entry means the category has not been priced.
type CategoryPricing struct {
	Category        string  `json:"category"`
	IAEstimate      float64 `json:"iaEstimate"`
	ContractorPrice string  `json:"contractorPrice"`
	ItemCount       int     `json:"itemCount"`
}

// HasPrice reports whether the user entered anything for the category.
func (p CategoryPricing) HasPrice() bool {
	return strings.TrimSpace(p.ContractorPrice) != ""
}

// Amount is the contractor price used for computation. Entries that are not
// a non-negative number compute as 0.
func (p CategoryPricing) Amount() float64 {
	d, ok := parsePrice(p.ContractorPrice)
	if !ok {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// Invalid reports an entry that was made but cannot be used as a price.
func (p CategoryPricing) Invalid() bool {
	if !p.HasPrice() {
		return false
	}
	_, ok := parsePrice(p.ContractorPrice)
	return !ok
}

// Adjustment is contractor price minus IA estimate. ok is false when the
// category has not been priced.
func (p CategoryPricing) Adjustment() (adj float64, ok bool) {
	if !p.HasPrice() {
		return 0, false
	}
	return p.Amount() - p.IAEstimate, true
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	d, ok, err := parseAmount(raw)
	if err != nil || !ok || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// PricingSheet holds one CategoryPricing per category, in display order.
type PricingSheet []CategoryPricing

// InitializePricing snapshots the IA estimate of every group. Entries from
// previous are carried over for categories that still exist, so navigating
// back to review and forward again keeps what the user typed.
func InitializePricing(groups []CategoryGroup, previous PricingSheet) PricingSheet {
	sheet := make(PricingSheet, 0, len(groups))
	for _, g := range groups {
		cp := CategoryPricing{
			Category:   g.Category,
			IAEstimate: g.TotalRCV(),
			ItemCount:  len(g.Items),
		}
		if prev, ok := previous.Get(g.Category); ok {
			cp.ContractorPrice = prev.ContractorPrice
		}
		sheet = append(sheet, cp)
	}
	return sheet
}

// Get returns the pricing for category.
func (s PricingSheet) Get(category string) (CategoryPricing, bool) {
	for _, p := range s {
		if p.Category == category {
			return p, true
		}
	}
	return CategoryPricing{}, false
}

// SetContractorPrice returns a copy of the sheet with raw stored as the
// category's contractor price.
func (s PricingSheet) SetContractorPrice(category, raw string) (PricingSheet, error) {
	out := make(PricingSheet, len(s))
	copy(out, s)
	for i := range out {
		if out[i].Category == category {
			out[i].ContractorPrice = strings.TrimSpace(raw)
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrCategoryNotPriced, category)
}

// Priced returns the categories with a non-empty contractor price.
func (s PricingSheet) Priced() PricingSheet {
	var out PricingSheet
	for _, p := range s {
		if p.HasPrice() {
			out = append(out, p)
		}
	}
	return out
}

// Amounts maps each category to its computed contractor price.
func (s PricingSheet) Amounts() map[string]float64 {
	out := make(map[string]float64, len(s))
	for _, p := range s {
		out[p.Category] = p.Amount()
	}
	return out
}

// ValidateForExport requires at least one priced category.
func (s PricingSheet) ValidateForExport() error {
	if len(s.Priced()) == 0 {
		return &ValidationError{Message: "Please enter at least one contractor price to continue."}
	}
	return nil
}

// PricingTotals aggregates the priced categories.
type PricingTotals struct {
	IAEstimate      float64 `json:"iaEstimate"`
	ContractorPrice float64 `json:"contractorPrice"`
	Adjustment      float64 `json:"adjustment"`
}

// Totals sums IA estimate and contractor price over priced categories only.
func (s PricingSheet) Totals() PricingTotals {
	var t PricingTotals
	for _, p := range s.Priced() {
		t.IAEstimate += p.IAEstimate
		t.ContractorPrice += p.Amount()
	}
	t.Adjustment = t.ContractorPrice - t.IAEstimate
	return t
}
