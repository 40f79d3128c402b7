package services

import "sort"

// DefaultCategory is assigned to line items that arrive without a category.
const DefaultCategory = "Other"

// PriorityCategories are listed ahead of every other category, in this order.
var PriorityCategories = []string{
	"Cleaning",
	"General Demolition",
	"Water Extraction and Mitigation",
}

// TradeCategories is the full list of categories a line item may be moved to.
var TradeCategories = []string{
	"Cleaning",
	"General Demolition",
	"Water Extraction and Mitigation",
	"Insulation",
	"Drywall/Plaster",
	"Painting",
	"Flooring",
	"Finish Carpentry/Trim",
	"Doors",
	"Windows",
	"Cabinetry",
	"Countertops",
	"Appliances",
	"Plumbing",
	"Electrical",
	"HVAC",
	"Roofing",
	"Exterior",
	"Mirrors and Shower Doors",
	"General Conditions",
	"Other",
}

// IsTradeCategory reports whether name is in TradeCategories.
func IsTradeCategory(name string) bool {
	for _, c := range TradeCategories {
		if c == name {
			return true
		}
	}
	return false
}

func priorityRank(name string) int {
	for i, c := range PriorityCategories {
		if c == name {
			return i
		}
	}
	return -1
}

// SortCategories returns the priority categories in declared order followed
// by all remaining names in ascending order. Unknown names are kept and sort
// with the non-priority group. The input slice is not modified.
func SortCategories(categories []string) []string {
	var priority, other []string
	for _, c := range categories {
		if priorityRank(c) >= 0 {
			priority = append(priority, c)
		} else {
			other = append(other, c)
		}
	}

	sort.SliceStable(priority, func(i, j int) bool {
		return priorityRank(priority[i]) < priorityRank(priority[j])
	})
	sort.Strings(other)

	out := make([]string, 0, len(categories))
	out = append(out, priority...)
	return append(out, other...)
}
