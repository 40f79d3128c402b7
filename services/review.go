package services

import "fmt"

// Reclassify moves every item whose normalized description matches
// description into newCategory. The input slice is not modified.
func Reclassify(items []LineItem, description, newCategory string) ([]LineItem, error) {
	if !IsTradeCategory(newCategory) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, newCategory)
	}

	target := normalizeDescription(description)
	out := cloneItems(items)
	for i := range out {
		if normalizeDescription(out[i].Description) == target {
			out[i].Category = newCategory
		}
	}
	return out, nil
}

// ReviewRow is one reviewable description within a category, standing in for
// every item that shares it.
type ReviewRow struct {
	Description string
	Category    string
	Unit        string
	Count       int
	TotalRCV    float64
}

// ReviewGroup is the review projection of one category.
type ReviewGroup struct {
	Category string
	Rows     []ReviewRow
}

// ItemCount is the number of underlying line items in the group.
func (g ReviewGroup) ItemCount() int {
	n := 0
	for _, r := range g.Rows {
		n += r.Count
	}
	return n
}

// TotalRCV sums RCV across every row in the group.
func (g ReviewGroup) TotalRCV() float64 {
	var sum float64
	for _, r := range g.Rows {
		sum += r.TotalRCV
	}
	return sum
}

// ForReview builds the display grouping used on the review step: within each
// category, items sharing a normalized description collapse into one row.
func ForReview(items []LineItem) []ReviewGroup {
	groups := GroupByCategory(items)
	out := make([]ReviewGroup, 0, len(groups))
	for _, g := range groups {
		rg := ReviewGroup{Category: g.Category}
		pos := make(map[string]int)
		for _, it := range g.Items {
			key := normalizeDescription(it.Description)
			if i, ok := pos[key]; ok {
				rg.Rows[i].Count++
				rg.Rows[i].TotalRCV += it.RCV
				continue
			}
			pos[key] = len(rg.Rows)
			rg.Rows = append(rg.Rows, ReviewRow{
				Description: it.Description,
				Category:    g.Category,
				Unit:        it.Unit,
				Count:       1,
				TotalRCV:    it.RCV,
			})
		}
		out = append(out, rg)
	}
	return out
}
