package services

// CategoryGroup is the ordered set of line items carrying one category.
type CategoryGroup struct {
	Category string
	Items    []LineItem
}

// TotalRCV sums RCV across the group.
func (g CategoryGroup) TotalRCV() float64 {
	var sum float64
	for _, it := range g.Items {
		sum += it.RCV
	}
	return sum
}

// GroupByCategory partitions items by category. Groups are ordered with
// SortCategories and items keep their input order within a group.
func GroupByCategory(items []LineItem) []CategoryGroup {
	byCat := make(map[string][]LineItem)
	var names []string
	for _, it := range items {
		c := it.CategoryOrDefault()
		if _, ok := byCat[c]; !ok {
			names = append(names, c)
		}
		byCat[c] = append(byCat[c], it)
	}

	groups := make([]CategoryGroup, 0, len(names))
	for _, c := range SortCategories(names) {
		groups = append(groups, CategoryGroup{Category: c, Items: byCat[c]})
	}
	return groups
}
