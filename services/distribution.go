package services

// DistributedItem is a line item annotated with its share of the
// contractor's category price. The derived fields are for display only.
type DistributedItem struct {
	LineItem
	DistributedPrice     float64 `json:"distributedPrice"`
	DistributedUnitPrice float64 `json:"distributedUnitPrice"`
}

// Distribute apportions each category's contractor price to its items in
// proportion to their share of the category RCV. Items in unpriced
// categories, and items with no RCV, get 0. The result is not rounded, so a
// category's distributed prices sum to its contractor price only up to
// floating-point error.
func Distribute(items []LineItem, pricing PricingSheet) []DistributedItem {
	categoryRCV := make(map[string]float64)
	for _, it := range items {
		categoryRCV[it.CategoryOrDefault()] += it.RCV
	}
	amounts := pricing.Amounts()

	out := make([]DistributedItem, 0, len(items))
	for _, it := range items {
		cat := it.CategoryOrDefault()
		total := categoryRCV[cat]
		if total == 0 {
			total = 1
		}

		di := DistributedItem{LineItem: it}
		if price := amounts[cat]; price > 0 && it.RCV > 0 {
			di.DistributedPrice = it.RCV / total * price
		}
		if it.Quantity > 0 {
			di.DistributedUnitPrice = di.DistributedPrice / it.Quantity
		}
		out = append(out, di)
	}
	return out
}

// RoomGroup collects distributed items by physical room.
type RoomGroup struct {
	Room             string            `json:"room"`
	Items            []DistributedItem `json:"items"`
	RCV              float64           `json:"rcv"`
	DistributedTotal float64           `json:"distributedTotal"`
}

// GroupByRoom groups items by room in order of first appearance.
func GroupByRoom(items []DistributedItem) []RoomGroup {
	pos := make(map[string]int)
	var rooms []RoomGroup
	for _, it := range items {
		room := it.RoomOrDefault()
		i, ok := pos[room]
		if !ok {
			i = len(rooms)
			pos[room] = i
			rooms = append(rooms, RoomGroup{Room: room})
		}
		rooms[i].Items = append(rooms[i].Items, it)
		rooms[i].RCV += it.RCV
		rooms[i].DistributedTotal += it.DistributedPrice
	}
	return rooms
}
