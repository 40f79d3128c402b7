package services

import (
	"fmt"
	"strconv"
	"strings"
)

// DedupPolicy selects how duplicate parser rows are detected. A deployment
// uses exactly one policy.
type DedupPolicy string

const (
	// DedupByLine treats rows with the same description, quantity and unit as
	// one line reported twice; the first row wins.
	DedupByLine DedupPolicy = "line"
	// DedupByCategory merges rows with the same description and category,
	// summing quantity and RCV into the first row.
	DedupByCategory DedupPolicy = "category"
)

// ParseDedupPolicy maps a configuration value to a DedupPolicy.
func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch DedupPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DedupByLine:
		return DedupByLine, nil
	case DedupByCategory:
		return DedupByCategory, nil
	}
	return "", fmt.Errorf("unknown dedup policy %q", s)
}

func (p DedupPolicy) key(li LineItem) string {
	desc := normalizeDescription(li.Description)
	if p == DedupByCategory {
		return desc + "\x00" + li.CategoryOrDefault()
	}
	return desc + "\x00" + strconv.FormatFloat(li.Quantity, 'g', -1, 64) + "\x00" + strings.TrimSpace(li.Unit)
}

// RemoveDuplicates collapses repeated line items according to policy.
// Output follows first-occurrence order and the input is left untouched.
func RemoveDuplicates(items []LineItem, policy DedupPolicy) []LineItem {
	index := make(map[string]int, len(items))
	out := make([]LineItem, 0, len(items))

	for _, item := range items {
		k := policy.key(item)
		pos, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, item)
			continue
		}
		if policy == DedupByCategory {
			out[pos].Quantity += item.Quantity
			out[pos].RCV += item.RCV
		}
	}
	return out
}
