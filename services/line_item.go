package services

import (
	"encoding/json"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// DefaultRoom is used for line items the parser could not place in a room.
const DefaultRoom = "General"

// LineItem is one priced unit of repair work from the adjuster's estimate.
// RCV is the authoritative amount; Quantity and UnitPrice are descriptive and
// are not reconciled against it.
type LineItem struct {
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Room         string   `json:"room"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	UnitPrice    float64  `json:"unit_price"`
	RCV          float64  `json:"rcv"`
	Depreciation *float64 `json:"depreciation,omitempty"`
	ACV          *float64 `json:"acv,omitempty"`
}

// normalizeDescription is the comparison key for descriptions.
func normalizeDescription(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CategoryOrDefault returns the item's category or the "Other" sentinel.
func (li LineItem) CategoryOrDefault() string {
	if c := strings.TrimSpace(li.Category); c != "" {
		return c
	}
	return DefaultCategory
}

// RoomOrDefault returns the item's room or the "General" sentinel.
func (li LineItem) RoomOrDefault() string {
	if r := strings.TrimSpace(li.Room); r != "" {
		return r
	}
	return DefaultRoom
}

// UnmarshalJSON accepts amounts as JSON numbers or as strings. Strings may
// carry a "$" and thousands separators; blank or unreadable amounts are
// treated as absent so one bad cell does not sink the whole estimate.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var wire struct {
		Description  string     `json:"description"`
		Category     string     `json:"category"`
		Room         string     `json:"room"`
		Quantity     wireAmount `json:"quantity"`
		Unit         string     `json:"unit"`
		UnitPrice    wireAmount `json:"unit_price"`
		RCV          wireAmount `json:"rcv"`
		Depreciation wireAmount `json:"depreciation"`
		ACV          wireAmount `json:"acv"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*li = LineItem{
		Description:  wire.Description,
		Category:     wire.Category,
		Room:         wire.Room,
		Quantity:     nullToFloat(wire.Quantity.NullDecimal),
		Unit:         wire.Unit,
		UnitPrice:    nullToFloat(wire.UnitPrice.NullDecimal),
		RCV:          nullToFloat(wire.RCV.NullDecimal),
		Depreciation: nullToPtr(wire.Depreciation.NullDecimal),
		ACV:          nullToPtr(wire.ACV.NullDecimal),
	}
	return nil
}

// wireAmount is an amount as the parsing service sends it.
type wireAmount struct {
	decimal.NullDecimal
}

func (a *wireAmount) UnmarshalJSON(data []byte) error {
	a.NullDecimal = decimal.NullDecimal{}
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	if d, ok, err := parseAmount(raw); ok && err == nil {
		a.NullDecimal = decimal.NewNullDecimal(d)
	}
	return nil
}

// parseAmount reads a money or quantity cell. ok is false for a blank cell;
// err is set when the cell is not a number.
func parseAmount(raw string) (d decimal.Decimal, ok bool, err error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false, nil
	}
	d, err = decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false, err
	}
	return d, true, nil
}

func nullToFloat(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	f, _ := d.Decimal.Float64()
	return f
}

func nullToPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f, _ := d.Decimal.Float64()
	return &f
}

func cloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// HeaderInfo is the claim metadata returned by the parser. It is passed
// through to the export untouched.
type HeaderInfo map[string]any

// ClaimNumber returns header["claim_number"] as text, or "".
func (h HeaderInfo) ClaimNumber() string {
	return h.text("claim_number")
}

// InsuredName returns header["insured_name"] as text, or "".
func (h HeaderInfo) InsuredName() string {
	return h.text("insured_name")
}

func (h HeaderInfo) text(key string) string {
	v, ok := h[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// HeaderField is one displayable header entry.
type HeaderField struct {
	Key   string
	Label string
	Value string
}

// Fields returns the non-empty header entries sorted by key, with labels
// derived from the snake_case keys.
func (h HeaderInfo) Fields() []HeaderField {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]HeaderField, 0, len(keys))
	for _, k := range keys {
		v := h.text(k)
		if v == "" {
			continue
		}
		out = append(out, HeaderField{Key: k, Label: headerLabel(k), Value: v})
	}
	return out
}

func headerLabel(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
