package services

import (
	"errors"
	"testing"
)

func TestReclassify_MovesAllMatchingItems(t *testing.T) {
	items := []LineItem{
		item("Tape drywall", "Drywall/Plaster", "Bedroom", 60, 60),
		item("Paint walls", "Painting", "Bedroom", 5, 50),
		item(" tape DRYWALL", "Drywall/Plaster", "Hall", 20, 20),
	}

	got, err := Reclassify(items, "Tape drywall", "Painting")
	if err != nil {
		t.Fatalf("Reclassify: %v", err)
	}
	if got[0].Category != "Painting" || got[2].Category != "Painting" {
		t.Errorf("matching items not moved: %+v", got)
	}
	if items[0].Category != "Drywall/Plaster" {
		t.Error("input was modified")
	}

	// Moved items are visible under the new category on the next render.
	groups := ForReview(got)
	if len(groups) != 1 || groups[0].Category != "Painting" {
		t.Fatalf("expected a single Painting group, got %+v", groups)
	}
	if groups[0].ItemCount() != 3 {
		t.Errorf("expected 3 items under Painting, got %d", groups[0].ItemCount())
	}
}

func TestReclassify_InvalidCategory(t *testing.T) {
	_, err := Reclassify(sampleItems(), "Paint walls", "Landscaping")
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestReclassify_NoMatchIsNoop(t *testing.T) {
	items := sampleItems()
	got, err := Reclassify(items, "Install sauna", "HVAC")
	if err != nil {
		t.Fatalf("Reclassify: %v", err)
	}
	for i := range items {
		if got[i].Category != items[i].Category {
			t.Errorf("item %d changed category to %q", i, got[i].Category)
		}
	}
}

func TestForReview_CollapsesDescriptions(t *testing.T) {
	items := []LineItem{
		item("Tape drywall", "Drywall/Plaster", "Bedroom", 60, 60),
		item("Hang drywall", "Drywall/Plaster", "Kitchen", 30, 30),
		item("tape drywall", "Drywall/Plaster", "Hall", 20, 25),
	}

	groups := ForReview(items)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	rows := groups[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Description != "Tape drywall" || rows[0].Count != 2 {
		t.Errorf("row 0 = %+v, want Tape drywall x2", rows[0])
	}
	assertClose(t, "row 0 total", rows[0].TotalRCV, 85)
	assertClose(t, "group total", groups[0].TotalRCV(), 115)
	if groups[0].ItemCount() != 3 {
		t.Errorf("ItemCount = %d, want 3", groups[0].ItemCount())
	}
}
