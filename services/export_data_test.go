package services

import (
	"testing"
	"time"
)

func sampleExport(t *testing.T) RAPExport {
	t.Helper()
	pricing := InitializePricing(GroupByCategory(sampleItems()), nil)
	pricing, _ = pricing.SetContractorPrice("Drywall/Plaster", "200")
	header := HeaderInfo{"claim_number": "CLM-1001", "insured_name": "Jane Homeowner"}
	return BuildRAPExport(validContractor(), header, sampleItems(), pricing, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func TestBuildRAPExport(t *testing.T) {
	data := sampleExport(t)

	if len(data.Summary) != 1 {
		t.Fatalf("expected 1 summary row, got %+v", data.Summary)
	}
	row := data.Summary[0]
	assertClose(t, "IA", row.IAEstimate, 100)
	assertClose(t, "contractor", row.ContractorPrice, 200)
	assertClose(t, "adjustment", row.Adjustment, 100)
	if row.ItemCount != 3 {
		t.Errorf("ItemCount = %d, want 3", row.ItemCount)
	}

	if len(data.Rooms) != 2 || data.Rooms[0].Room != "Kitchen" {
		t.Errorf("rooms = %+v", data.Rooms)
	}
	if len(data.Pricing) != 2 {
		t.Errorf("raw pricing should include unpriced rows, got %d", len(data.Pricing))
	}
	if data.Title() != "RAP Pricing - Claim CLM-1001" {
		t.Errorf("Title() = %q", data.Title())
	}

	other := sampleExport(t)
	if data.DocumentID == other.DocumentID {
		t.Error("document ids should be unique")
	}
}

func TestBuildRAPExport_NilHeader(t *testing.T) {
	data := BuildRAPExport(validContractor(), nil, nil, nil, time.Now())
	if data.Header == nil {
		t.Error("header should default to an empty object")
	}
	if data.Title() != "RAP Pricing" {
		t.Errorf("Title() = %q", data.Title())
	}
}

func TestRAPExport_Payload(t *testing.T) {
	data := sampleExport(t)
	p := data.Payload()
	if p.Timestamp != "2026-03-01T12:00:00Z" {
		t.Errorf("Timestamp = %q", p.Timestamp)
	}
	if p.Contractor.Email != "bids@acme.example.com" || len(p.LineItems) != 4 {
		t.Errorf("payload incomplete: %+v", p)
	}
}
