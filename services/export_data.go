package services

import (
	"time"

	"github.com/google/uuid"
)

// SummaryRow is one priced category on the RAP document.
type SummaryRow struct {
	Category        string  `json:"category"`
	ItemCount       int     `json:"itemCount"`
	IAEstimate      float64 `json:"iaEstimate"`
	ContractorPrice float64 `json:"contractorPrice"`
	Adjustment      float64 `json:"adjustment"`
}

// RAPExport holds everything rendered into a RAP document.
type RAPExport struct {
	DocumentID  string            `json:"documentId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Contractor  ContractorDetails `json:"contractor"`
	Header      HeaderInfo        `json:"header"`
	Summary     []SummaryRow      `json:"summary"`
	Totals      PricingTotals     `json:"totals"`
	Rooms       []RoomGroup       `json:"rooms"`
	Pricing     PricingSheet      `json:"pricing"`
	LineItems   []LineItem        `json:"lineItems"`
}

// BuildRAPExport assembles the export from the workflow data. Only
// categories with a contractor price appear in the summary.
func BuildRAPExport(contractor ContractorDetails, header HeaderInfo, items []LineItem, pricing PricingSheet, now time.Time) RAPExport {
	if header == nil {
		header = HeaderInfo{}
	}
	priced := pricing.Priced()
	summary := make([]SummaryRow, 0, len(priced))
	for _, p := range priced {
		adj, _ := p.Adjustment()
		summary = append(summary, SummaryRow{
			Category:        p.Category,
			ItemCount:       p.ItemCount,
			IAEstimate:      p.IAEstimate,
			ContractorPrice: p.Amount(),
			Adjustment:      adj,
		})
	}

	return RAPExport{
		DocumentID:  uuid.NewString(),
		GeneratedAt: now.UTC(),
		Contractor:  contractor,
		Header:      header,
		Summary:     summary,
		Totals:      pricing.Totals(),
		Rooms:       GroupByRoom(Distribute(items, pricing)),
		Pricing:     pricing,
		LineItems:   cloneItems(items),
	}
}

// Title is the document heading.
func (d RAPExport) Title() string {
	if claim := d.Header.ClaimNumber(); claim != "" {
		return "RAP Pricing - Claim " + claim
	}
	return "RAP Pricing"
}

// RAPPayload is the JSON download. It keeps the raw pricing entries and line
// items next to the computed summary so the document can be rebuilt later.
type RAPPayload struct {
	DocumentID string            `json:"documentId"`
	Contractor ContractorDetails `json:"contractor"`
	Header     HeaderInfo        `json:"header"`
	Pricing    PricingSheet      `json:"pricing"`
	LineItems  []LineItem        `json:"lineItems"`
	Summary    []SummaryRow      `json:"summary"`
	Totals     PricingTotals     `json:"totals"`
	Rooms      []RoomGroup       `json:"rooms"`
	Timestamp  string            `json:"timestamp"`
}

// Payload returns the JSON download shape.
func (d RAPExport) Payload() RAPPayload {
	return RAPPayload{
		DocumentID: d.DocumentID,
		Contractor: d.Contractor,
		Header:     d.Header,
		Pricing:    d.Pricing,
		LineItems:  d.LineItems,
		Summary:    d.Summary,
		Totals:     d.Totals,
		Rooms:      d.Rooms,
		Timestamp:  d.GeneratedAt.Format(time.RFC3339),
	}
}
