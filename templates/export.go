package templates

import (
	"context"

	"github.com/a-h/templ"
)

// LabelValue is a labelled piece of claim metadata.
type LabelValue struct {
	Label string
	Value string
}

// FormField is one contractor input with its current value and error.
type FormField struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

// RoomItem is a distributed line item in the export preview.
type RoomItem struct {
	Description string
	Category    string
	Quantity    string
	Unit        string
	RCV         string
	RAPPrice    string
}

// Room is the export preview for one room.
type Room struct {
	Name     string
	Items    []RoomItem
	RCV      string
	RAPTotal string
}

// ExportData drives the contractor details and export step.
type ExportData struct {
	Shell   Shell
	Header  []LabelValue
	Summary []PricingRow
	Totals  Totals
	Rooms   []Room
	Fields  []FormField
	Error   string
}

// ExportContent shows the RAP summary, the distribution preview and the
// contractor form with download buttons.
func ExportContent(data ExportData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="space-y-6">`)
		h.render(ctx, ErrorBanner(data.Error))

		if len(data.Header) > 0 {
			h.raw(`<div class="bg-white rounded-lg shadow p-6"><h2 class="text-lg font-semibold mb-2">Claim</h2><dl class="grid grid-cols-2 gap-2 text-sm">`)
			for _, f := range data.Header {
				h.rawf(`<dt class="text-gray-500">%s</dt><dd>%s</dd>`, esc(f.Label), esc(f.Value))
			}
			h.raw(`</dl></div>`)
		}

		h.raw(`<div class="bg-white rounded-lg shadow p-6"><h2 class="text-lg font-semibold mb-2">RAP Summary</h2>`)
		h.raw(`<table class="w-full text-sm"><thead><tr class="text-left text-gray-500"><th class="py-2">Category</th><th class="text-right">Items</th><th class="text-right">IA Estimate</th><th class="text-right">Contractor Price</th><th class="text-right">Adjustment</th></tr></thead><tbody>`)
		for _, r := range data.Summary {
			h.rawf(`<tr class="border-t"><td class="py-2">%s</td><td class="text-right">%d</td><td class="text-right">%s</td><td class="text-right">%s</td><td class="text-right %s">%s</td></tr>`,
				esc(r.Category), r.ItemCount, esc(r.IAEstimate), esc(r.ContractorPrice), signClass(r.AdjustmentSign), esc(r.Adjustment))
		}
		h.raw(`</tbody><tfoot><tr class="border-t font-semibold">`)
		h.rawf(`<td class="py-2">Total</td><td></td><td class="text-right">Total IA: %s</td><td class="text-right">Total Contractor: %s</td><td class="text-right %s">Total Adjustment: %s</td>`,
			esc(data.Totals.IAEstimate), esc(data.Totals.ContractorPrice), signClass(data.Totals.AdjustmentSign), esc(data.Totals.Adjustment))
		h.raw(`</tr></tfoot></table></div>`)

		h.raw(`<div class="bg-white rounded-lg shadow p-6"><h2 class="text-lg font-semibold mb-2">Distribution by Room</h2>`)
		for _, room := range data.Rooms {
			h.rawf(`<h3 class="mt-4 font-medium">%s</h3>`, esc(room.Name))
			h.raw(`<table class="w-full text-sm"><thead><tr class="text-left text-gray-500"><th class="py-1">Description</th><th>Category</th><th class="text-right">Qty</th><th>Unit</th><th class="text-right">RCV</th><th class="text-right">RAP Price</th></tr></thead><tbody>`)
			for _, it := range room.Items {
				h.rawf(`<tr class="border-t"><td class="py-1">%s</td><td>%s</td><td class="text-right">%s</td><td>%s</td><td class="text-right">%s</td><td class="text-right">%s</td></tr>`,
					esc(it.Description), esc(it.Category), esc(it.Quantity), esc(it.Unit), esc(it.RCV), esc(it.RAPPrice))
			}
			h.rawf(`</tbody><tfoot><tr class="border-t font-semibold"><td colspan="4" class="py-1">%s total</td><td class="text-right">%s</td><td class="text-right">%s</td></tr></tfoot></table>`,
				esc(room.Name), esc(room.RCV), esc(room.RAPTotal))
		}
		h.raw(`</div>`)

		h.raw(`<form method="post" action="/export" hx-boost="false" class="bg-white rounded-lg shadow p-6 space-y-3">`)
		h.raw(`<h2 class="text-lg font-semibold">Contractor Details</h2>`)
		for _, f := range data.Fields {
			h.rawf(`<label class="block text-sm"><span class="text-gray-700">%s</span>`, esc(f.Label))
			h.rawf(`<input type="%s" name="%s" value="%s" required class="mt-1 block w-full border rounded px-2 py-1">`, esc(f.Type), esc(f.Name), esc(f.Value))
			if f.Error != "" {
				h.rawf(`<span class="text-xs text-red-600">%s</span>`, esc(f.Error))
			}
			h.raw(`</label>`)
		}
		h.raw(`<div class="flex justify-between pt-4">`)
		h.raw(`<button type="submit" formaction="/export/back" class="rounded border px-4 py-2">Back to Pricing</button>`)
		h.raw(`<div class="flex gap-2">`)
		h.raw(`<button type="submit" name="format" value="pdf" class="rounded bg-blue-600 px-4 py-2 text-white">Download PDF</button>`)
		h.raw(`<button type="submit" name="format" value="xlsx" class="rounded border px-4 py-2">Download Excel</button>`)
		h.raw(`<button type="submit" name="format" value="json" class="rounded border px-4 py-2">Download JSON</button>`)
		h.raw(`</div></div></form></section>`)
	})
}

// ExportPage is the full export page.
func ExportPage(data ExportData) templ.Component {
	return Page(data.Shell, ExportContent(data))
}
