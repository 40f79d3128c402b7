package templates

import (
	"context"

	"github.com/a-h/templ"
)

// PricingRow is one category bid. AdjustmentSign is -1, 0 or 1.
type PricingRow struct {
	Category        string
	ItemCount       int
	IAEstimate      string
	ContractorPrice string
	Adjustment      string
	AdjustmentSign  int
	Invalid         bool
}

// Totals is the footer of a pricing or summary table.
type Totals struct {
	IAEstimate      string
	ContractorPrice string
	Adjustment      string
	AdjustmentSign  int
}

// PricingData drives the contractor pricing step.
type PricingData struct {
	Shell  Shell
	Rows   []PricingRow
	Totals Totals
	Error  string
}

// PricingContent is the per-category bid form.
func PricingContent(data PricingData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="bg-white rounded-lg shadow p-6">`)
		h.raw(`<h2 class="text-lg font-semibold mb-2">Contractor Pricing</h2>`)
		h.raw(`<p class="text-sm text-gray-600 mb-4">Enter the contractor's price for each trade. Leave a category blank to exclude it.</p>`)
		h.render(ctx, ErrorBanner(data.Error))
		h.raw(`<form method="post" action="/pricing">`)
		h.raw(`<table class="w-full text-sm"><thead><tr class="text-left text-gray-500"><th class="py-2">Category</th><th class="text-right">Items</th><th class="text-right">IA Estimate</th><th class="text-right">Contractor Price</th><th class="text-right">Adjustment</th></tr></thead><tbody>`)
		for _, r := range data.Rows {
			h.raw(`<tr class="border-t">`)
			h.rawf(`<td class="py-2">%s</td><td class="text-right">%d</td><td class="text-right">%s</td>`, esc(r.Category), r.ItemCount, esc(r.IAEstimate))
			inputClass := "border rounded px-2 py-1 text-right w-32"
			if r.Invalid {
				inputClass += " border-red-500"
			}
			h.rawf(`<td class="text-right"><input type="text" inputmode="decimal" name="price[%s]" value="%s" class="%s" placeholder="0.00">`,
				esc(r.Category), esc(r.ContractorPrice), inputClass)
			if r.Invalid {
				h.raw(`<span class="block text-xs text-red-600" data-invalid="true">Not a valid amount, counted as $0.00</span>`)
			}
			h.raw(`</td>`)
			h.rawf(`<td class="text-right %s">%s</td></tr>`, signClass(r.AdjustmentSign), esc(r.Adjustment))
		}
		h.raw(`</tbody><tfoot><tr class="border-t font-semibold">`)
		h.rawf(`<td class="py-2">Total</td><td></td><td class="text-right">%s</td><td class="text-right">%s</td><td class="text-right %s">%s</td>`,
			esc(data.Totals.IAEstimate), esc(data.Totals.ContractorPrice), signClass(data.Totals.AdjustmentSign), esc(data.Totals.Adjustment))
		h.raw(`</tr></tfoot></table>`)
		h.raw(`<div class="mt-6 flex justify-between">`)
		h.raw(`<button type="submit" formaction="/pricing/back" class="rounded border px-4 py-2">Back to Review</button>`)
		h.raw(`<div class="flex gap-2"><button type="submit" name="action" value="save" class="rounded border px-4 py-2">Update Totals</button>`)
		h.raw(`<button type="submit" name="action" value="continue" class="rounded bg-blue-600 px-4 py-2 text-white">Continue to Export</button></div>`)
		h.raw(`</div></form></section>`)
	})
}

// PricingPage is the full pricing page.
func PricingPage(data PricingData) templ.Component {
	return Page(data.Shell, PricingContent(data))
}
