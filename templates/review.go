package templates

import (
	"context"

	"github.com/a-h/templ"
)

// ReviewRow is one description on the review step.
type ReviewRow struct {
	Description string
	Unit        string
	Count       int
	TotalRCV    string
}

// ReviewGroup is one category on the review step.
type ReviewGroup struct {
	Category    string
	ItemCount   int
	UniqueCount int
	TotalRCV    string
	Rows        []ReviewRow
}

// ReviewData drives the category review step.
type ReviewData struct {
	Shell      Shell
	Groups     []ReviewGroup
	Categories []string
	ItemCount  int
	TotalRCV   string
}

// ReviewContent lists items by category with a reclassify control per row.
func ReviewContent(data ReviewData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="space-y-6">`)
		h.raw(`<div class="flex items-center justify-between">`)
		h.rawf(`<div><h2 class="text-lg font-semibold">Category Review</h2><p class="text-sm text-gray-600">%d line items, %s total RCV</p></div>`,
			data.ItemCount, esc(data.TotalRCV))
		h.raw(`<form method="post" action="/review/continue"><button type="submit" class="rounded bg-blue-600 px-4 py-2 text-white">Continue to Pricing</button></form>`)
		h.raw(`</div>`)

		for _, g := range data.Groups {
			h.raw(`<details open class="bg-white rounded-lg shadow">`)
			h.rawf(`<summary class="cursor-pointer px-4 py-3 font-medium">%s <span class="text-sm text-gray-500">(%d items, %d unique) %s</span></summary>`,
				esc(g.Category), g.ItemCount, g.UniqueCount, esc(g.TotalRCV))
			h.raw(`<table class="w-full text-sm"><thead><tr class="text-left text-gray-500"><th class="px-4 py-2">Description</th><th>Unit</th><th class="text-right">RCV</th><th class="px-4">Category</th></tr></thead><tbody>`)
			for _, r := range g.Rows {
				h.raw(`<tr class="border-t">`)
				h.rawf(`<td class="px-4 py-2">%s`, esc(r.Description))
				if r.Count > 1 {
					h.rawf(` <span class="text-xs text-gray-500">&times;%d</span>`, r.Count)
				}
				h.raw(`</td>`)
				h.rawf(`<td>%s</td><td class="text-right">%s</td>`, esc(r.Unit), esc(r.TotalRCV))
				h.raw(`<td class="px-4"><form method="post" action="/review/reclassify" class="flex gap-2">`)
				h.rawf(`<input type="hidden" name="description" value="%s">`, esc(r.Description))
				h.raw(`<select name="category" class="border rounded px-1 text-sm">`)
				for _, c := range data.Categories {
					selected := ""
					if c == g.Category {
						selected = " selected"
					}
					h.rawf(`<option value="%s"%s>%s</option>`, esc(c), selected, esc(c))
				}
				h.raw(`</select><button type="submit" class="text-blue-700 text-xs underline">Move</button></form></td></tr>`)
			}
			h.raw(`</tbody></table></details>`)
		}
		h.raw(`</section>`)
	})
}

// ReviewPage is the full review page.
func ReviewPage(data ReviewData) templ.Component {
	return Page(data.Shell, ReviewContent(data))
}
