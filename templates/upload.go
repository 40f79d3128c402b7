package templates

import (
	"context"

	"github.com/a-h/templ"
)

// UploadData drives the upload step.
type UploadData struct {
	Shell    Shell
	FileName string
	Error    string
	Busy     bool
}

// UploadContent is the upload form.
func UploadContent(data UploadData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<section class="bg-white rounded-lg shadow p-6">`)
		h.raw(`<h2 class="text-lg font-semibold mb-2">Upload Estimate</h2>`)
		h.raw(`<p class="text-sm text-gray-600 mb-4">Select the adjuster's estimate PDF. Line items are extracted, duplicates removed and grouped by trade.</p>`)
		h.render(ctx, ErrorBanner(data.Error))
		if data.Busy {
			h.raw(`<p class="mb-4 text-blue-700">Processing estimate...</p>`)
		}
		h.raw(`<form method="post" action="/upload" enctype="multipart/form-data" hx-indicator="#upload-spinner" class="space-y-4">`)
		h.raw(`<input type="file" name="file" accept="application/pdf,.pdf" required class="block w-full text-sm">`)
		if data.FileName != "" {
			h.rawf(`<p class="text-sm text-gray-500">Last selected: %s</p>`, esc(data.FileName))
		}
		h.raw(`<button type="submit" class="rounded bg-blue-600 px-4 py-2 text-white">Parse Estimate</button>`)
		h.raw(`<span id="upload-spinner" class="htmx-indicator text-sm text-gray-500">Processing...</span>`)
		h.raw(`</form></section>`)
	})
}

// UploadPage is the full upload page.
func UploadPage(data UploadData) templ.Component {
	return Page(data.Shell, UploadContent(data))
}
