package templates

import (
	"context"

	"github.com/a-h/templ"
)

// StepItem is one entry of the progress indicator.
type StepItem struct {
	Number int
	Label  string
	Active bool
	Done   bool
}

// Shell is the data every page shares.
type Shell struct {
	Title    string
	Steps    []StepItem
	FileName string
}

const toastScript = `<script>
(function () {
  function show(detail) {
    var box = document.getElementById("toast");
    if (!box || !detail) return;
    box.textContent = detail.message;
    box.className = "fixed top-4 right-4 rounded px-4 py-2 shadow text-white " +
      (detail.type === "error" ? "bg-red-600" : "bg-green-600");
    setTimeout(function () { box.className = "hidden"; }, 4000);
  }
  document.body.addEventListener("showToast", function (e) { show(e.detail); });
  var m = document.cookie.match(/(?:^|; )flash_toast=([^;]*)/);
  if (m) {
    try { show(JSON.parse(decodeURIComponent(m[1]))); } catch (err) {}
    document.cookie = "flash_toast=; Max-Age=0; path=/";
  }
})();
</script>`

// Page wraps content in the document shell with the step indicator.
func Page(shell Shell, content templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.rawf(`<title>%s | RAP Builder</title>`, esc(shell.Title))
		h.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"></script>`)
		h.raw(`<script src="https://cdn.tailwindcss.com"></script>`)
		h.raw(`</head><body class="bg-gray-50 min-h-screen" hx-boost="true">`)
		h.raw(`<header class="bg-white shadow-sm border-b border-gray-200"><div class="max-w-6xl mx-auto px-4 py-4 flex items-center justify-between">`)
		h.raw(`<div><h1 class="text-xl font-bold text-gray-900">NFIP RAP Builder</h1>`)
		h.raw(`<p class="text-sm text-gray-500">Reasonable and Proper pricing from adjuster estimates</p></div>`)
		if shell.FileName != "" {
			h.rawf(`<span class="text-sm text-gray-600">%s</span>`, esc(shell.FileName))
		}
		h.raw(`<form method="post" action="/start-over"><button class="text-sm text-gray-600 underline" type="submit">Start Over</button></form>`)
		h.raw(`</div></header>`)
		h.render(ctx, stepIndicator(shell.Steps))
		h.raw(`<main id="content" class="max-w-6xl mx-auto px-4 py-6">`)
		h.render(ctx, content)
		h.raw(`</main><div id="toast" class="hidden"></div>`)
		h.raw(toastScript)
		h.raw(`</body></html>`)
	})
}

func stepIndicator(steps []StepItem) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<nav class="max-w-6xl mx-auto px-4 pt-6"><ol class="flex gap-4">`)
		for _, s := range steps {
			class := "text-gray-400"
			switch {
			case s.Active:
				class = "text-blue-700 font-semibold"
			case s.Done:
				class = "text-green-700"
			}
			h.rawf(`<li class="%s" data-step="%d">%d. %s</li>`, class, s.Number, s.Number, esc(s.Label))
		}
		h.raw(`</ol></nav>`)
	})
}

// ErrorBanner renders msg, or nothing when it is empty.
func ErrorBanner(msg string) templ.Component {
	return component(func(ctx context.Context, h *html) {
		if msg == "" {
			return
		}
		h.rawf(`<div class="mb-4 rounded border border-red-200 bg-red-50 p-3 text-red-700" role="alert">%s</div>`, esc(msg))
	})
}
