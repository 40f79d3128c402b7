package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
	"github.com/sirupsen/logrus"
)

// flashCookie carries a toast across a full-page 302, where HX-Trigger is lost.
const flashCookie = "flash_toast"

type toast struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast queues a "showToast" HTMX event on the response. Events already
// in HX-Trigger are kept; a value that is not a JSON object is replaced.
// The same toast is written to a short-lived cookie for non-HTMX redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	t := toast{Message: message, Type: toastType}

	trigger := map[string]any{}
	if existing := e.Response.Header().Get("HX-Trigger"); existing != "" {
		if err := json.Unmarshal([]byte(existing), &trigger); err != nil {
			logrus.Warnf("toast: replacing non-JSON HX-Trigger %q: %v", existing, err)
			trigger = map[string]any{}
		}
	}
	trigger["showToast"] = t

	data, err := json.Marshal(trigger)
	if err != nil {
		logrus.Warnf("toast: encode HX-Trigger: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", string(data))

	flash, err := json.Marshal(t)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(string(flash)),
		Path:     "/",
		MaxAge:   10,
		HttpOnly: false, // read by the layout script
		SameSite: http.SameSiteLaxMode,
	})
}

// ErrorToast answers with status and message, raising an error toast.
// HX-Reswap: none keeps HTMX from swapping the message into the page.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}
