package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
)

// errorStatus maps a workflow error to its HTTP status.
func errorStatus(err error) int {
	var ve *services.ValidationError
	var pf *services.ParseFailureError
	var ce *services.ConnectivityError

	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrUploadType),
		errors.Is(err, services.ErrInvalidCategory),
		errors.Is(err, services.ErrCategoryNotPriced),
		errors.Is(err, services.ErrNoFileSelected):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrParseInFlight):
		return http.StatusConflict
	case errors.As(err, &pf), errors.As(err, &ce):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// errorMessage is the user-facing text for err. Unexpected errors are not
// shown verbatim.
func errorMessage(err error) string {
	if errorStatus(err) == http.StatusInternalServerError {
		return "Internal error"
	}
	return err.Error()
}

// respondError logs err and answers with a toast and the mapped status.
func respondError(deps *Deps, e *core.RequestEvent, handler string, err error) error {
	status := errorStatus(err)
	entry := deps.log(handler).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Errorf("request failed: %v", err)
	} else {
		entry.Infof("request rejected: %v", err)
	}
	return ErrorToast(e, status, errorMessage(err))
}

func isHTMX(e *core.RequestEvent) bool {
	return e.Request.Header.Get("HX-Request") == "true"
}

// redirect sends the client to url, using HX-Redirect for HTMX requests.
func redirect(e *core.RequestEvent, url string) error {
	if isHTMX(e) {
		e.Response.Header().Set("HX-Redirect", url)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, url)
}
