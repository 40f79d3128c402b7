package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"rapbuilder/services"
	"rapbuilder/templates"
)

// HandleReviewPage renders the deduplicated line items grouped by category.
func HandleReviewPage(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if s.State.Step != services.StepReview {
			return redirect(e, s.State.Step.Path())
		}
		return renderReview(e, s.State)
	}
}

func renderReview(e *core.RequestEvent, state services.WorkflowState) error {
	data := buildReviewData(state)
	var component templ.Component
	if isHTMX(e) {
		component = templates.ReviewContent(data)
	} else {
		component = templates.ReviewPage(data)
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleReclassify moves every item sharing the posted description into the
// posted category.
func HandleReclassify(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		description := e.Request.FormValue("description")
		category := strings.TrimSpace(e.Request.FormValue("category"))

		state, err := s.State.Reclassify(description, category)
		if err != nil {
			return respondError(deps, e, "review", err)
		}
		s.State = state
		if _, err := persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "review", err)
		}
		deps.log("review").WithFields(map[string]any{
			"description": description,
			"category":    category,
		}).Info("line items reclassified")

		if isHTMX(e) {
			SetToast(e, "success", "Moved to "+category)
			return renderReview(e, s.State)
		}
		return e.Redirect(http.StatusFound, services.StepReview.Path())
	}
}

// HandleReviewContinue builds the pricing sheet and advances to pricing.
func HandleReviewContinue(app *pocketbase.PocketBase, deps *Deps) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := currentSession(app, deps, e)
		state, err := s.State.ContinueToPricing()
		if err != nil {
			return respondError(deps, e, "review", err)
		}
		s.State = state
		if _, err := persist(app, deps, e, s); err != nil {
			return respondError(deps, e, "review", err)
		}
		return redirect(e, services.StepPricing.Path())
	}
}
